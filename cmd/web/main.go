// cmd/web/main.go
//
// complaintdesk – HTTP entry point.
//
// Start-up sequence (serve)
// -------------------------
//
//  1. Install the bootstrap console logger so early failures are visible.
//
//  2. Load configuration: defaults → conf/app.yaml → .env → environment.
//     Vault references are resolved lazily; Vault is only dialled when a
//     setting actually holds a `vault:` reference.
//
//  3. Swap in the daily rotating JSON logger (tees to console on a TTY).
//
//  4. Assemble the application: database, upload directories, router,
//     transport guard.
//
//  5. Build the TLS context.  Errors here are fatal, and so is missing TLS
//     material while REQUIRE_HTTPS is on.
//
//  6. Serve until SIGINT or SIGTERM, then shut down gracefully.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/yanizio/complaintdesk/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Root    string           `help:"Application root (uploads, logs, conf/app.yaml)." env:"APP_ROOT" type:"path"`
		EnvFile string           `help:"Dotenv file to load instead of <root>/.env." name:"env-file" type:"path"`
		Version kong.VersionFlag `help:"Print version and exit."`

		Serve       ServeCmd       `cmd:"" default:"1" help:"Run the HTTP(S) server."`
		CheckConfig CheckConfigCmd `cmd:"" help:"Load and validate configuration, then print it with secrets masked."`
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := logger.Bootstrap()

	kctx := kong.Parse(&cli,
		kong.Name("complaintdesk"),
		kong.Description("Complaint-management service."),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&Globals{Root: cli.Root, EnvFile: cli.EnvFile, Log: boot})
	kctx.FatalIfErrorf(err)
}
