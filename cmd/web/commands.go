package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/yanizio/complaintdesk/internal/app"
	"github.com/yanizio/complaintdesk/internal/config"
	"github.com/yanizio/complaintdesk/internal/logger"
	"github.com/yanizio/complaintdesk/internal/vault"
)

// Globals carries flag values shared by every command.
type Globals struct {
	Root    string
	EnvFile string
	Log     *zap.SugaredLogger
}

func (g *Globals) load(ctx context.Context) (*config.Config, error) {
	return config.Load(ctx, config.Options{
		Root:    g.Root,
		EnvFile: g.EnvFile,
		Secrets: vault.NewLazy(ctx, g.Log),
	})
}

// ServeCmd is the self-hosted run path.
type ServeCmd struct{}

func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.load(ctx)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Dir:   cfg.Paths.LogDir,
		Tee:   logger.IsTTY(),
		Debug: cfg.Debug,
	})
	if err != nil {
		g.Log.Errorw("file logger unavailable", "dir", cfg.Paths.LogDir, "err", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warnw("close failed", "err", err)
		}
	}()

	return app.Serve(ctx, a)
}

// CheckConfigCmd validates configuration without serving.
type CheckConfigCmd struct {
	TLS bool `help:"Also build the TLS context." default:"true" negatable:""`

	out io.Writer
}

func (c *CheckConfigCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.load(ctx)
	if err != nil {
		return err
	}
	if c.TLS {
		if _, err := app.TLSConfig(cfg, g.Log); err != nil {
			return err
		}
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg.Redacted())
}
