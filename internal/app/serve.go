package app

import (
	"context"

	"github.com/yanizio/complaintdesk/internal/server"
)

// Serve is the self-hosted run path: build the TLS context, then serve
// until ctx is cancelled.  TLS failures abort before the listener opens.
func Serve(ctx context.Context, a *App) error {
	tlsCfg, err := TLSConfig(a.cfg, a.log)
	if err != nil {
		return err
	}

	srv := server.New(a.cfg.HTTP.ListenAddr, a.Handler(), tlsCfg, a.log)
	return server.Run(ctx, srv, a.log)
}
