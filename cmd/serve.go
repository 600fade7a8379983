package main

import (
	"context"
	"fmt"
	"net"

	"github.com/desertthunder/songsheet/internal/server"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API on the local library until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	addr := r.config.Server.Addr()
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if cmd.Bool("open") {
		target := fmt.Sprintf("http://%s/healthz", ln.Addr())
		if err := shared.OpenBrowser(target); err != nil {
			r.logger.Warn("failed to open browser", "url", target, "error", err)
		}
	}

	return server.New(r.config, svc, r.logger).Serve(ctx, ln)
}
