package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/server"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}

	srv := server.New(cfg, &server.API{
		Library:   r.library,
		Planner:   r.planner,
		Profile:   r.profile,
		Dashboard: r.dashboard,
		Logger:    r.logger,
	}, r.logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Serving %s (Ctrl+C to stop)\n", srv.URL())
	if cmd.Bool("open") {
		go func() {
			if err := shared.OpenBrowser(srv.URL() + "/api/stats"); err != nil {
				r.logger.Warn("could not open browser", "error", err)
			}
		}()
	}

	return srv.ListenAndServe(ctx)
}
