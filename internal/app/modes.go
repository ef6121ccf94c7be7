package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradewatch/insiderbot/internal/server"
	"github.com/tradewatch/insiderbot/internal/server/handler"
)

// BotMode connects to the chat gateway and serves the insider command until
// the context is cancelled. The ops server also starts when enabled.
func (a *App) BotMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting bot mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Gateway.Run(ctx)
	})

	if a.cfg.Server.Enabled {
		a.startOpsServer(ctx, g, deps)
	}

	return g.Wait()
}

// OnceMode executes a single pipeline run with the default look-back window,
// prints the framed summary to stdout, and exits. The chat gateway is never
// connected.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting once mode",
		slog.Int("days_back", a.cfg.Pipeline.DefaultDaysBack),
	)

	runCtx, cancel := context.WithTimeout(ctx, a.cfg.Pipeline.RunTimeout.Duration)
	defer cancel()

	report, err := deps.Runner.Run(runCtx, a.cfg.Pipeline.DefaultDaysBack)
	if err != nil {
		deps.Status.RecordFailure(a.cfg.Pipeline.DefaultDaysBack, err)
		return fmt.Errorf("once mode: %w", err)
	}
	deps.Status.RecordSuccess(report)

	header := fmt.Sprintf("S&P 500 Insider Trading Summary (Past %d Days) — %s",
		report.DaysBack, report.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(os.Stdout, "%s\n\n%s\n", header, report.Summary)

	return nil
}

// FullMode runs the chat gateway and the ops status server together. The
// server runs regardless of the server.enabled flag; full mode exists to
// operate both surfaces.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Gateway.Run(ctx)
	})

	a.startOpsServer(ctx, g, deps)

	return g.Wait()
}

// startOpsServer launches the HTTP server inside the errgroup together with a
// goroutine that shuts it down when the context is cancelled.
func (a *App) startOpsServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	srv := server.NewServer(
		server.Config{
			Port:   a.cfg.Server.Port,
			APIKey: a.cfg.Server.APIKey,
		},
		server.Handlers{
			Health: handler.NewHealthHandler(),
			Status: handler.NewStatusHandler(deps.Status, a.cfg.Mode),
		},
		a.logger,
	)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("ops server shutdown failed", slog.String("error", err.Error()))
		}
		return ctx.Err()
	})
}
