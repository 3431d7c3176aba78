package bootstrap

import (
	"context"
	"log/slog"

	"github.com/donalcheung/dine-together-sub000/internal/scheduler"
	"github.com/donalcheung/dine-together-sub000/internal/server"
	"github.com/donalcheung/dine-together-sub000/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server    *server.Server
	Scheduler *scheduler.Scheduler
	Workers   *worker.Pool
	App       *App
}

// GracefulShutdown stops the components in order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (no new background passes)
// 3. Event publisher and database pool (flush pending events)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownWorkers)
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.Workers != nil {
		components.Workers.Stop()
	}

	if components.App != nil {
		components.App.Close(ctx)
	}

	slog.Info(LogMsgServerStopped)
}
