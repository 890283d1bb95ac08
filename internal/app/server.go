package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func (a *App) listen(name string, srv *http.Server) {
	slog.Info(name+" server listening", "address", srv.Addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to listen and serve "+name+" server", "error", err)
		os.Exit(1)
	}
}

// Start launches the HTTP and SSE servers and returns a channel closed on
// SIGINT, SIGTERM or SIGHUP.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go a.listen("http", a.httpServer)
	go a.listen("sse", a.sseServer)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		close(terminateChan)

		slog.Info("application received shutdown signal")
	}()

	return terminateChan
}

// Stop cancels background work, drains both servers, waits for goroutines
// (consumers, janitor, event publishers) and then releases resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}
	if err := a.sseServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "SSE Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	if n := a.goroutine.Dropped(); n > 0 {
		slog.WarnContext(ctx, "goroutine limit dropped tasks during run", "dropped_total", n)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
