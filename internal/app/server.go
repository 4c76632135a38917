package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/samber/lo"
)

// Start listens in the background and returns a channel that fires once a
// termination signal arrives or the listener fails.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{}, 1)
	notify := func() {
		select {
		case terminateChan <- struct{}{}:
		default:
		}
	}

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr, "debug", a.config.GetBool("server.debug"))

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			notify()
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
			slog.Info("termination signal received")
		case <-a.ctx.Done():
		}

		notify()
	}()

	return terminateChan
}

// Serve runs the server on an existing listener until ctx is done, then
// shuts the server down within the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout())
		defer cancel()
		if err := a.httpServer.Shutdown(sctx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	names := lo.Keys(a.closerFn)
	slices.Sort(names)
	for _, name := range names {
		if name == "HTTP Server" {
			continue
		}
		if err := a.closerFn[name](ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}

// ShutdownTimeout bounds Stop.
func (a *App) ShutdownTimeout() time.Duration {
	return a.config.GetDuration("server.shutdown_timeout")
}
