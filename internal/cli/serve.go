package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/taskblaster/internal/api"
	"github.com/aristath/taskblaster/internal/events"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the board API until interrupted.

Examples:
  taskblaster serve
  taskblaster serve --addr :8080
  TASKBLASTER_TOKENS=secret:alice taskblaster serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
			}
			return a.serve(cmd.Context(), ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// serve runs the API on ln until ctx is cancelled, then shuts down
// gracefully.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	store, err := a.openStore(ctx)
	if err != nil {
		ln.Close()
		return err
	}
	defer store.Close()

	bus := events.NewEventBus()
	defer bus.Close()
	mover := a.newMover(store, bus)

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(mover, api.Options{
		Tokens:         a.cfg.Auth.Tokens,
		RequestTimeout: a.cfg.Server.RequestTimeout.D(),
		Logger:         a.logger,
		Bus:            bus,
		Ping:           store.Ping,
	})
	httpServer := &http.Server{
		Handler:      server.Handler(),
		ReadTimeout:  a.cfg.Server.ReadTimeout.D(),
		WriteTimeout: a.cfg.Server.WriteTimeout.D(),
	}
	if len(a.cfg.Auth.Tokens) == 0 {
		a.logger.Warn("no auth tokens configured, API is open")
	}

	g, gctx := errgroup.WithContext(ctx)
	sub := bus.SubscribeAll(256)

	g.Go(func() error {
		logEvents(gctx, a.logger, sub)
		return nil
	})

	g.Go(func() error {
		a.logger.Info("listening", "addr", ln.Addr().String(), "db", a.cfg.Database.Path)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.D())
		defer cancel()

		// Closing the bus ends open event streams so Shutdown can drain.
		bus.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("shutdown complete")
	return nil
}

// logEvents writes every board event to the log at debug level.
func logEvents(ctx context.Context, logger *slog.Logger, sub <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			logger.Debug("board event",
				"type", e.EventType(),
				"project", e.ProjectCode(),
				"task", e.TaskID(),
			)
		}
	}
}
