package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/handler"
	"flowcanvas/internal/hub"
	"flowcanvas/internal/loader"
	"flowcanvas/internal/repository/sqlite"
	"flowcanvas/internal/service"
	"flowcanvas/internal/watcher"
)

func serveCmd(a *app) *cobra.Command {
	var addr, dbPath, watchFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API, event stream and websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Address = addr
			}
			if cmd.Flags().Changed("db") {
				a.cfg.Database.Path = dbPath
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch.File = watchFile
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.address)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.path)")
	cmd.Flags().StringVar(&watchFile, "watch", "", "diagram file to load and reload on change")
	return cmd
}

// serve runs until ctx is cancelled.
func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	logger := cfg.Log.NewLogger(os.Stderr)
	logger.Info("Starting flowcanvas server", "version", version, "config", displayPath(a.cfgPath))

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info("Database opened", "path", cfg.Database.Path)

	svc, err := service.New(cfg.ServiceOptions(), logger)
	if err != nil {
		return fmt.Errorf("create diagram service: %w", err)
	}
	session := handler.NewSession(svc)
	defer session.Do(func(svc *service.DiagramService) error {
		svc.Close()
		return nil
	})

	// Connect the service to the SSE hub
	sseHub := hub.New(logger).WithKeepAlive(cfg.Server.KeepAlive.Duration())
	go sseHub.Run(ctx)
	events := make(chan service.Event, 256)
	session.Subscribe(events)
	defer session.Unsubscribe(events)
	go sseHub.Pump(ctx, events)

	if path := cfg.Watch.File; path != "" {
		snap, err := reload(session, path)
		if err != nil {
			return err
		}
		logger.Info("Diagram loaded", "path", path, "stats", snap.Stats())

		w := watcher.New(path, func() {
			if snap, err := reload(session, path); err != nil {
				logger.Warn("Failed to reload diagram", "path", path, "error", err)
			} else {
				logger.Info("Diagram reloaded", "path", path, "stats", snap.Stats())
			}
		}).WithDebounce(cfg.Watch.Debounce.Duration()).WithLogger(logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Watcher stopped", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()
	handler.NewDiagramHandler(session, repo, logger).Register(mux)
	mux.Handle("GET /events", sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover(logger),
		handler.CORS,
		handler.Logger(logger),
	)

	// No write timeout: SSE and websocket responses stay open.
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           finalHandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
	return nil
}

// reload replaces the session's diagram with the file at path.
func reload(session *handler.Session, path string) (*codec.Snapshot, error) {
	var snap *codec.Snapshot
	err := session.Do(func(svc *service.DiagramService) error {
		var err error
		snap, err = loader.LoadInto(path, svc)
		return err
	})
	return snap, err
}
