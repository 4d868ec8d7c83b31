package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/vocabflash/internal/api"
	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/maintenance"
	"github.com/vytor/vocabflash/internal/worker"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	log := logger.Default()

	log.Info("===========================================")
	log.Info("vocabflash server starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("group_size=%d", cfg.GroupSize)
	log.Debug("direction=%s", cfg.Direction)
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)
	log.Debug("maintenance_interval=%s", cfg.MaintenanceInterval)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		_ = a.Close()
	}()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	pool.Start(workerCtx)
	queue := jobs.NewWorkerQueue(pool, a.words, a.sessions, a.kv, a.vocab, retention(cfg))

	if cfg.CatalogPath != "" {
		if err := queue.EnqueueCatalogImport(catalog.ImportConfig{
			FilePath:   cfg.CatalogPath,
			SheetName:  cfg.CatalogSheet,
			SkipHeader: true,
		}); err != nil {
			log.Warn("failed to queue catalog import: %v", err)
		}
	}

	sched := maintenance.New(queue, cfg.MaintenanceInterval)
	if err := sched.Start(); err != nil {
		return err
	}

	srv := &api.Server{
		Vocabulary:     a.vocab,
		Jobs:           queue,
		DB:             a.db.DB,
		RequestTimeout: 30 * time.Second,
	}
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, initiating graceful shutdown")
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error("HTTP server error: %v", runErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("stopping maintenance scheduler")
	sched.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	pool.Stop()

	// Saves and records any group left open by a client.
	a.vocab.Exit(shutdownCtx)

	log.Info("===========================================")
	log.Info("vocabflash server stopped")
	log.Info("===========================================")
	return runErr
}
