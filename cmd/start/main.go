// Command start runs storage and analysis in one process, sharing the
// submission store directly instead of over HTTP.
package main

import (
	"antiplagiarism/internal/analysis"
	"antiplagiarism/internal/app"
	"antiplagiarism/internal/config"
	"antiplagiarism/internal/logger"
	"antiplagiarism/internal/storage"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	slog.SetDefault(log)
	slog.Info("config loaded",
		"env", cfg.Env,
		"addr", cfg.HTTPServer.Address,
		"blob_type", cfg.Storage.BlobType,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, closeStore, err := app.NewSubmissionStore(ctx, cfg, log)
	if err != nil {
		slog.Error("failed to init submission store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	detector, closeDetector, err := app.NewDetector(ctx, cfg, svc, log)
	if err != nil {
		slog.Error("failed to init detector", "error", err)
		os.Exit(1)
	}
	defer closeDetector()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	storage.NewHandler(svc, cfg.HTTPServer.MaxUploadSize).Register(r)
	analysis.NewHandler(detector).Register(r)

	if err := app.Serve(ctx, "start", cfg.HTTPServer.Address, r, cfg.HTTPServer); err != nil {
		slog.Error("http server error", "error", err)
		os.Exit(1)
	}
}
