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
		"addr", cfg.Analysis.Address,
		"storage_url", cfg.Analysis.StorageBaseURL,
		"summary_enabled", cfg.Analysis.Summary.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	submissions := storage.NewClient(cfg.Analysis.StorageBaseURL, cfg.Analysis.StorageTimeout)
	detector, closeDetector, err := app.NewDetector(ctx, cfg, submissions, log)
	if err != nil {
		slog.Error("failed to init detector", "error", err)
		os.Exit(1)
	}
	defer closeDetector()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	analysis.NewHandler(detector).Register(r)

	if err := app.Serve(ctx, "analysis", cfg.Analysis.Address, r, cfg.HTTPServer); err != nil {
		slog.Error("http server error", "error", err)
		os.Exit(1)
	}
}
