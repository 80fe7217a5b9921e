package main

import (
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
		"storage_path", cfg.Storage.Path,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, closeStore, err := app.NewSubmissionStore(ctx, cfg, log)
	if err != nil {
		slog.Error("failed to init submission store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	handler := storage.NewHandler(svc, cfg.HTTPServer.MaxUploadSize)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	handler.Register(r)

	if err := app.Serve(ctx, "storage", cfg.HTTPServer.Address, r, cfg.HTTPServer); err != nil {
		slog.Error("http server error", "error", err)
		os.Exit(1)
	}
}
