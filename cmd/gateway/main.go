package main

import (
	"antiplagiarism/internal/app"
	"antiplagiarism/internal/config"
	"antiplagiarism/internal/gateway"
	"antiplagiarism/internal/logger"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"env", cfg.Env,
		"gateway_addr", cfg.Gateway.Address,
		"storage_url", cfg.Gateway.StorageBaseURL,
		"analysis_url", cfg.Gateway.AnalysisBaseURL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gw := gateway.NewGateway(cfg.Gateway.StorageBaseURL, cfg.Gateway.AnalysisBaseURL, cfg.Gateway.ClientTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Gateway.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// high-level API
	gw.Register(r)

	// an upload waits on storage and then on analysis
	serverCfg := cfg.HTTPServer
	if serverCfg.Timeout < 2*cfg.Gateway.ClientTimeout {
		serverCfg.Timeout = 2 * cfg.Gateway.ClientTimeout
	}

	if err := app.Serve(ctx, "gateway", cfg.Gateway.Address, r, serverCfg); err != nil {
		slog.Error("gateway server error", "err", err)
		os.Exit(1)
	}
}
