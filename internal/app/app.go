// Package app wires configuration into the services the binaries run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"antiplagiarism/internal/analysis"
	"antiplagiarism/internal/blob"
	"antiplagiarism/internal/config"
	"antiplagiarism/internal/events"
	"antiplagiarism/internal/postgres"
	"antiplagiarism/internal/storage"
	"antiplagiarism/internal/wordcloud"
)

// Closer releases whatever a constructor opened.
type Closer func()

// NewSubmissionStore builds the submission store from cfg. Without a
// storage_db DSN the metadata index lives in memory.
func NewSubmissionStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage.Service, Closer, error) {
	blobs, err := blob.NewFromConfig(ctx, blob.Config{
		Type: cfg.Storage.BlobType,
		Path: cfg.Storage.Path,
		S3: blob.S3Config{
			Endpoint:        cfg.Storage.S3.Endpoint,
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("blob store: %w", err)
	}

	if cfg.StorageDB.DSN == "" {
		log.Warn("storage_db.dsn is empty, submission index is kept in memory")
		return storage.NewService(blobs, storage.NewMemoryIndex(), log), func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.StorageDB.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect storage db: %w", err)
	}
	if cfg.StorageDB.AutoMigrate {
		if err := postgres.Migrate(pool, postgres.SchemaStorage); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return storage.NewService(blobs, storage.NewRepository(pool), log), pool.Close, nil
}

// NewDetector builds the duplicate detector over submissions. Reports go to
// analysis_db when configured, otherwise to memory.
func NewDetector(ctx context.Context, cfg *config.Config, submissions analysis.Submissions, log *slog.Logger) (*analysis.Detector, Closer, error) {
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var reports analysis.ReportStore
	if cfg.AnalysisDB.DSN == "" {
		log.Warn("analysis_db.dsn is empty, reports are kept in memory")
		reports = analysis.NewMemoryReports()
	} else {
		pool, err := postgres.Connect(ctx, cfg.AnalysisDB.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect analysis db: %w", err)
		}
		closers = append(closers, pool.Close)
		if cfg.AnalysisDB.AutoMigrate {
			if err := postgres.Migrate(pool, postgres.SchemaAnalysis); err != nil {
				closeAll()
				return nil, nil, err
			}
		}
		reports = analysis.NewRepository(pool)
	}

	var opts []analysis.Option
	if cfg.Analysis.Summary.Enabled {
		opts = append(opts, analysis.WithSummaryGenerator(
			wordcloud.NewClient(cfg.Analysis.Summary.BaseURL, cfg.Analysis.Summary.Timeout),
		))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewProducer(events.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				log.Error("kafka producer close error", "err", err)
			}
		})
		opts = append(opts, analysis.WithPublisher(producer))
	}

	return analysis.NewDetector(submissions, reports, log, opts...), closeAll, nil
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, name, addr string, handler http.Handler, cfg config.HTTPServer) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting http server", "service", name, "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down http server", "service", name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	return nil
}
