package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifedash/docintel/internal/async"
	"github.com/lifedash/docintel/internal/common"
	"github.com/lifedash/docintel/internal/docparse"
	"github.com/lifedash/docintel/internal/extract"
	"github.com/lifedash/docintel/internal/ingest"
	"github.com/lifedash/docintel/internal/ocr"
	"github.com/lifedash/docintel/internal/pdftext"
	"github.com/lifedash/docintel/internal/pipeline"
	"github.com/lifedash/docintel/internal/repository"
	"github.com/lifedash/docintel/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("docinteld.fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	docs := repository.NewDocumentRepository(pool, logger)
	jobs := repository.NewExtractJobRepository(pool, logger)

	imageBackend := ocr.NewBackend(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
	}, logger)
	pdfBackend := pdftext.New(logger)
	extractor := extract.NewService(pdfBackend, imageBackend, docparse.NewParser(), logger)

	processor := pipeline.NewProcessor(logger, extractor, docs, jobs, cfg.Pipeline.MinImageConfidence)
	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	ingestor := ingest.NewFSIngestor(docs, logger)

	if cfg.Ingest.SpoolDir != "" {
		if err := os.MkdirAll(cfg.Ingest.SpoolDir, 0o755); err != nil {
			return fmt.Errorf("create spool dir: %w", err)
		}
	}

	if cfg.Ingest.InboxDir != "" {
		if err := startInbox(ctx, cfg, ingestor, queue, logger); err != nil {
			return fmt.Errorf("start inbox watcher: %w", err)
		}
	}

	handler := &server.Handler{
		Extractor:      extractor,
		Docs:           docs,
		Jobs:           jobs,
		Ingestor:       ingestor,
		Queue:          queue,
		SpoolDir:       cfg.Ingest.SpoolDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	}

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.NewRouter(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("docinteld.http.listening", slog.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("docinteld.shutdown.begin")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("docinteld.shutdown.http", slog.String("error", err.Error()))
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("docinteld.shutdown.done")
	return nil
}

// startInbox wires the filesystem watcher into the ingest and extraction
// pipeline. Files dropped into the inbox are registered and queued.
func startInbox(ctx context.Context, cfg *common.Config, ingestor ingest.Ingestor, queue async.Queue, logger *slog.Logger) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Ingest.InboxDir},
		InitialScan: true,
		Debounce:    cfg.Ingest.Debounce,
	})
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errs:
				if !ok {
					return
				}
				logger.Warn("inbox.watch.error", slog.String("error", err.Error()))
			case path, ok := <-events:
				if !ok {
					return
				}
				res, err := ingestor.IngestPath(ctx, path)
				if err != nil {
					logger.Warn("inbox.ingest.failed",
						slog.String("path", path),
						slog.String("error", err.Error()))
					continue
				}
				if res.Deduplicated {
					logger.Info("inbox.ingest.duplicate", slog.String("path", path))
					continue
				}
				id, err := res.DocumentUUID()
				if err != nil {
					continue
				}
				if err := queue.Enqueue(ctx, async.Job{DocumentID: id, SubmittedAt: time.Now()}); err != nil {
					logger.Warn("inbox.enqueue.failed",
						slog.String("document_id", res.DocumentID),
						slog.String("error", err.Error()))
				}
			}
		}
	}()
	return nil
}
