package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/docforge/config"
	"github.com/bnema/docforge/internal/adapter/archive"
	"github.com/bnema/docforge/internal/adapter/completion/vertex"
	"github.com/bnema/docforge/internal/adapter/converter/document"
	"github.com/bnema/docforge/internal/adapter/converter/libreoffice"
	"github.com/bnema/docforge/internal/adapter/converter/tesseract"
	HTTPAdapter "github.com/bnema/docforge/internal/adapter/http"
	"github.com/bnema/docforge/internal/adapter/storage/filesystem"
	"github.com/bnema/docforge/internal/adapter/storage/memory"
	sqlitestore "github.com/bnema/docforge/internal/adapter/storage/sqlite"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
	"github.com/bnema/docforge/internal/service"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, os.Stderr)

	logger.Info.Printf("starting docforge %s on port %d, store=%s", version, cfg.Port, cfg.JobStore)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error.Printf("failed to create data directory: %v", err)
		os.Exit(1)
	}

	artifacts, err := filesystem.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error.Printf("failed to create artifact store: %v", err)
		os.Exit(1)
	}

	var store port.JobStore
	switch cfg.JobStore {
	case config.JobStoreSQLite:
		sqlStore, err := sqlitestore.NewStore(cfg.DataDir)
		if err != nil {
			logger.Error.Printf("failed to create store: %v", err)
			os.Exit(1)
		}
		defer func() { _ = sqlStore.Close() }()
		store = sqlStore
	default:
		store = memory.NewStore()
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var completer port.TextCompleter = vertex.Disabled{}
	if cfg.CompletionEnabled() {
		vc, err := vertex.NewCompleter(baseCtx, cfg.VertexProjectID, cfg.VertexRegion, cfg.VertexModel)
		if err != nil {
			logger.Error.Printf("failed to create completion client: %v", err)
			os.Exit(1)
		}
		defer func() { _ = vc.Close() }()
		completer = vc
	} else {
		logger.Warn.Printf("VERTEX_PROJECT_ID not set, summary and table extraction are disabled")
	}

	archiver := archive.NewZipArchiver()
	converter := document.New(artifacts, document.Options{
		Renderer:          libreoffice.NewRenderer(cfg.SofficePath, cfg.RenderTimeout),
		Recognizer:        tesseract.NewRecognizer(cfg.TesseractPath, cfg.OCRLanguage, cfg.RenderTimeout),
		Completer:         completer,
		Archiver:          archiver,
		RenderConcurrency: cfg.RenderConcurrency,
	})

	eventBus := service.NewEventBus()
	sweeper := service.NewRetentionSweeper(store, artifacts, cfg.RetentionDelay, cfg.MaxJobAge)
	jobSvc := service.NewJobService(store, artifacts, converter, archiver, eventBus, sweeper)
	sweeper.SkipActive(jobSvc.InFlight)

	// Periodic cleanup of jobs nobody downloaded
	go sweeper.Start(baseCtx, cfg.SweepInterval)

	server := HTTPAdapter.NewServer(jobSvc, eventBus, cfg.MaxUploadSizeMB, version)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info.Printf("received %s, shutting down", sig)

		// Stop accepting new requests; in-flight conversions finish with their request.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		cancel()

		logger.Info.Printf("shutdown complete")
	}()

	logger.Info.Printf("server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
}
