package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/santhosh-thouda/podcast-summarizer/config"
	"github.com/santhosh-thouda/podcast-summarizer/handlers/api"
	"github.com/santhosh-thouda/podcast-summarizer/logger"
	"github.com/santhosh-thouda/podcast-summarizer/media"
	"github.com/santhosh-thouda/podcast-summarizer/scripts"
	"github.com/santhosh-thouda/podcast-summarizer/services/summarize"
	"github.com/santhosh-thouda/podcast-summarizer/storage"
	"github.com/santhosh-thouda/podcast-summarizer/summary"
	"github.com/santhosh-thouda/podcast-summarizer/transcription"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, logCloser, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logCloser.Close()

	tempDir, err := storage.NewTempDir(cfg.TempDir, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize temp directory")
	}
	// Files older than any request can live belong to a previous process.
	if _, err := tempDir.Sweep(cfg.RequestTimeout); err != nil {
		appLogger.WithError(err).Warn("Failed to sweep temp directory")
	}

	runner := scripts.NewRunner(scripts.Config{
		Dir:         cfg.Scripts.Dir,
		Environment: cfg.Scripts.Environment,
	}, appLogger)
	extractor := media.NewFFmpegExtractor(cfg.Transcriber.FFmpegBinary, runner, appLogger)

	// Models are built once, before the listener opens.
	transcriber, err := transcription.New(cfg.Transcriber, transcription.Dependencies{
		Runner:    runner,
		Extractor: extractor,
		TempDir:   tempDir,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize transcriber")
	}

	summarizer, err := summary.New(cfg.Summarizer, runner, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize summarizer")
	}

	summarizeService := summarize.NewService(
		transcriber,
		summarizer,
		extractor,
		tempDir,
		summarize.Config{Params: summary.DefaultParams()},
		appLogger,
	)

	server := api.NewServer(cfg,
		api.WithServices(summarizeService),
		api.WithLogger(appLogger),
	)

	appLogger.WithFields(logrus.Fields{
		"transcriber": cfg.Transcriber.Backend,
		"summarizer":  cfg.Summarizer.Backend,
		"temp_dir":    tempDir.Dir(),
	}).Info("Models initialized")

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server error")
		}
	case sig := <-shutdownChan:
		appLogger.WithField("signal", sig.String()).Info("Received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.WithError(err).Error("Server shutdown error")
		}
	}

	appLogger.Info("Server stopped")
}
