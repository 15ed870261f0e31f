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

	"lpr-service/internal/config"
	"lpr-service/internal/db"
	httphandler "lpr-service/internal/http"
	"lpr-service/internal/logger"
	"lpr-service/internal/ocr"
	"lpr-service/internal/repository"
	"lpr-service/internal/service"
	"lpr-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	// The OCR engine is expensive to construct; build it once and share it for
	// the process lifetime.
	engine, err := ocr.NewTesseractEngine(cfg.Recognition.Language)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize OCR engine")
	}
	defer engine.Close()

	plateRepo := repository.NewPlateRepository(database)
	eventRepo := repository.NewEventRepository(database)

	registryService := service.NewRegistryService(plateRepo, appLogger)
	recognitionService := service.NewRecognitionService(engine, plateRepo, eventRepo, cfg.Recognition.MinCandidateLength, appLogger)
	importService := service.NewImportService(registryService, appLogger)

	// Snapshot storage is optional; recognition runs without it.
	snapshots, err := storage.NewSnapshotStoreFromEnv()
	if err != nil && !errors.Is(err, storage.ErrNotConfigured) {
		appLogger.Fatal().Err(err).Msg("failed to initialize snapshot storage")
	}
	if err != nil {
		appLogger.Warn().Msg("snapshot storage not configured, recognition images will not be kept")
		snapshots = nil
	}

	handler := httphandler.NewHandler(registryService, recognitionService, importService, snapshots, appLogger)
	router := httphandler.NewRouter(handler, cfg.Environment, database)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting LPR registry service")

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error().Err(err).Msg("failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited")
}
