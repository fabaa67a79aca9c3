package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cordex/internal/config"
	"cordex/internal/container"
	"cordex/internal/logging"
	"cordex/ui"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

//go:embed ui/templates/*.html ui/templates/fragments/*.html
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to create application container", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		appContainer.Shutdown(shutdownCtx)
	}()

	if err := appContainer.StartWatcher(ctx); err != nil {
		logger.Warn("file watcher disabled", zap.Error(err))
	}
	if err := appContainer.Warm(ctx); err != nil {
		logger.Fatal("failed to load data file", zap.String("path", appConfig.Data.File), zap.Error(err))
	}

	templates, err := fs.Sub(embeddedFiles, "ui/templates")
	if err != nil {
		logger.Fatal("failed to open embedded templates", zap.Error(err))
	}

	server, err := ui.NewServer(ui.Options{
		Source:    appContainer.Source,
		Pipeline:  appContainer.Pipeline,
		Templates: templates,
		Settings:  appConfig.Pipeline,
		Gatherer:  prometheus.DefaultGatherer,
		GinMode:   appConfig.Server.GinMode,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}

	logger.Info("starting CORD-19 dashboard",
		zap.String("port", appConfig.Server.Port),
		zap.String("data_file", appConfig.Data.File))
	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
