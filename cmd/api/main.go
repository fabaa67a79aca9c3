package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cordex/adapters/api"
	"cordex/internal/config"
	"cordex/internal/container"
	"cordex/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
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

	appContainer, err := container.New(appConfig, logger, nil)
	if err != nil {
		logger.Fatal("failed to create application container", zap.Error(err))
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.StartWatcher(ctx); err != nil {
		logger.Warn("file watcher disabled", zap.Error(err))
	}
	if err := appContainer.Warm(ctx); err != nil {
		logger.Fatal("failed to load data file", zap.String("path", appConfig.Data.File), zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Server.APIPort,
		Handler:           api.NewRouter(appContainer.Source, appContainer.Pipeline, appConfig.Pipeline, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting API server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("api server failed", zap.Error(err))
	}
}
