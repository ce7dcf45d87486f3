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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/auth"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/buyer"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/config"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/handler"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/logger"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/normalize"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/property"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/service"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/store/clickhouse"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/summary"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting activity API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize ClickHouse client
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	// Initialize activity store
	activityStore := clickhouse.NewStore(clickhouseClient, log)
	if err := activityStore.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize activity schema", zap.Error(err))
	}

	// Initialize collaborator clients
	propertyClient := property.NewClient(&cfg.Property, log)
	buyerClient := buyer.NewClient(&cfg.Buyer, log)

	// Initialize normalization and aggregation
	normalizer := normalize.New(log)
	aggregator := summary.NewAggregator(normalizer, log)
	transactions := summary.NewTransactionBuilder(propertyClient, log)

	// Initialize activity service
	activityService := service.NewActivityService(activityStore, normalizer, aggregator, transactions, buyerClient, log)

	// Initialize auth and handler
	verifier := auth.NewVerifier(&cfg.Auth, log)
	h := handler.NewHandler(activityService, verifier, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	server := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	go func() {
		log.Info("API server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server cleanly", zap.Error(err))
	}

	log.Info("API server stopped")
}
