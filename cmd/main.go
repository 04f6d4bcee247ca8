package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/application"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/database"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/jwt"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/metrics"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/repository"
	httprouter "github.com/Lecon-a/Coffee-Shop/internal/interfaces/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title Coffee Shop API
// @version 1.0
// @description Drinks catalog protected by bearer tokens from an external issuer
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create database connection
	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBResetOnStart {
		err = db.ResetDatabase()
	} else {
		err = db.RunMigrations()
	}
	if err != nil {
		logger.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Token verification
	fetcher := jwt.NewHTTPKeySetFetcher(cfg.Auth.JWKSURL, &http.Client{Timeout: cfg.Auth.JWKSFetchTimeout})
	keys := jwt.NewJWKSCache(fetcher, cfg.Auth, m, logger)
	warmCtx, cancelWarm := context.WithTimeout(ctx, cfg.Auth.JWKSFetchTimeout)
	if err := keys.Refresh(warmCtx); err != nil {
		logger.Warn("Signing key set not loaded at startup, will retry on demand",
			zap.String("url", cfg.Auth.JWKSURL), zap.Error(err))
	}
	cancelWarm()
	verifier := jwt.NewVerifier(keys, cfg.Auth, logger)

	// Initialize services
	drinkRepo := repository.NewDrinkRepository(db.DB(), logger)
	drinkService := application.NewDrinkService(drinkRepo, logger)

	// Create router
	router := httprouter.NewRouter(httprouter.Dependencies{
		Config:       cfg,
		DrinkService: drinkService,
		Authorizer:   verifier,
		DB:           db,
		Metrics:      m,
		Gatherer:     registry,
		Logger:       logger,
	})

	// Start server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			zap.Int("port", cfg.ServerPort),
			zap.String("issuer", cfg.Auth.Issuer),
			zap.String("audience", cfg.Auth.Audience))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
