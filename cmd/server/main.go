package main

import (
	"alcyxob/gym-tracker/internal/api" // Import API package
	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/repository/file"
	"alcyxob/gym-tracker/internal/service"
	"alcyxob/gym-tracker/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.Info("Starting Gym Tracker Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatalf("Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is required (jwt.secret / JWT_SECRET)")
	}
	logger.Infof("Configuration loaded, data root: %s", cfg.Storage.Root)

	// --- Initialize Repositories ---
	credRepo, err := file.NewCredentialRepository(cfg.Storage.Root)
	if err != nil {
		logger.Fatalf("Could not initialize credential store: %v", err)
	}
	workoutRepo, err := file.NewWorkoutRepository(cfg.Storage.Root)
	if err != nil {
		logger.Fatalf("Could not initialize workout store: %v", err)
	}

	// --- Initialize Snapshot Storage (optional) ---
	var snapshots storage.Snapshotter
	if cfg.S3.BucketName != "" {
		snapshots, err = storage.NewS3Snapshotter(cfg.S3)
		if err != nil {
			logger.Fatalf("Failed to initialize S3 snapshots: %v", err)
		}
		logger.Infof("Snapshot mirror enabled, bucket: %s", cfg.S3.BucketName)
	} else {
		logger.Info("Snapshot mirror disabled (no s3.bucket_name configured)")
	}

	// --- Initialize Services ---
	accountService := service.NewAccountService(credRepo, workoutRepo, snapshots, logger, cfg.JWT.Secret, cfg.JWT.Expiration)
	workoutService := service.NewWorkoutService(workoutRepo, snapshots, logger)

	// --- Initialize Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, credRepo, accountService, workoutService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exiting.")
}
