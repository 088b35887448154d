package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"alertautec-backend/internal/api/routes"
	"alertautec-backend/internal/config"
	"alertautec-backend/internal/database"
	"alertautec-backend/internal/logger"
	"alertautec-backend/internal/realtime"
)

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set up logging
	logger.Setup(cfg.LogLevel)
	appLogger := logger.New()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, nil)
	if err != nil {
		logrus.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router and realtime hub
	router, hub := routes.SetupRoutes(db, cfg, appLogger)

	// Bridge realtime events across instances when redis is configured
	if cfg.RedisAddr != "" {
		bridge, err := realtime.NewBridge(cfg.RedisAddr, cfg.RedisPassword, hub, appLogger)
		if err != nil {
			logrus.Warnf("Redis bridge disabled: %v", err)
		} else {
			defer bridge.Close()
			logrus.Infof("Redis bridge connected to %s", cfg.RedisAddr)
		}
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "7010"
	}

	logrus.Infof("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server:", err)
	}
}
