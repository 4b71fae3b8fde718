package main

import (
	"openroutersidebar/internal/config"
	logpkg "openroutersidebar/internal/log"
	"openroutersidebar/internal/server"
	"openroutersidebar/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	dotenvErr := godotenv.Load()

	logger := logpkg.CreateLogger()
	defer func() {
		if appLog, ok := logger.(*logpkg.AppLogger); ok {
			_ = appLog.Close()
		}
	}()

	if dotenvErr != nil {
		logger.Warn("No .env file found, using system environment variables")
	}
	logger.Info("Logger initialized")

	cfg, err := config.LoadServerConfigFromEnv(logger)
	if err != nil {
		logger.Fatal("Failed to load server configuration: %v", err)
	}

	sessions, err := storage.InitStorage(cfg.SessionTTL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session storage: %v", err)
	}
	defer func() { _ = sessions.Close() }()

	cfg.Sessions = sessions
	cfg.Logger = logger

	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to create server: %v", err)
	}
	defer func() { _ = srv.Close() }()

	logger.Info("Starting server on port %s with %s session store", cfg.Port, storage.Kind(sessions))
	if err := srv.Run(); err != nil {
		logger.Fatal("Server error: %v", err)
	}
}
