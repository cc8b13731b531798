package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/dmorales/aulago/internal/pkg/logger"
	"github.com/dmorales/aulago/internal/server"
)

// @title Aulago API
// @version 1.0
// @description Course platform backend: courses, lessons, enrollments, progress tracking, ratings and comments.

// @contact.name Aulago Team
// @contact.email dev@aulago.app

// @license.name MIT

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	srv, err := server.NewServer(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("Server exited with error")
	}
}
