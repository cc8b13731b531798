// Package server owns the HTTP server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmorales/aulago/internal/bootstrap"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// Server wraps the gin engine and its dependencies
type Server struct {
	deps   *bootstrap.Dependencies
	router *gin.Engine
	http   *http.Server
}

// NewServer loads configuration, connects to the database and wires all
// dependencies.
func NewServer(configPath string) (*Server, error) {
	cfg, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, err
	}

	database, err := bootstrap.SetupDatabase(cfg)
	if err != nil {
		return nil, err
	}

	deps, err := bootstrap.BuildDependencies(cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	router := bootstrap.SetupRouter(deps)

	// Serve stored attachments directly
	if err := os.MkdirAll(cfg.Server.StoragePath, os.ModePerm); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	router.Static("/uploads", cfg.Server.StoragePath)

	return &Server{
		deps:   deps,
		router: router,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

// Run starts the server and blocks until shutdown
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", s.http.Addr).Msg("Starting HTTP server")
		serverErrors <- s.http.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed, forcing close")
		_ = s.http.Close()
	}

	// Drain pending blob deletions before dropping the pool
	s.deps.Cleaner.Close()
	s.deps.DB.Close()

	logger.Info().Msg("Server stopped")
	return nil
}
