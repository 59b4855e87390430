// Package server exposes the game engines over HTTP. Handlers are thin:
// every decision is made in the engines and services, the server only
// parses requests and shapes responses.
package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"minecrate/internal/config"
	"minecrate/internal/game"
	"minecrate/internal/service"
)

// HealthChecker is the liveness check each backing store exposes. Both the
// Postgres pool and the Redis session store satisfy it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FiberServer wires the HTTP surface to the services.
type FiberServer struct {
	*fiber.App

	accounts *service.AccountService
	games    *service.GameService
	registry *game.Registry

	db    HealthChecker
	cache HealthChecker
}

// New creates the server with all routes registered.
func New(cfg *config.ServerConfig, accounts *service.AccountService, games *service.GameService, registry *game.Registry, db, cache HealthChecker) *FiberServer {
	s := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader: "minecrate",
			AppName:      "minecrate",
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
		accounts: accounts,
		games:    games,
		registry: registry,
		db:       db,
		cache:    cache,
	}

	s.App.Use(recover.New())
	s.registerRoutes()
	return s
}

// Start listens on the configured port until Shutdown is called.
func (s *FiberServer) Start(port int) error {
	log.Info().Int("port", port).Msg("HTTP server starting")
	return s.App.Listen(fmt.Sprintf(":%d", port))
}
