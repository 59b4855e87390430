// Package main is the entry point for the minecrate game server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"minecrate/internal/cache"
	"minecrate/internal/catalog"
	"minecrate/internal/config"
	"minecrate/internal/game"
	"minecrate/internal/game/crate"
	"minecrate/internal/game/mines"
	"minecrate/internal/game/upgrader"
	"minecrate/internal/pkg/db"
	"minecrate/internal/pkg/lock"
	"minecrate/internal/pkg/random"
	"minecrate/internal/repository"
	"minecrate/internal/server"
	"minecrate/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load and validate static game configuration before touching any
	// infrastructure: a broken odds table must abort startup.
	itemCatalog := catalog.Default()
	crates := catalog.DefaultCrates()
	if err := catalog.ValidateCrates(crates, itemCatalog); err != nil {
		log.Fatal().Err(err).Msg("Invalid crate configuration")
	}

	log.Info().
		Int("items", itemCatalog.Size()).
		Int("crates", len(crates)).
		Msg("Game configuration validated")

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize Redis session store
	sessionStore, err := cache.NewSessionStore(ctx, &cfg.Redis, cfg.Games.Mines.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer sessionStore.Close()

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(dbPool.Pool)
	inventoryRepo := repository.NewInventoryRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)

	// Initialize profile lock
	profileLock := lock.New()

	// Initialize engines and registry
	crateEngine := crate.New(itemCatalog)
	minesEngine := mines.New()
	upgradeEngine := upgrader.New(itemCatalog)

	registry := game.NewRegistry()
	for _, g := range []game.Info{crateEngine, minesEngine, upgradeEngine} {
		if err := registry.Register(g); err != nil {
			log.Fatal().Err(err).Msg("Failed to register game")
		}
	}

	log.Info().Int("game_count", registry.Count()).Msg("Games registered")

	// Initialize services
	accountService := service.NewAccountService(
		profileRepo,
		inventoryRepo,
		txRepo,
		profileLock,
		cfg.Profile.StartingBalance,
	)

	gameService := service.NewGameService(
		profileRepo,
		inventoryRepo,
		txRepo,
		sessionStore,
		profileLock,
		crateEngine,
		minesEngine,
		upgradeEngine,
		crates,
		random.Default(),
		cfg.Games.Mines.MaxStake,
	)

	// Initialize HTTP server
	srv := server.New(&cfg.Server, accountService, gameService, registry, dbPool, sessionStore)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create profiles table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 1000 CHECK (balance >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_balance ON profiles(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: profiles table created")

	// Migration 2: Create inventory_items table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS inventory_items (
			id UUID PRIMARY KEY,
			profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			rarity VARCHAR(20) NOT NULL,
			class VARCHAR(20) NOT NULL,
			base_value BIGINT NOT NULL CHECK (base_value > 0),
			current_value BIGINT NOT NULL CHECK (current_value > 0),
			won_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_inventory_profile ON inventory_items(profile_id, won_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: inventory_items table created")

	// Migration 3: Create transactions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_profile_time ON transactions(profile_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: transactions table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
