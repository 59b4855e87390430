// Package cache provides the Redis-backed store for active mines sessions.
// A session lives from Start until bust or cash-out; the TTL cleans up
// games abandoned mid-play.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"minecrate/internal/config"
	"minecrate/internal/game/mines"
)

const sessionKeyPrefix = "mines:session:"

// ErrNoSession is returned when a profile has no active mines session.
var ErrNoSession = errors.New("no active mines session")

// SessionStore persists one active mines session per profile.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore connects to Redis and returns the store.
func NewSessionStore(ctx context.Context, cfg *config.RedisConfig, ttl time.Duration) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("Successfully connected to Redis")

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}, nil
}

// Save stores the session under its profile id, refreshing the TTL.
func (s *SessionStore) Save(ctx context.Context, session *mines.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ProfileID, data, s.ttl).Err()
}

// Get loads the profile's active session, or ErrNoSession.
func (s *SessionStore) Get(ctx context.Context, profileID string) (*mines.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+profileID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var session mines.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the profile's session. Deleting a missing session is not
// an error.
func (s *SessionStore) Delete(ctx context.Context, profileID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+profileID).Err()
}

// HealthCheck pings Redis.
func (s *SessionStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
