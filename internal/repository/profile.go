// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minecrate/internal/model"
)

// Common errors for repository operations.
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ProfileRepository handles player profile persistence.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository instance.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create creates a new profile with the given username and starting
// balance.
func (r *ProfileRepository) Create(ctx context.Context, username string, startingBalance int64) (*model.Profile, error) {
	const query = `
		INSERT INTO profiles (id, username, balance, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, username, balance, created_at, updated_at
	`

	var p model.Profile
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), username, startingBalance).Scan(
		&p.ID, &p.Username, &p.Balance, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by its id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	const query = `
		SELECT id, username, balance, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p model.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.Balance, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateBalance adds delta to a profile's balance and returns the updated
// profile. Delta may be negative; the update is rejected with
// ErrInsufficientBalance if it would drive the balance below zero, so the
// non-negative invariant holds even under concurrent writers.
func (r *ProfileRepository) UpdateBalance(ctx context.Context, id string, delta int64) (*model.Profile, error) {
	const query = `
		UPDATE profiles
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING id, username, balance, created_at, updated_at
	`

	var p model.Profile
	err := r.pool.QueryRow(ctx, query, id, delta).Scan(
		&p.ID, &p.Username, &p.Balance, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing profile from a rejected debit.
			if _, gerr := r.GetByID(ctx, id); gerr != nil {
				return nil, gerr
			}
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return &p, nil
}

// GetTopProfiles retrieves the top profiles by balance.
func (r *ProfileRepository) GetTopProfiles(ctx context.Context, limit int) ([]*model.Profile, error) {
	const query = `
		SELECT id, username, balance, created_at, updated_at
		FROM profiles
		ORDER BY balance DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Balance, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}
