// Package service provides business logic implementations: it owns the
// player-facing operations, calls the pure game engines, and applies their
// results to the account store.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"minecrate/internal/model"
	"minecrate/internal/pkg/lock"
	"minecrate/internal/repository"
)

// Common errors for account operations.
var (
	ErrItemNotOwned = errors.New("item not owned by profile")
)

// AccountService handles profile and inventory management.
type AccountService struct {
	profileRepo   *repository.ProfileRepository
	inventoryRepo *repository.InventoryRepository
	txRepo        *repository.TransactionRepository
	locks         *lock.ProfileLock

	startingBalance int64
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	profileRepo *repository.ProfileRepository,
	inventoryRepo *repository.InventoryRepository,
	txRepo *repository.TransactionRepository,
	locks *lock.ProfileLock,
	startingBalance int64,
) *AccountService {
	return &AccountService{
		profileRepo:     profileRepo,
		inventoryRepo:   inventoryRepo,
		txRepo:          txRepo,
		locks:           locks,
		startingBalance: startingBalance,
	}
}

// CreateProfile creates a profile with the starting balance and records the
// initial transaction.
func (s *AccountService) CreateProfile(ctx context.Context, username string) (*model.Profile, error) {
	profile, err := s.profileRepo.Create(ctx, username, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	desc := "starting balance"
	if _, err := s.txRepo.Create(ctx, profile.ID, s.startingBalance, model.TxTypeInitial, &desc); err != nil {
		log.Warn().Err(err).Str("profile_id", profile.ID).Msg("Failed to record initial ledger entry")
	}
	return profile, nil
}

// GetProfile retrieves a profile by id.
func (s *AccountService) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	return s.profileRepo.GetByID(ctx, profileID)
}

// GetInventory returns a profile's items, newest first.
func (s *AccountService) GetInventory(ctx context.Context, profileID string) ([]model.Item, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.inventoryRepo.ListByProfile(ctx, profileID)
}

// SellItem removes an item from the inventory and credits its current
// value. It returns the updated profile.
func (s *AccountService) SellItem(ctx context.Context, profileID, itemID string) (*model.Profile, error) {
	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	item, err := s.inventoryRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ProfileID != profileID {
		return nil, ErrItemNotOwned
	}

	// Remove first so the item can never be paid out twice.
	removed, err := s.inventoryRepo.Remove(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	if !removed {
		return nil, repository.ErrItemNotFound
	}

	profile, err := s.profileRepo.UpdateBalance(ctx, profileID, item.CurrentValue)
	if err != nil {
		return nil, fmt.Errorf("failed to credit sale: %w", err)
	}

	desc := fmt.Sprintf("sold %s for %d coins", item.Name, item.CurrentValue)
	if _, err := s.txRepo.Create(ctx, profileID, item.CurrentValue, model.TxTypeItemSale, &desc); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to record sale ledger entry")
	}
	return profile, nil
}

// GetTransactions returns a profile's recent ledger entries.
func (s *AccountService) GetTransactions(ctx context.Context, profileID string, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.txRepo.ListByProfile(ctx, profileID, limit)
}

// GetLeaderboard returns the richest profiles, highest balance first.
func (s *AccountService) GetLeaderboard(ctx context.Context, limit int) ([]*model.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.profileRepo.GetTopProfiles(ctx, limit)
}

// ProfileStats aggregates a profile's standing: how many items it holds and
// how far ahead of (or behind) the house its game play is.
type ProfileStats struct {
	Profile       *model.Profile `json:"profile"`
	ItemCount     int            `json:"item_count"`
	NetGameProfit int64          `json:"net_game_profit"`
}

// GetStats returns a profile's aggregate statistics.
func (s *AccountService) GetStats(ctx context.Context, profileID string) (*ProfileStats, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	count, err := s.inventoryRepo.CountByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	net, err := s.txRepo.NetGameProfit(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &ProfileStats{Profile: profile, ItemCount: count, NetGameProfit: net}, nil
}

// AdjustBalance applies a manual balance correction and records it in the
// ledger. Debits that would drive the balance negative are rejected by the
// store.
func (s *AccountService) AdjustBalance(ctx context.Context, profileID string, delta int64, reason string) (*model.Profile, error) {
	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	profile, err := s.profileRepo.UpdateBalance(ctx, profileID, delta)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = "manual adjustment"
	}
	if _, err := s.txRepo.Create(ctx, profileID, delta, model.TxTypeAdminAdjust, &reason); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to record adjustment ledger entry")
	}

	log.Info().
		Str("profile_id", profileID).
		Int64("delta", delta).
		Str("reason", reason).
		Msg("Balance adjusted")

	return profile, nil
}
