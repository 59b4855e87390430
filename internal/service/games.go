package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"minecrate/internal/cache"
	"minecrate/internal/catalog"
	"minecrate/internal/game/crate"
	"minecrate/internal/game/mines"
	"minecrate/internal/game/upgrader"
	"minecrate/internal/model"
	"minecrate/internal/pkg/lock"
	"minecrate/internal/pkg/random"
	"minecrate/internal/repository"
)

// Common errors for game operations.
var (
	ErrUnknownCrate    = errors.New("unknown crate")
	ErrSessionActive   = errors.New("a mines session is already active")
	ErrNoActiveSession = cache.ErrNoSession
	ErrStakeTooHigh    = errors.New("stake exceeds maximum allowed")
)

// CrateOpenResult is the outcome of a crate purchase plus the persisted
// balance.
type CrateOpenResult struct {
	Crate   catalog.CrateDef `json:"crate"`
	Item    model.Item       `json:"item"`
	Balance int64            `json:"balance"`
}

// MinesActionResult carries the session state after a mines operation. The
// reveal field is set for Reveal calls; Balance is the post-operation
// balance when coins moved, otherwise -1.
type MinesActionResult struct {
	Session *mines.Session      `json:"session"`
	Reveal  *mines.RevealResult `json:"reveal,omitempty"`
	Balance int64               `json:"balance"`
}

// UpgradeResult is the outcome of an upgrade attempt. Consumed is the input
// item, which is gone regardless of Won.
type UpgradeResult struct {
	Won       bool        `json:"won"`
	WinChance int         `json:"win_chance"`
	Consumed  model.Item  `json:"consumed"`
	Item      *model.Item `json:"item,omitempty"`
}

// GameService orchestrates the three engines: it serializes each profile's
// stake debit and outcome resolution under the profile lock, runs the pure
// engine, and applies the returned deltas to the store. Engines never touch
// persistence.
type GameService struct {
	profileRepo   *repository.ProfileRepository
	inventoryRepo *repository.InventoryRepository
	txRepo        *repository.TransactionRepository
	sessions      *cache.SessionStore
	locks         *lock.ProfileLock

	crateEngine   *crate.Engine
	minesEngine   *mines.Engine
	upgradeEngine *upgrader.Engine

	crates     []catalog.CrateDef
	cratesByID map[string]catalog.CrateDef
	rng        random.Source
	maxStake   int64
}

// NewGameService creates a GameService. The crate lineup must already be
// validated against the catalog.
func NewGameService(
	profileRepo *repository.ProfileRepository,
	inventoryRepo *repository.InventoryRepository,
	txRepo *repository.TransactionRepository,
	sessions *cache.SessionStore,
	locks *lock.ProfileLock,
	crateEngine *crate.Engine,
	minesEngine *mines.Engine,
	upgradeEngine *upgrader.Engine,
	crates []catalog.CrateDef,
	rng random.Source,
	maxStake int64,
) *GameService {
	byID := make(map[string]catalog.CrateDef, len(crates))
	for _, def := range crates {
		byID[def.ID] = def
	}
	return &GameService{
		profileRepo:   profileRepo,
		inventoryRepo: inventoryRepo,
		txRepo:        txRepo,
		sessions:      sessions,
		locks:         locks,
		crateEngine:   crateEngine,
		minesEngine:   minesEngine,
		upgradeEngine: upgradeEngine,
		crates:        crates,
		cratesByID:    byID,
		rng:           rng,
		maxStake:      maxStake,
	}
}

// Crates returns the crate lineup.
func (s *GameService) Crates() []catalog.CrateDef {
	out := make([]catalog.CrateDef, len(s.crates))
	copy(out, s.crates)
	return out
}

// OpenCrate buys and opens one crate for the profile.
func (s *GameService) OpenCrate(ctx context.Context, profileID, crateID string) (*CrateOpenResult, error) {
	def, ok := s.cratesByID[crateID]
	if !ok {
		return nil, ErrUnknownCrate
	}

	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	res, err := s.crateEngine.Open(def, profile.Balance, s.rng)
	if err != nil {
		return nil, err
	}

	updated, err := s.profileRepo.UpdateBalance(ctx, profileID, -def.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to debit crate price: %w", err)
	}

	item := res.Item
	item.ProfileID = profileID
	if err := s.inventoryRepo.Add(ctx, &item); err != nil {
		// The draw is already paid for; a failed insert must not eat the win.
		if _, rerr := s.profileRepo.UpdateBalance(ctx, profileID, def.Price); rerr != nil {
			log.Error().Err(rerr).Str("profile_id", profileID).Msg("Failed to refund crate price")
		}
		return nil, fmt.Errorf("failed to store won item: %w", err)
	}

	desc := fmt.Sprintf("opened %s, won %s", def.DisplayName, item.Name)
	if _, err := s.txRepo.Create(ctx, profileID, -def.Price, model.TxTypeCrateOpen, &desc); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to record crate ledger entry")
	}

	log.Info().
		Str("profile_id", profileID).
		Str("crate", def.ID).
		Str("item", item.Name).
		Str("rarity", item.Rarity).
		Msg("Crate opened")

	return &CrateOpenResult{Crate: def, Item: item, Balance: updated.Balance}, nil
}

// StartMines debits the stake and creates a mines session. A profile can
// have at most one active session.
func (s *GameService) StartMines(ctx context.Context, profileID string, stake int64, mineCount int) (*MinesActionResult, error) {
	if s.maxStake > 0 && stake > s.maxStake {
		return nil, ErrStakeTooHigh
	}

	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	if _, err := s.sessions.Get(ctx, profileID); err == nil {
		return nil, ErrSessionActive
	} else if !errors.Is(err, cache.ErrNoSession) {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	_, session, err := s.minesEngine.Start(profileID, stake, mineCount, profile.Balance, s.rng)
	if err != nil {
		return nil, err
	}

	updated, err := s.profileRepo.UpdateBalance(ctx, profileID, -stake)
	if err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		// Refund: the session never became playable.
		if _, rerr := s.profileRepo.UpdateBalance(ctx, profileID, stake); rerr != nil {
			log.Error().Err(rerr).Str("profile_id", profileID).Msg("Failed to refund mines stake")
		}
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	desc := fmt.Sprintf("mines bet, %d mines", mineCount)
	if _, err := s.txRepo.Create(ctx, profileID, -stake, model.TxTypeMinesBet, &desc); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to record bet ledger entry")
	}

	log.Info().
		Str("profile_id", profileID).
		Int64("stake", stake).
		Int("mine_count", mineCount).
		Msg("Mines session started")

	return &MinesActionResult{Session: session, Balance: updated.Balance}, nil
}

// RevealMines reveals one cell of the profile's active session. Redundant
// reveals are no-ops. A bust ends the session with the stake forfeited; a
// reveal that clears the board cashes out automatically.
func (s *GameService) RevealMines(ctx context.Context, profileID string, row, col int) (*MinesActionResult, error) {
	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	session, err := s.sessions.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	reveal := session.Reveal(row, col)
	result := &MinesActionResult{Session: session, Reveal: &reveal, Balance: -1}
	if reveal.Ignored {
		return result, nil
	}

	switch session.Status {
	case mines.StatusBusted:
		if err := s.sessions.Delete(ctx, profileID); err != nil {
			return nil, fmt.Errorf("failed to clear session: %w", err)
		}
		log.Info().
			Str("profile_id", profileID).
			Int("cell", reveal.Cell).
			Msg("Mines session busted")

	case mines.StatusCashedOut:
		balance, err := s.settleMines(ctx, session)
		if err != nil {
			return nil, err
		}
		result.Balance = balance

	default:
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}
	return result, nil
}

// CashOutMines ends the profile's active session at the current multiplier.
// Cashing out with zero reveals is a no-op and pays nothing.
func (s *GameService) CashOutMines(ctx context.Context, profileID string) (*MinesActionResult, error) {
	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	session, err := s.sessions.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	result := &MinesActionResult{Session: session, Balance: -1}
	if _, ok := session.CashOut(); !ok {
		return result, nil
	}

	balance, err := s.settleMines(ctx, session)
	if err != nil {
		return nil, err
	}
	result.Balance = balance
	return result, nil
}

// settleMines credits a cashed-out session's payout and removes it from the
// store.
func (s *GameService) settleMines(ctx context.Context, session *mines.Session) (int64, error) {
	updated, err := s.profileRepo.UpdateBalance(ctx, session.ProfileID, session.Payout)
	if err != nil {
		return 0, fmt.Errorf("failed to credit payout: %w", err)
	}
	if err := s.sessions.Delete(ctx, session.ProfileID); err != nil {
		return 0, fmt.Errorf("failed to clear session: %w", err)
	}

	desc := fmt.Sprintf("mines cash-out at %.4fx", session.Multiplier)
	if _, err := s.txRepo.Create(ctx, session.ProfileID, session.Payout, model.TxTypeMinesCashout, &desc); err != nil {
		log.Warn().Err(err).Str("profile_id", session.ProfileID).Msg("Failed to record cash-out ledger entry")
	}

	log.Info().
		Str("profile_id", session.ProfileID).
		Int64("payout", session.Payout).
		Float64("multiplier", session.Multiplier).
		Msg("Mines session cashed out")

	return updated.Balance, nil
}

// AttemptUpgrade gambles an owned item against a target multiplier. The
// input item is consumed whether or not the upgrade hits.
func (s *GameService) AttemptUpgrade(ctx context.Context, profileID, itemID string, target float64) (*UpgradeResult, error) {
	s.locks.Lock(profileID)
	defer s.locks.Unlock(profileID)

	item, err := s.inventoryRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ProfileID != profileID {
		return nil, ErrItemNotOwned
	}

	res, err := s.upgradeEngine.Attempt(*item, target, s.rng)
	if err != nil {
		return nil, err
	}

	removed, err := s.inventoryRepo.Remove(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume item: %w", err)
	}
	if !removed {
		return nil, repository.ErrItemNotFound
	}

	if res.Won {
		if err := s.inventoryRepo.Add(ctx, res.Item); err != nil {
			// The input is already consumed; restore it so a storage failure
			// does not cost the player their item.
			if rerr := s.inventoryRepo.Add(ctx, item); rerr != nil {
				log.Error().Err(rerr).Str("profile_id", profileID).Str("item_id", itemID).Msg("Failed to restore consumed item")
			}
			return nil, fmt.Errorf("failed to store upgraded item: %w", err)
		}
	}

	log.Info().
		Str("profile_id", profileID).
		Str("item", item.Name).
		Float64("target", target).
		Bool("won", res.Won).
		Msg("Upgrade attempted")

	return &UpgradeResult{
		Won:       res.Won,
		WinChance: res.WinChance,
		Consumed:  *item,
		Item:      res.Item,
	}, nil
}
