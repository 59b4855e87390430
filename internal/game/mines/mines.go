// Package mines implements the minefield game: stake coins, reveal cells on
// a 5x5 grid, and cash out before hitting a mine. Each safe reveal raises a
// fair multiplier derived from the shrinking pool of unrevealed cells.
package mines

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"minecrate/internal/game"
	"minecrate/internal/pkg/random"
)

const (
	// GridSize is the board edge length.
	GridSize = 5

	// TotalCells is the board size.
	TotalCells = GridSize * GridSize

	// MinMines and MaxMines bound the configurable mine count. At least one
	// safe cell must exist.
	MinMines = 1
	MaxMines = TotalCells - 1

	// houseEdge scales the fair multiplier down by 3%.
	houseEdge = 0.97

	// maxMultiplier caps degenerate configurations (24 mines, deep reveal
	// streaks) so payouts stay bounded.
	maxMultiplier = 1000.0
)

// Status is the session life-cycle state. Sessions are terminal on Busted
// and CashedOut; a new game requires a fresh Start.
type Status string

const (
	StatusActive    Status = "active"
	StatusBusted    Status = "busted"
	StatusCashedOut Status = "cashed_out"
)

// Session is one running or finished minefield game. The stake is already
// debited when the session exists; the only coins still in play are the
// potential payout.
//
// Mines and Revealed hold cell indexes (row*GridSize + col). Mines must
// never be shown to the player while the session is active.
type Session struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Stake      int64     `json:"stake"`
	MineCount  int       `json:"mine_count"`
	Mines      []int     `json:"mines"`
	Revealed   []int     `json:"revealed"`
	Status     Status    `json:"status"`
	Multiplier float64   `json:"multiplier"`
	Payout     int64     `json:"payout"`
	CreatedAt  time.Time `json:"created_at"`
}

// RevealResult describes the effect of one reveal. Ignored is set when the
// action was a redundant no-op (terminal session, out-of-range or already
// revealed cell); that is not an error condition.
type RevealResult struct {
	Ignored    bool    `json:"ignored"`
	Cell       int     `json:"cell"`
	Mine       bool    `json:"mine"`
	Status     Status  `json:"status"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
}

// Engine starts minefield sessions. Session play itself is driven through
// Session methods; the engine only holds the start contract and metadata.
type Engine struct{}

// New creates a mines engine.
func New() *Engine { return &Engine{} }

// Name implements game.Info.
func (e *Engine) Name() string { return "Mines" }

// Slug implements game.Info.
func (e *Engine) Slug() string { return "mines" }

// Description implements game.Info.
func (e *Engine) Description() string {
	return "Reveal gems and dodge the mines, cash out any time before one blows"
}

// Start validates the configuration, debits the stake and creates a session
// with the mines placed uniformly at random.
//
// The stake is rejected with game.ErrInsufficientFunds before any
// randomness is drawn; nothing is mutated on that path.
func (e *Engine) Start(profileID string, stake int64, mineCount int, balance int64, rng random.Source) (int64, *Session, error) {
	if stake <= 0 {
		return 0, nil, fmt.Errorf("%w: stake must be positive", game.ErrInvalidConfiguration)
	}
	if mineCount < MinMines || mineCount > MaxMines {
		return 0, nil, fmt.Errorf("%w: mine count must be between %d and %d", game.ErrInvalidConfiguration, MinMines, MaxMines)
	}
	if balance < stake {
		return 0, nil, game.ErrInsufficientFunds
	}

	return balance - stake, &Session{
		ID:         uuid.NewString(),
		ProfileID:  profileID,
		Stake:      stake,
		MineCount:  mineCount,
		Mines:      placeMines(mineCount, rng),
		Status:     StatusActive,
		Multiplier: 1,
		CreatedAt:  time.Now(),
	}, nil
}

// placeMines picks mineCount distinct cells by a partial Fisher-Yates
// shuffle over all cells, so every C(25, m) subset is equally likely.
func placeMines(mineCount int, rng random.Source) []int {
	cells := make([]int, TotalCells)
	for i := range cells {
		cells[i] = i
	}
	for i := 0; i < mineCount; i++ {
		j := i + rng.IntN(TotalCells-i)
		cells[i], cells[j] = cells[j], cells[i]
	}
	mines := cells[:mineCount:mineCount]
	sort.Ints(mines)
	return mines
}

// Reveal uncovers one cell. Revealing on a terminal session, out of range,
// or on an already revealed cell is silently ignored.
//
// Hitting a mine busts the session; the stake is forfeit and the result
// carries the terminal state so the full board can be shown. Revealing the
// last safe cell cashes out automatically at the current multiplier.
func (s *Session) Reveal(row, col int) RevealResult {
	cell := row*GridSize + col
	if s.Status != StatusActive || row < 0 || row >= GridSize || col < 0 || col >= GridSize || s.isRevealed(cell) {
		return s.ignored(cell)
	}

	if s.isMine(cell) {
		s.Status = StatusBusted
		s.Multiplier = 1
		return RevealResult{
			Cell:       cell,
			Mine:       true,
			Status:     s.Status,
			Multiplier: s.Multiplier,
		}
	}

	s.Revealed = append(s.Revealed, cell)
	s.Multiplier = Multiplier(s.MineCount, len(s.Revealed))

	// Clearing the whole board is an automatic cash-out.
	if len(s.Revealed) == TotalCells-s.MineCount {
		s.Status = StatusCashedOut
		s.Payout = int64(math.Floor(float64(s.Stake) * s.Multiplier))
	}

	return RevealResult{
		Cell:       cell,
		Status:     s.Status,
		Multiplier: s.Multiplier,
		Payout:     s.Payout,
	}
}

// CashOut ends an active session and returns the payout. It reports ok =
// false, without paying, when the session is terminal or nothing has been
// revealed yet: both are ignored redundant actions, and a terminal session
// is never paid twice.
func (s *Session) CashOut() (payout int64, ok bool) {
	if s.Status != StatusActive || len(s.Revealed) == 0 {
		return 0, false
	}
	s.Status = StatusCashedOut
	s.Payout = int64(math.Floor(float64(s.Stake) * s.Multiplier))
	return s.Payout, true
}

// SafeRemaining returns the number of safe cells still hidden.
func (s *Session) SafeRemaining() int {
	return TotalCells - s.MineCount - len(s.Revealed)
}

func (s *Session) ignored(cell int) RevealResult {
	return RevealResult{
		Ignored:    true,
		Cell:       cell,
		Status:     s.Status,
		Multiplier: s.Multiplier,
		Payout:     s.Payout,
	}
}

func (s *Session) isMine(cell int) bool {
	for _, m := range s.Mines {
		if m == cell {
			return true
		}
	}
	return false
}

func (s *Session) isRevealed(cell int) bool {
	for _, r := range s.Revealed {
		if r == cell {
			return true
		}
	}
	return false
}

// Multiplier computes the payout multiplier after revealed safe cells with
// mineCount mines on the board: the reciprocal of the probability of that
// reveal streak out of a shrinking pool, times the house edge, capped at
// maxMultiplier. With zero reveals the multiplier is 1.
func Multiplier(mineCount, revealed int) float64 {
	if revealed <= 0 {
		return 1
	}

	mult := 1.0
	for i := 0; i < revealed; i++ {
		mult *= float64(TotalCells-i) / float64(TotalCells-mineCount-i)
	}
	mult *= houseEdge

	return math.Min(mult, maxMultiplier)
}
