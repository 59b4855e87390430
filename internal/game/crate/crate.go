// Package crate implements the crate-opening game: pay a fixed price, draw
// a rarity tier from the crate's weight table, then draw one item of that
// tier uniformly from the catalog.
package crate

import (
	"time"

	"github.com/google/uuid"

	"minecrate/internal/catalog"
	"minecrate/internal/game"
	"minecrate/internal/model"
	"minecrate/internal/pkg/random"
)

// Result is a fully determined crate opening. The caller applies it to the
// account store; any reveal animation is playback of this record and must
// not re-roll it.
type Result struct {
	NewBalance int64      `json:"new_balance"`
	Item       model.Item `json:"item"`
}

// Engine draws crate rewards. It is stateless and safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// New creates a crate engine over the given catalog.
func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Name implements game.Info.
func (e *Engine) Name() string { return "Crate Opening" }

// Slug implements game.Info.
func (e *Engine) Slug() string { return "crates" }

// Description implements game.Info.
func (e *Engine) Description() string {
	return "Buy a crate and win a random item, from common scrap to legendary loot"
}

// Open debits the crate price and draws one item.
//
// If balance < price it returns game.ErrInsufficientFunds before any
// randomness is drawn. Once the price is taken an item is always produced;
// there is no partial-failure path.
func (e *Engine) Open(def catalog.CrateDef, balance int64, rng random.Source) (Result, error) {
	if balance < def.Price {
		return Result{}, game.ErrInsufficientFunds
	}

	tmpl := e.draw(def, rng)
	now := time.Now()
	return Result{
		NewBalance: balance - def.Price,
		Item: model.Item{
			ID:           uuid.NewString(),
			Name:         tmpl.Name,
			Rarity:       string(tmpl.Rarity),
			Class:        string(tmpl.Class),
			BaseValue:    tmpl.BaseValue,
			CurrentValue: tmpl.BaseValue,
			WonAt:        now,
		},
	}, nil
}

// draw picks the winning template: a weighted tier draw followed by a
// uniform pick within the tier.
func (e *Engine) draw(def catalog.CrateDef, rng random.Source) catalog.Template {
	tier := e.drawTier(def, rng)

	pool := e.catalog.ItemsByRarity(tier)
	if len(pool) == 0 {
		// The selected tier has no catalog items. Load-time validation makes
		// this unreachable for shipped crates; fall back to the crate's full
		// allowed pool rather than failing a paid open.
		pool = e.allowedPool(def)
	}
	return pool[rng.IntN(len(pool))]
}

// drawTier walks the weight table from highest to lowest rarity,
// accumulating weights until the cumulative bound exceeds a uniform draw in
// [0, 100).
func (e *Engine) drawTier(def catalog.CrateDef, rng random.Source) catalog.Rarity {
	roll := rng.Float64() * 100

	cum := 0
	allowed := def.AllowedRarities()
	for _, r := range allowed {
		cum += def.Weights[r]
		if roll < float64(cum) {
			return r
		}
	}
	// Weights sum to 100 so the walk always terminates; the last (lowest)
	// tier absorbs any float rounding at the boundary.
	return allowed[len(allowed)-1]
}

func (e *Engine) allowedPool(def catalog.CrateDef) []catalog.Template {
	var pool []catalog.Template
	for _, r := range def.AllowedRarities() {
		pool = append(pool, e.catalog.ItemsByRarity(r)...)
	}
	if len(pool) == 0 {
		// Final defensive fallback: the whole catalog.
		pool = e.catalog.All()
	}
	return pool
}
