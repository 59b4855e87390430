// Package upgrader implements the item upgrade gamble: stake one inventory
// item against a target multiplier. The input item is consumed either way;
// a win awards a new item worth the input's value times the multiplier.
package upgrader

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"minecrate/internal/catalog"
	"minecrate/internal/game"
	"minecrate/internal/model"
	"minecrate/internal/pkg/random"
)

// Multipliers is the fixed set of selectable targets.
var Multipliers = []float64{1.5, 2, 3, 5, 10}

const (
	// houseEdge scales the fair win chance down by 3%.
	houseEdge = 0.97

	// maxWinChance caps the win chance so low multipliers never become a
	// near-certainty that defeats the house edge.
	maxWinChance = 95
)

// Result is a fully determined upgrade attempt. The input item is consumed
// regardless of Won; Item is set only on a win. Like a crate opening, the
// result is computed before any wheel animation and the animation must land
// on it.
type Result struct {
	Won       bool        `json:"won"`
	WinChance int         `json:"win_chance"`
	Item      *model.Item `json:"item,omitempty"`
}

// Engine resolves upgrade attempts. It is stateless and safe for concurrent
// use.
type Engine struct {
	catalog *catalog.Catalog
}

// New creates an upgrader engine over the given catalog.
func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Name implements game.Info.
func (e *Engine) Name() string { return "Upgrader" }

// Slug implements game.Info.
func (e *Engine) Slug() string { return "upgrader" }

// Description implements game.Info.
func (e *Engine) Description() string {
	return "Risk an item for a shot at one worth up to 10x more"
}

// WinChance returns the whole-percent win probability for a target
// multiplier: fair odds reduced by the house edge, capped at 95.
func WinChance(target float64) int {
	chance := int(math.Floor((1 / target) * 100 * houseEdge))
	if chance > maxWinChance {
		return maxWinChance
	}
	if chance < 0 {
		return 0
	}
	return chance
}

// ValidTarget reports whether target is one of the selectable multipliers.
func ValidTarget(target float64) bool {
	for _, m := range Multipliers {
		if m == target {
			return true
		}
	}
	return false
}

// Attempt resolves one upgrade of item at the target multiplier.
//
// A single draw in [0, 100) decides the outcome. On a win the awarded
// item's value is floor(input value x target); the template is only flavor,
// picked from the catalog near that value. The caller removes the input
// item from inventory no matter the outcome.
func (e *Engine) Attempt(item model.Item, target float64, rng random.Source) (Result, error) {
	if !ValidTarget(target) {
		return Result{}, fmt.Errorf("%w: unsupported multiplier %v", game.ErrInvalidConfiguration, target)
	}

	chance := WinChance(target)
	roll := rng.Float64() * 100
	if roll >= float64(chance) {
		return Result{WinChance: chance}, nil
	}

	value := int64(math.Floor(float64(item.CurrentValue) * target))
	tmpl := e.pickTemplate(value, rng)
	won := model.Item{
		ID:           uuid.NewString(),
		ProfileID:    item.ProfileID,
		Name:         tmpl.Name,
		Rarity:       string(tmpl.Rarity),
		Class:        string(tmpl.Class),
		BaseValue:    tmpl.BaseValue,
		CurrentValue: value,
		WonAt:        time.Now(),
	}
	return Result{Won: true, WinChance: chance, Item: &won}, nil
}

// pickTemplate finds a flavor template whose base value lies within 20% of
// the target value, falling back to the legendary tier and finally to any
// catalog entry. The fallbacks only fire when the catalog has a gap around
// the target value.
func (e *Engine) pickTemplate(value int64, rng random.Source) catalog.Template {
	lo := int64(math.Floor(float64(value) * 0.8))
	hi := int64(math.Floor(float64(value) * 1.2))

	pool := e.catalog.ItemsInValueRange(lo, hi)
	if len(pool) == 0 {
		pool = e.catalog.ItemsByRarity(catalog.Legendary)
	}
	if len(pool) == 0 {
		pool = e.catalog.All()
	}
	return pool[rng.IntN(len(pool))]
}
