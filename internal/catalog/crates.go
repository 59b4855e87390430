package catalog

import (
	"fmt"

	"minecrate/internal/game"
)

// CrateDef is one purchasable crate with its rarity-weighted odds table.
// Weights are whole percentages and must sum to exactly 100; a tier with
// weight zero never appears in the crate's pool.
type CrateDef struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Price       int64          `json:"price"`
	Weights     map[Rarity]int `json:"weights"`
}

// AllowedRarities returns the tiers with a non-zero weight, highest first.
func (d CrateDef) AllowedRarities() []Rarity {
	var out []Rarity
	for _, r := range RaritiesDescending {
		if d.Weights[r] > 0 {
			out = append(out, r)
		}
	}
	return out
}

// defaultCrates is the shipped crate lineup. Prices follow the product's
// four crate tiers; each table is tuned so the expected drop value stays
// below the price.
var defaultCrates = []CrateDef{
	{
		ID:          "starter",
		DisplayName: "Starter Crate",
		Price:       50,
		Weights: map[Rarity]int{
			Common:   60,
			Uncommon: 30,
			Rare:     8,
			Epic:     2,
		},
	},
	{
		ID:          "warrior",
		DisplayName: "Warrior Crate",
		Price:       150,
		Weights: map[Rarity]int{
			Common:    40,
			Uncommon:  35,
			Rare:      18,
			Epic:      6,
			Legendary: 1,
		},
	},
	{
		ID:          "diamond",
		DisplayName: "Diamond Crate",
		Price:       500,
		Weights: map[Rarity]int{
			Common:    15,
			Uncommon:  30,
			Rare:      35,
			Epic:      15,
			Legendary: 5,
		},
	},
	{
		ID:          "legendary",
		DisplayName: "Legendary Crate",
		Price:       1500,
		Weights: map[Rarity]int{
			Uncommon:  20,
			Rare:      35,
			Epic:      30,
			Legendary: 15,
		},
	},
}

// DefaultCrates returns the shipped crate definitions.
func DefaultCrates() []CrateDef {
	out := make([]CrateDef, len(defaultCrates))
	copy(out, defaultCrates)
	return out
}

// ValidateCrate checks one crate definition against the catalog. It is run
// at load time so a bad table aborts startup instead of surfacing mid-game.
func ValidateCrate(def CrateDef, c *Catalog) error {
	if def.ID == "" {
		return fmt.Errorf("%w: crate has no id", game.ErrInvalidConfiguration)
	}
	if def.Price <= 0 {
		return fmt.Errorf("%w: crate %q has non-positive price %d", game.ErrInvalidConfiguration, def.ID, def.Price)
	}

	sum := 0
	for r, w := range def.Weights {
		if !r.Valid() {
			return fmt.Errorf("%w: crate %q weights unknown rarity %q", game.ErrInvalidConfiguration, def.ID, r)
		}
		if w < 0 {
			return fmt.Errorf("%w: crate %q has negative weight for %q", game.ErrInvalidConfiguration, def.ID, r)
		}
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("%w: crate %q weights sum to %d, want 100", game.ErrInvalidConfiguration, def.ID, sum)
	}

	allowed := def.AllowedRarities()
	if len(allowed) == 0 {
		return fmt.Errorf("%w: crate %q has no tier with positive weight", game.ErrInvalidConfiguration, def.ID)
	}
	for _, r := range allowed {
		if len(c.ItemsByRarity(r)) == 0 {
			return fmt.Errorf("%w: crate %q weights tier %q with no catalog items", game.ErrInvalidConfiguration, def.ID, r)
		}
	}
	return nil
}

// ValidateCrates checks a full crate lineup, including id uniqueness.
func ValidateCrates(defs []CrateDef, c *Catalog) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.ID] {
			return fmt.Errorf("%w: duplicate crate id %q", game.ErrInvalidConfiguration, def.ID)
		}
		seen[def.ID] = true
		if err := ValidateCrate(def, c); err != nil {
			return err
		}
	}
	return nil
}
