// Package catalog holds the static item registry and the crate odds tables.
// Both are loaded once at startup and validated there; the engines treat
// them as immutable lookups and never raise configuration errors per call.
package catalog

import (
	"fmt"

	"minecrate/internal/game"
)

// Rarity is one of the five ordered drop tiers.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// RaritiesAscending lists the tiers from lowest to highest.
var RaritiesAscending = []Rarity{Common, Uncommon, Rare, Epic, Legendary}

// RaritiesDescending lists the tiers from highest to lowest, the order the
// crate draw walks its weight table in.
var RaritiesDescending = []Rarity{Legendary, Epic, Rare, Uncommon, Common}

var rarityRank = map[Rarity]int{
	Common:    0,
	Uncommon:  1,
	Rare:      2,
	Epic:      3,
	Legendary: 4,
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	_, ok := rarityRank[r]
	return ok
}

// Rank returns the tier's position in the total order, common=0 .. legendary=4.
func (r Rarity) Rank() int { return rarityRank[r] }

// Class is the item's flavor category. It has no gameplay effect.
type Class string

const (
	ClassSword      Class = "sword"
	ClassPickaxe    Class = "pickaxe"
	ClassHelmet     Class = "helmet"
	ClassChestplate Class = "chestplate"
	ClassGem        Class = "gem"
	ClassBlock      Class = "block"
	ClassTool       Class = "tool"
)

// Template is one immutable catalog entry. Inventory items copy its fields
// by value when they are materialized.
type Template struct {
	Name      string `json:"name"`
	Rarity    Rarity `json:"rarity"`
	BaseValue int64  `json:"base_value"`
	Class     Class  `json:"class"`
}

// defaultTemplates is the full lootable pool, in declaration order. The
// order is stable so seeded draws are reproducible in tests.
var defaultTemplates = []Template{
	{Name: "Wooden Sword", Rarity: Common, BaseValue: 5, Class: ClassSword},
	{Name: "Stone Pickaxe", Rarity: Common, BaseValue: 8, Class: ClassPickaxe},
	{Name: "Coal", Rarity: Common, BaseValue: 3, Class: ClassBlock},
	{Name: "Iron Ingot", Rarity: Common, BaseValue: 10, Class: ClassBlock},
	{Name: "Iron Helmet", Rarity: Common, BaseValue: 6, Class: ClassHelmet},

	{Name: "Iron Sword", Rarity: Uncommon, BaseValue: 25, Class: ClassSword},
	{Name: "Iron Pickaxe", Rarity: Uncommon, BaseValue: 30, Class: ClassPickaxe},
	{Name: "Gold Block", Rarity: Uncommon, BaseValue: 40, Class: ClassBlock},
	{Name: "Lapis Lazuli", Rarity: Uncommon, BaseValue: 20, Class: ClassGem},

	{Name: "Diamond", Rarity: Rare, BaseValue: 100, Class: ClassGem},
	{Name: "Diamond Sword", Rarity: Rare, BaseValue: 150, Class: ClassSword},
	{Name: "Diamond Pickaxe", Rarity: Rare, BaseValue: 175, Class: ClassPickaxe},
	{Name: "Emerald", Rarity: Rare, BaseValue: 120, Class: ClassGem},

	{Name: "Diamond Helmet", Rarity: Epic, BaseValue: 300, Class: ClassHelmet},
	{Name: "Diamond Chestplate", Rarity: Epic, BaseValue: 450, Class: ClassChestplate},
	{Name: "Enchanted Book", Rarity: Epic, BaseValue: 400, Class: ClassTool},
	{Name: "Emerald Block", Rarity: Epic, BaseValue: 350, Class: ClassBlock},

	{Name: "Netherite Sword", Rarity: Legendary, BaseValue: 1000, Class: ClassSword},
	{Name: "Netherite Pickaxe", Rarity: Legendary, BaseValue: 1200, Class: ClassPickaxe},
	{Name: "Dragon Egg", Rarity: Legendary, BaseValue: 2500, Class: ClassBlock},
	{Name: "Nether Star", Rarity: Legendary, BaseValue: 2000, Class: ClassGem},
}

// Catalog is the validated, read-only item registry.
type Catalog struct {
	templates []Template
	byRarity  map[Rarity][]Template
}

// New builds and validates a catalog from the given templates.
func New(templates []Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", game.ErrInvalidConfiguration)
	}

	byRarity := make(map[Rarity][]Template)
	for i, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: template %d has no name", game.ErrInvalidConfiguration, i)
		}
		if !t.Rarity.Valid() {
			return nil, fmt.Errorf("%w: template %q has unknown rarity %q", game.ErrInvalidConfiguration, t.Name, t.Rarity)
		}
		if t.BaseValue <= 0 {
			return nil, fmt.Errorf("%w: template %q has non-positive value %d", game.ErrInvalidConfiguration, t.Name, t.BaseValue)
		}
		byRarity[t.Rarity] = append(byRarity[t.Rarity], t)
	}

	for _, r := range RaritiesAscending {
		if len(byRarity[r]) == 0 {
			return nil, fmt.Errorf("%w: no templates in tier %q", game.ErrInvalidConfiguration, r)
		}
	}

	return &Catalog{
		templates: append([]Template(nil), templates...),
		byRarity:  byRarity,
	}, nil
}

// Default returns the built-in catalog. It panics on a broken table, which
// means a programming error in defaultTemplates, not a runtime condition.
func Default() *Catalog {
	c, err := New(defaultTemplates)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every template in declaration order.
func (c *Catalog) All() []Template {
	return append([]Template(nil), c.templates...)
}

// Size returns the number of templates.
func (c *Catalog) Size() int { return len(c.templates) }

// ItemsByRarity returns the templates of one tier in declaration order.
func (c *Catalog) ItemsByRarity(r Rarity) []Template {
	return append([]Template(nil), c.byRarity[r]...)
}

// ItemsInValueRange returns the templates whose base value lies in
// [min, max], in declaration order.
func (c *Catalog) ItemsInValueRange(min, max int64) []Template {
	var out []Template
	for _, t := range c.templates {
		if t.BaseValue >= min && t.BaseValue <= max {
			out = append(out, t)
		}
	}
	return out
}
