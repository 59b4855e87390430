package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minecrate/internal/game"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()

	assert.Equal(t, 21, c.Size())
	for _, r := range RaritiesAscending {
		assert.NotEmpty(t, c.ItemsByRarity(r), "tier %s should have items", r)
	}
}

func TestItemsByRarityKeepsDeclarationOrder(t *testing.T) {
	c := Default()

	commons := c.ItemsByRarity(Common)
	require.Len(t, commons, 5)
	assert.Equal(t, "Wooden Sword", commons[0].Name)
	assert.Equal(t, "Iron Helmet", commons[4].Name)

	legendaries := c.ItemsByRarity(Legendary)
	require.Len(t, legendaries, 4)
	assert.Equal(t, "Netherite Sword", legendaries[0].Name)
	assert.Equal(t, "Nether Star", legendaries[3].Name)
}

func TestItemsInValueRange(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		min  int64
		max  int64
		want []string
	}{
		{"narrow band", 100, 150, []string{"Diamond", "Diamond Sword", "Emerald"}},
		{"bounds are inclusive", 5, 5, []string{"Wooden Sword"}},
		{"upgrade band around 500", 400, 600, []string{"Diamond Chestplate", "Enchanted Book"}},
		{"empty band", 2600, 5000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, tmpl := range c.ItemsInValueRange(tt.min, tt.max) {
				names = append(names, tmpl.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestRarityOrder(t *testing.T) {
	assert.True(t, Common.Rank() < Uncommon.Rank())
	assert.True(t, Uncommon.Rank() < Rare.Rank())
	assert.True(t, Rare.Rank() < Epic.Rank())
	assert.True(t, Epic.Rank() < Legendary.Rank())
	assert.False(t, Rarity("mythic").Valid())
}

func TestNewRejectsBrokenCatalogs(t *testing.T) {
	tests := []struct {
		name      string
		templates []Template
	}{
		{"empty catalog", nil},
		{"missing name", []Template{{Rarity: Common, BaseValue: 5, Class: ClassGem}}},
		{"unknown rarity", []Template{{Name: "X", Rarity: "mythic", BaseValue: 5, Class: ClassGem}}},
		{"non-positive value", []Template{{Name: "X", Rarity: Common, BaseValue: 0, Class: ClassGem}}},
		{"tier with no items", []Template{{Name: "X", Rarity: Common, BaseValue: 5, Class: ClassGem}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.templates)
			require.Error(t, err)
			assert.True(t, errors.Is(err, game.ErrInvalidConfiguration))
		})
	}
}

func TestDefaultCratesAreValid(t *testing.T) {
	c := Default()
	require.NoError(t, ValidateCrates(DefaultCrates(), c))
}

func TestValidateCrateRejections(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		def  CrateDef
	}{
		{"no id", CrateDef{Price: 50, Weights: map[Rarity]int{Common: 100}}},
		{"zero price", CrateDef{ID: "x", Weights: map[Rarity]int{Common: 100}}},
		{"weights under 100", CrateDef{ID: "x", Price: 50, Weights: map[Rarity]int{Common: 60}}},
		{"weights over 100", CrateDef{ID: "x", Price: 50, Weights: map[Rarity]int{Common: 60, Rare: 50}}},
		{"negative weight", CrateDef{ID: "x", Price: 50, Weights: map[Rarity]int{Common: 110, Rare: -10}}},
		{"unknown rarity", CrateDef{ID: "x", Price: 50, Weights: map[Rarity]int{"mythic": 100}}},
		{"no positive weight", CrateDef{ID: "x", Price: 50, Weights: map[Rarity]int{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCrate(tt.def, c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, game.ErrInvalidConfiguration))
		})
	}
}

func TestValidateCratesRejectsDuplicateIDs(t *testing.T) {
	c := Default()
	defs := []CrateDef{
		{ID: "dup", Price: 50, Weights: map[Rarity]int{Common: 100}},
		{ID: "dup", Price: 60, Weights: map[Rarity]int{Common: 100}},
	}
	err := ValidateCrates(defs, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestAllowedRaritiesHighestFirst(t *testing.T) {
	def := CrateDef{
		ID:    "x",
		Price: 50,
		Weights: map[Rarity]int{
			Common:    70,
			Uncommon:  0,
			Legendary: 30,
		},
	}
	assert.Equal(t, []Rarity{Legendary, Common}, def.AllowedRarities())
}
