// Property-based tests for the inventory sale flow, checked against a pure
// model of the remove-then-credit ordering.
package service

import (
	"testing"

	"pgregory.net/rapid"
)

// inventoryModel mirrors the sale flow: each item can be removed exactly
// once, and a coin credit only happens for a successful removal.
type inventoryModel struct {
	Balance int64
	Items   map[string]int64
}

func (m *inventoryModel) Sell(itemID string) (int64, bool) {
	value, ok := m.Items[itemID]
	if !ok {
		return 0, false
	}
	delete(m.Items, itemID)
	m.Balance += value
	return value, true
}

// TestSellItemNeverPaysTwiceProperty sells random items, including repeats,
// and checks that every item's value is credited at most once and that the
// final balance equals the starting balance plus the values of the items
// actually sold.
func TestSellItemNeverPaysTwiceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialBalance := rapid.Int64Range(0, 100_000).Draw(t, "initialBalance")
		numItems := rapid.IntRange(1, 20).Draw(t, "numItems")

		model := &inventoryModel{
			Balance: initialBalance,
			Items:   make(map[string]int64, numItems),
		}
		ids := make([]string, numItems)
		totalValue := int64(0)
		for i := 0; i < numItems; i++ {
			id := rapid.StringMatching(`item-[0-9]{4}`).Draw(t, "itemID")
			if _, exists := model.Items[id]; exists {
				continue
			}
			value := rapid.Int64Range(1, 5000).Draw(t, "value")
			model.Items[id] = value
			ids[i] = id
			totalValue += value
		}

		soldValue := int64(0)
		numSells := rapid.IntRange(1, 40).Draw(t, "numSells")
		for i := 0; i < numSells; i++ {
			id := ids[rapid.IntRange(0, numItems-1).Draw(t, "pick")]
			if value, ok := model.Sell(id); ok {
				soldValue += value
			}
		}

		if model.Balance != initialBalance+soldValue {
			t.Fatalf("balance %d, want %d", model.Balance, initialBalance+soldValue)
		}
		if soldValue > totalValue {
			t.Fatalf("sold value %d exceeds total inventory value %d", soldValue, totalValue)
		}

		// A second pass over every id credits nothing new.
		before := model.Balance
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := model.Items[id]; !ok {
				if _, sold := model.Sell(id); sold {
					t.Fatalf("removed item %s sold again", id)
				}
			}
		}
		if model.Balance < before {
			t.Fatalf("balance decreased from %d to %d", before, model.Balance)
		}
	})
}
