// Property-based tests for the money flow of a full mines round, checked
// against a pure wallet model so no database or cache is needed.
package service

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"minecrate/internal/game/mines"
	"minecrate/internal/pkg/random"
)

// upgradeStoreModel mirrors the upgrade flow's inventory writes: the input
// is removed, the award is inserted, and a failed insert restores the input.
type upgradeStoreModel struct {
	Items map[string]int64
}

func (m *upgradeStoreModel) Attempt(inputID string, inputValue int64, won bool, wonID string, wonValue int64, addFails bool) bool {
	if _, ok := m.Items[inputID]; !ok {
		return false
	}
	delete(m.Items, inputID)
	if !won {
		return true
	}
	if addFails {
		m.Items[inputID] = inputValue
		return false
	}
	m.Items[wonID] = wonValue
	return true
}

// TestUpgradeNeverLosesInputToStorageProperty runs random upgrade attempts,
// some with a failing award insert, and checks that the input item only
// leaves the inventory when the gamble itself resolved: a storage failure
// restores it, a loss consumes it, a win replaces it.
func TestUpgradeNeverLosesInputToStorageProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inputValue := rapid.Int64Range(1, 10_000).Draw(t, "inputValue")
		won := rapid.Bool().Draw(t, "won")
		addFails := rapid.Bool().Draw(t, "addFails")

		store := &upgradeStoreModel{Items: map[string]int64{"input": inputValue}}
		ok := store.Attempt("input", inputValue, won, "won", inputValue*2, addFails)

		_, inputHeld := store.Items["input"]
		_, wonHeld := store.Items["won"]

		switch {
		case won && addFails:
			if ok || !inputHeld || wonHeld {
				t.Fatalf("storage failure must restore the input: ok=%v input=%v won=%v", ok, inputHeld, wonHeld)
			}
		case won:
			if !ok || inputHeld || !wonHeld {
				t.Fatalf("win must replace the input: ok=%v input=%v won=%v", ok, inputHeld, wonHeld)
			}
		default:
			if !ok || inputHeld || wonHeld {
				t.Fatalf("loss must consume the input only: ok=%v input=%v won=%v", ok, inputHeld, wonHeld)
			}
		}
		if len(store.Items) > 1 {
			t.Fatalf("inventory grew to %d items", len(store.Items))
		}
	})
}

// walletModel mirrors how the game service moves coins around a session: the
// stake leaves the wallet on start, the payout enters it on settlement, and
// nothing else touches it.
type walletModel struct {
	Balance int64
	Staked  int64
	Settled bool
}

func (w *walletModel) Stake(amount int64) bool {
	if amount > w.Balance {
		return false
	}
	w.Balance -= amount
	w.Staked = amount
	return true
}

func (w *walletModel) Settle(payout int64) bool {
	if w.Settled {
		return false
	}
	w.Balance += payout
	w.Settled = true
	return true
}

// TestMinesRoundMoneyFlowProperty plays random mines rounds end to end and
// checks the wallet against the model: the stake is debited exactly once, the
// payout credited at most once, and the final balance never exceeds the
// starting balance plus stake times the capped multiplier.
func TestMinesRoundMoneyFlowProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialBalance := rapid.Int64Range(100, 1_000_000).Draw(t, "initialBalance")
		stake := rapid.Int64Range(1, initialBalance).Draw(t, "stake")
		mineCount := rapid.IntRange(mines.MinMines, mines.MaxMines).Draw(t, "mineCount")
		seed := rapid.Uint64().Draw(t, "seed")

		wallet := &walletModel{Balance: initialBalance}

		engineBalance, session, err := mines.New().Start("p1", stake, mineCount, wallet.Balance, random.NewSeeded(seed))
		if err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if !wallet.Stake(stake) {
			t.Fatalf("model rejected a stake the engine accepted")
		}
		if engineBalance != wallet.Balance {
			t.Fatalf("engine balance %d, model balance %d", engineBalance, wallet.Balance)
		}

		// Play random reveals until the session ends or we give up.
		reveals := rapid.IntRange(0, 30).Draw(t, "reveals")
		for i := 0; i < reveals && session.Status == mines.StatusActive; i++ {
			row := rapid.IntRange(0, mines.GridSize-1).Draw(t, "row")
			col := rapid.IntRange(0, mines.GridSize-1).Draw(t, "col")
			session.Reveal(row, col)
		}

		switch session.Status {
		case mines.StatusBusted:
			// Stake forfeit, nothing credited.
		case mines.StatusCashedOut:
			if !wallet.Settle(session.Payout) {
				t.Fatalf("double settlement")
			}
		default:
			if payout, ok := session.CashOut(); ok {
				if !wallet.Settle(payout) {
					t.Fatalf("double settlement")
				}
			}
		}

		// A terminal session must never settle again.
		if payout, ok := session.CashOut(); ok {
			t.Fatalf("terminal session paid again: %d", payout)
		}

		maxPayout := int64(math.Floor(float64(stake) * 1000))
		if wallet.Balance > initialBalance-stake+maxPayout {
			t.Fatalf("balance %d exceeds the payout cap", wallet.Balance)
		}
		if wallet.Balance < initialBalance-stake {
			t.Fatalf("balance %d dropped below start minus stake", wallet.Balance)
		}
	})
}
