package lock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentBalanceSafetyProperty checks that concurrent balance updates
// on the same profile, run under the lock, end up consistent with sequential
// execution.
func TestConcurrentBalanceSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialBalance := rapid.Int64Range(1000, 100_000).Draw(t, "initialBalance")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")

		amounts := make([]int64, numOps)
		expected := initialBalance
		for i := range amounts {
			amounts[i] = rapid.Int64Range(-500, 500).Draw(t, "amount")
			expected += amounts[i]
		}

		pl := New()
		profileID := "profile-1"
		balance := initialBalance

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(a int64) {
				defer wg.Done()
				pl.Lock(profileID)
				defer pl.Unlock(profileID)
				balance += a
			}(amount)
		}
		wg.Wait()

		if balance != expected {
			t.Fatalf("balance mismatch: expected %d, got %d", expected, balance)
		}
	})
}

// TestIndependentProfileLocksProperty checks that locks for different
// profiles do not interfere with each other's updates.
func TestIndependentProfileLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numProfiles := rapid.IntRange(2, 10).Draw(t, "numProfiles")
		opsPerProfile := rapid.IntRange(5, 20).Draw(t, "opsPerProfile")

		pl := New()
		balances := make([]int64, numProfiles)

		var wg sync.WaitGroup
		wg.Add(numProfiles * opsPerProfile)
		for p := 0; p < numProfiles; p++ {
			id := fmt.Sprintf("profile-%d", p)
			for j := 0; j < opsPerProfile; j++ {
				go func(idx int, profileID string) {
					defer wg.Done()
					pl.Lock(profileID)
					defer pl.Unlock(profileID)
					balances[idx] += 10
				}(p, id)
			}
		}
		wg.Wait()

		for p := 0; p < numProfiles; p++ {
			if balances[p] != int64(opsPerProfile)*10 {
				t.Fatalf("profile %d balance mismatch: expected %d, got %d",
					p, int64(opsPerProfile)*10, balances[p])
			}
		}
	})
}

// TestTryLockProperty checks that TryLock never blocks and that the lock is
// released cleanly after contended acquisition rounds.
func TestTryLockProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		pl := New()
		profileID := "profile-1"

		var successCount atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)
		startCh := make(chan struct{})

		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-startCh
				if pl.TryLock(profileID) {
					successCount.Add(1)
					pl.Unlock(profileID)
				}
			}()
		}
		close(startCh)
		wg.Wait()

		if successCount.Load() < 1 {
			t.Fatalf("at least one TryLock should succeed, got %d", successCount.Load())
		}
		if !pl.TryLock(profileID) {
			t.Fatal("lock should be free after all attempts complete")
		}
		pl.Unlock(profileID)
	})
}

// TestLockUnlockSymmetryProperty checks that repeated lock/unlock cycles
// leave the lock available.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		pl := New()
		profileID := "profile-1"
		for i := 0; i < numCycles; i++ {
			pl.Lock(profileID)
			pl.Unlock(profileID)
		}

		if !pl.TryLock(profileID) {
			t.Fatal("lock should be available after symmetric cycles")
		}
		pl.Unlock(profileID)
	})
}
