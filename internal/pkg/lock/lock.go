// Package lock provides per-profile locking so a stake debit and its
// outcome resolution run as one unit, with no other operation interleaving
// for the same profile.
package lock

import (
	"sync"
)

// profileMutex wraps a mutex with reference counting for cleanup.
type profileMutex struct {
	mu       sync.Mutex
	refCount int
}

// ProfileLock provides per-profile locking to prevent races during balance
// and inventory mutations.
type ProfileLock struct {
	locks sync.Map // map[string]*profileMutex
	pool  sync.Pool
}

// New creates a ProfileLock.
func New() *ProfileLock {
	return &ProfileLock{
		pool: sync.Pool{
			New: func() any {
				return &profileMutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for a profile.
func (pl *ProfileLock) getLock(profileID string) *profileMutex {
	if v, ok := pl.locks.Load(profileID); ok {
		return v.(*profileMutex)
	}

	newLock := pl.pool.Get().(*profileMutex)
	newLock.refCount = 0

	actual, loaded := pl.locks.LoadOrStore(profileID, newLock)
	if loaded {
		// Another goroutine stored a lock first, return ours to the pool.
		pl.pool.Put(newLock)
	}
	return actual.(*profileMutex)
}

// Lock acquires the lock for a profile. Call it before any operation that
// debits a stake or mutates inventory.
func (pl *ProfileLock) Lock(profileID string) {
	l := pl.getLock(profileID)
	l.mu.Lock()
	l.refCount++
}

// Unlock releases the lock for a profile.
func (pl *ProfileLock) Unlock(profileID string) {
	if v, ok := pl.locks.Load(profileID); ok {
		l := v.(*profileMutex)
		l.refCount--
		l.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking. It returns true if
// the lock was acquired.
func (pl *ProfileLock) TryLock(profileID string) bool {
	l := pl.getLock(profileID)
	if l.mu.TryLock() {
		l.refCount++
		return true
	}
	return false
}
