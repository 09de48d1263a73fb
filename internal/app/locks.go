package app

import "sync"

// garrisonLocks serializes mutating operations per garrison id. Every
// operation on one garrison runs load, accrue, validate, mutate, save
// under that garrison's lock; operations on different garrisons never
// block each other.
type garrisonLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGarrisonLocks() *garrisonLocks {
	return &garrisonLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the garrison's mutex and returns the release function.
func (l *garrisonLocks) Acquire(garrisonID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[garrisonID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[garrisonID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
