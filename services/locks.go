// services/locks.go - Per-challenge serialization
package services

import "sync"

// ChallengeLocker hands out one mutex per challenge id. Lifecycle transitions
// and lockout decisions for the same challenge are linearized through it;
// different challenges never contend.
type ChallengeLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewChallengeLocker() *ChallengeLocker {
	return &ChallengeLocker{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for the given challenge and returns its unlock func.
// Mutexes are kept for the process lifetime; the per-challenge footprint is a
// single mutex, so no eviction is needed.
func (l *ChallengeLocker) Lock(challengeID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[challengeID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[challengeID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
