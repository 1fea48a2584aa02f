// Package keyed provides mutexes addressed by string key.
//
// The engine serializes check-then-act sequences per entity: leave approval
// per request id, shift assignment per employee id. A keyed mutex gives each
// key its own lock without a global bottleneck.
package keyed

import "sync"

// Mutex hands out one lock per key. Locks are never evicted; the key space
// is bounded by the number of employees and requests.
type Mutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMutex() *Mutex {
	return &Mutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key and returns the matching unlock function.
func (m *Mutex) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
