// internal/balance/store.go
package balance

import "sync"

// Store holds the latest snapshot. Replace swaps it wholesale; readers never see a
// partially updated mapping.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
	ok   bool
}

func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.ok = true
}

// Snapshot returns the latest snapshot, false before the first refresh.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.ok
}

// Clear forgets the snapshot, e.g. when the identity changes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{}
	s.ok = false
}
