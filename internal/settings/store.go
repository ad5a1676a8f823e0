package settings

import "sync"

// Store is the runtime configuration store. The host fills it once through
// OnConfigLoaded and the command builders read it afterwards.
type Store struct {
	mu     sync.RWMutex
	values Values
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(Values)}
}

// OnConfigLoaded merges the fully-loaded host configuration into the store.
// Merging the same mapping twice leaves the store unchanged.
func (s *Store) OnConfigLoaded(config map[string]any) {
	s.Merge(config)
}

// Merge copies every entry of values into the store.
func (s *Store) Merge(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Merge(values)
}

// Lookup returns the stored value for key, or fallback.
func (s *Store) Lookup(key string, fallback any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Lookup(key, fallback)
}

// Snapshot returns a copy of the stored values.
func (s *Store) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
