// Package seen tracks which postings have been observed in prior runs so
// the pipeline can flag postings as NEW. The state is an explicitly owned
// value: the caller loads it, the pipeline transforms it, the caller saves
// it. There is no hidden process-wide store.
package seen

import "time"

// State maps identity keys to the timestamp of the run that first observed
// them. First-seen timestamps are immutable: recording an already-known key
// is a no-op.
type State struct {
	firstSeen map[string]time.Time
}

// NewState returns an empty state.
func NewState() *State {
	return &State{firstSeen: make(map[string]time.Time)}
}

// Has reports whether the key has been observed in any prior run.
func (s *State) Has(key string) bool {
	_, ok := s.firstSeen[key]
	return ok
}

// FirstSeen returns when the key was first observed.
func (s *State) FirstSeen(key string) (time.Time, bool) {
	t, ok := s.firstSeen[key]
	return t, ok
}

// Record inserts the key with the given timestamp if absent. Existing
// entries are never overwritten.
func (s *State) Record(key string, at time.Time) {
	if _, ok := s.firstSeen[key]; ok {
		return
	}
	s.firstSeen[key] = at
}

// Len returns the number of tracked keys.
func (s *State) Len() int {
	return len(s.firstSeen)
}
