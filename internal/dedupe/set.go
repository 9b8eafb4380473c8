package dedupe

import "sync"

// Set tracks member ids already accepted into the current snapshot.
// The first occurrence of an id wins; later occurrences are rejected.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSet creates an empty set sized for roughly one Congress.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{}, 600)}
}

// Add records the id and reports whether it was seen for the first time.
func (s *Set) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Len returns the number of distinct ids recorded so far.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
