// Package categories holds the process-wide category list.
//
// The list is deliberately ephemeral: it reseeds on every restart and is
// never persisted. Transactions reference categories by free-text name with
// no referential integrity, so losing additions costs nothing durable.
package categories

import (
	"strings"
	"sync"

	"fintrack/internal/core"
)

// Store is an append-only, mutex-serialized list of category names.
// Serializing Add closes the check-then-append race between concurrent
// requests.
type Store struct {
	mu    sync.Mutex
	names []string
}

// NewStore returns a store seeded with the given names, deduplicated in
// input order. A nil seed falls back to core.SeedCategories.
func NewStore(seed []string) *Store {
	if seed == nil {
		seed = core.SeedCategories
	}
	s := &Store{}
	seen := make(map[string]struct{}, len(seed))
	for _, name := range seed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		s.names = append(s.names, name)
	}
	return s
}

// List returns a copy of the current names in seed-then-append order.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Add appends a new name and returns the full updated list. Names match
// case-sensitively; an exact duplicate or blank name is rejected.
func (s *Store) Add(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateCategoryName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.names {
		if existing == name {
			return nil, core.ErrDuplicateCategory
		}
	}
	s.names = append(s.names, name)

	out := make([]string, len(s.names))
	copy(out, s.names)
	return out, nil
}
