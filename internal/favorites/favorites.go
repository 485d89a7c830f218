// Package favorites tracks which documents the user starred. The set is
// purely local to this machine: it is never synchronized to the backend, so
// a different machine or account sees its own independent set. That mirrors
// the product's behavior and is deliberate, not an oversight.
package favorites

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/amezcua/folio/internal/storage"
)

// Store holds the favorite document IDs, persisted as a JSON array.
type Store struct {
	mu      sync.Mutex
	storage *storage.Store
	logger  *zap.Logger
	ids     map[int64]struct{}
}

// New loads the persisted set synchronously; a missing or unreadable file
// starts empty.
func New(store *storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: store, logger: logger, ids: map[int64]struct{}{}}

	var saved []int64
	if err := store.Read(storage.FavoritesKey, &saved); err == nil {
		for _, id := range saved {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Add marks id as favorite. Adding an already-present id is a no-op: no
// duplicate entry and no persist.
func (s *Store) Add(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.persist()
}

// Remove unmarks id. Removing an absent id is a no-op.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return
	}
	delete(s.ids, id)
	s.persist()
}

// Toggle flips the favorite state of id.
func (s *Store) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.persist()
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// All returns the favorite IDs in ascending order.
func (s *Store) All() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Count reports the set size.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// persist writes the full set; callers hold the lock.
func (s *Store) persist() {
	if err := s.storage.Write(storage.FavoritesKey, s.sortedLocked()); err != nil {
		s.logger.Warn("favorites persist failed", zap.Error(err))
	}
}

func (s *Store) sortedLocked() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
