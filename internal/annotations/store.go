// Package annotations holds the ordered in-memory annotation collection
// for the currently open book, backed by durable best-effort persistence.
package annotations

import (
	"log"
	"sort"
	"sync"

	"github.com/mrlokans/reader/internal/entities"
)

// Repository is the durable per-book storage the store persists through.
// Implemented by internal/storage.
type Repository interface {
	Load(bookID string) ([]entities.Annotation, error)
	Save(bookID string, items []entities.Annotation) error
}

// Patch carries the only fields an edit may change.
type Patch struct {
	Name      string
	Note      string
	UpdatedAt int64
}

// Store keeps the annotations of one open book, newest first. The
// in-memory collection is authoritative: persistence failures are logged
// and the session continues with unsaved changes.
type Store struct {
	repo Repository

	mu     sync.RWMutex
	bookID string
	items  []entities.Annotation
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Load replaces the collection with the stored one for the given book,
// re-sorted newest first. Malformed or unreadable stored data degrades to
// an empty collection.
func (s *Store) Load(bookID string) {
	items, err := s.repo.Load(bookID)
	if err != nil {
		log.Printf("Error loading annotations for book %s: %v", bookID, err)
		items = nil
	}
	sortNewestFirst(items)

	s.mu.Lock()
	s.bookID = bookID
	s.items = items
	s.mu.Unlock()
}

// Persist writes the full current collection for the open book. Failures
// are logged, not returned; durability is best-effort.
func (s *Store) Persist() {
	s.mu.RLock()
	bookID := s.bookID
	items := append([]entities.Annotation(nil), s.items...)
	s.mu.RUnlock()

	if bookID == "" {
		return
	}
	if err := s.repo.Save(bookID, items); err != nil {
		log.Printf("Error saving annotations for book %s: %v", bookID, err)
	}
}

// InsertFront prepends a freshly committed annotation. Commit order
// matches insert order, so the newest-first invariant holds without a
// re-sort.
func (s *Store) InsertFront(a entities.Annotation) {
	s.mu.Lock()
	s.items = append([]entities.Annotation{a}, s.items...)
	s.mu.Unlock()
}

// Update applies an edit patch in place. Anchor, text, creation time and
// chapter are immutable once created. Reports whether the id was found.
func (s *Store) Update(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name = patch.Name
			s.items[i].Note = patch.Note
			s.items[i].UpdatedAt = patch.UpdatedAt
			return true
		}
	}
	return false
}

// RemoveByID removes exactly one entry and returns it.
func (s *Store) RemoveByID(id string) (entities.Annotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			removed := s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			return removed, true
		}
	}
	return entities.Annotation{}, false
}

// Get returns a copy of the annotation with the given id.
func (s *Store) Get(id string) (entities.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return entities.Annotation{}, false
}

// All returns a copy of the ordered collection, newest first.
func (s *Store) All() []entities.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Annotation(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// BookID returns the currently open book, empty before the first Load.
func (s *Store) BookID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookID
}

func sortNewestFirst(items []entities.Annotation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
}
