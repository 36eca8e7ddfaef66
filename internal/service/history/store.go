package history

import (
	"context"
	"sync"

	"github.com/hiwalabs/hiwa/backend/internal/model/history"
)

// Store persists completed-session emotion records. Entries are kept
// newest-first and capped: Append must trim atomically so a reader
// never observes more than the cap. Deletion is full-clear only.
type Store interface {
	List(ctx context.Context) ([]history.Entry, error)
	Append(ctx context.Context, entry history.Entry) error
	Clear(ctx context.Context) error
}

// MemoryStore is the in-process Store used when no database is
// configured. All operations are serialized by a single mutex, so
// append-and-trim is atomic by construction.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    []history.Entry
	maxEntries int
}

// NewMemoryStore creates an empty store holding at most maxEntries
// records.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryStore{maxEntries: maxEntries}
}

// List returns all entries, newest first.
func (s *MemoryStore) List(_ context.Context) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]history.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Append prepends the entry and drops the oldest records past the cap.
func (s *MemoryStore) Append(_ context.Context, entry history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]history.Entry{entry}, s.entries...)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return nil
}

// Clear removes every entry.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return nil
}
