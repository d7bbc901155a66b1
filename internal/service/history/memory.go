package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parkerwhite/eqchat/internal/model/chat"
)

// MemoryStore implements Store with an in-memory map, suitable for local
// runs without a database and for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][]chat.HistoryRow
}

// NewMemoryStore bootstraps an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]chat.HistoryRow)}
}

// Save appends a row under its user id.
func (s *MemoryStore) Save(_ context.Context, row chat.HistoryRow) error {
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.rows[row.UserID] = append(s.rows[row.UserID], row)
	s.mu.Unlock()
	return nil
}

// ListByUser returns the user's rows ordered by creation time ascending.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]chat.HistoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[userID]
	copied := make([]chat.HistoryRow, len(rows))
	copy(copied, rows)

	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].CreatedAt.Before(copied[j].CreatedAt)
	})
	return copied, nil
}
