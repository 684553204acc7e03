package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.ImportHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.ImportHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.ImportRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]domain.ImportRecord),
	}
}

// Save stores or updates a record.
func (s *HistoryStore) Save(_ context.Context, record domain.ImportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

// Get retrieves a record by ID.
func (s *HistoryStore) Get(_ context.Context, id string) (*domain.ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns records newest first. A limit of zero means all.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ImportRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
