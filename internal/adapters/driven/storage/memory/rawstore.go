package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure RawDecisionStore implements the interface.
var _ driven.RawDecisionStore = (*RawDecisionStore)(nil)

// RawDecisionStore is an in-memory implementation of driven.RawDecisionStore.
type RawDecisionStore struct {
	mu        sync.RWMutex
	decisions map[int64]domain.Decision
}

// NewRawDecisionStore creates a new in-memory raw mirror.
func NewRawDecisionStore() *RawDecisionStore {
	return &RawDecisionStore{
		decisions: make(map[int64]domain.Decision),
	}
}

// Get retrieves a mirrored decision.
func (s *RawDecisionStore) Get(_ context.Context, id int64) (domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decisions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d.Clone(), nil
}

// Insert stores a new decision keyed by its identifier.
func (s *RawDecisionStore) Insert(_ context.Context, d domain.Decision) error {
	id := d.ID()
	if id == 0 {
		return fmt.Errorf("%w: decision has no identifier", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decisions[id]; ok {
		return fmt.Errorf("raw decision %d: %w", id, domain.ErrAlreadyExists)
	}
	c := d.Clone()
	c[domain.FieldMirrorID] = id
	s.decisions[id] = c
	return nil
}

// Replace overwrites a mirrored decision.
func (s *RawDecisionStore) Replace(_ context.Context, d domain.Decision) error {
	id := d.ID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decisions[id]; !ok {
		return fmt.Errorf("raw decision %d: %w", id, domain.ErrNotFound)
	}
	c := d.Clone()
	c[domain.FieldMirrorID] = id
	s.decisions[id] = c
	return nil
}

// Delete removes a mirrored decision.
func (s *RawDecisionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decisions, id)
	return nil
}

// Len returns the number of mirrored decisions.
func (s *RawDecisionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}
