package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure DecisionStore implements the interface.
var _ driven.DecisionStore = (*DecisionStore)(nil)

// DecisionStore is an in-memory implementation of driven.DecisionStore.
type DecisionStore struct {
	mu        sync.RWMutex
	decisions map[string]domain.NormalizedDecision
}

// NewDecisionStore creates a new in-memory normalized store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		decisions: make(map[string]domain.NormalizedDecision),
	}
}

// FindBySource retrieves the normalized decision of a source decision.
func (s *DecisionStore) FindBySource(_ context.Context, sourceID int64, sourceName string) (*domain.NormalizedDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.decisions {
		n := s.decisions[id]
		if n.SourceID == sourceID && n.SourceName == sourceName {
			return &n, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Insert stores a new normalized decision.
func (s *DecisionStore) Insert(_ context.Context, n *domain.NormalizedDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.decisions {
		existing := s.decisions[id]
		if existing.SourceID == n.SourceID && existing.SourceName == n.SourceName {
			return fmt.Errorf("decision %s:%d: %w", n.SourceName, n.SourceID, domain.ErrAlreadyExists)
		}
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	} else if _, ok := s.decisions[n.ID]; ok {
		return fmt.Errorf("decision %s: %w", n.ID, domain.ErrAlreadyExists)
	}
	s.decisions[n.ID] = *n
	return nil
}

// Replace overwrites a normalized decision.
func (s *DecisionStore) Replace(_ context.Context, n *domain.NormalizedDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decisions[n.ID]; !ok {
		return fmt.Errorf("decision %s: %w", n.ID, domain.ErrNotFound)
	}
	s.decisions[n.ID] = *n
	return nil
}

// Delete removes a normalized decision.
func (s *DecisionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decisions, id)
	return nil
}

// ListByLabelStatus returns the decisions of a source in a labelling state,
// ordered by source identifier.
func (s *DecisionStore) ListByLabelStatus(
	_ context.Context,
	status domain.LabelStatus,
	sourceName string,
) ([]domain.NormalizedDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.NormalizedDecision
	for id := range s.decisions {
		n := s.decisions[id]
		if n.LabelStatus == status && n.SourceName == sourceName {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SourceID < result[j].SourceID })
	return result, nil
}

// Len returns the number of normalized decisions.
func (s *DecisionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}
