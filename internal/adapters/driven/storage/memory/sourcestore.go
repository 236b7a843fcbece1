package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure SourceStore implements the interfaces.
var (
	_ driven.SourceStore    = (*SourceStore)(nil)
	_ driven.ReferenceStore = (*SourceStore)(nil)
)

// SourceStore is an in-memory implementation of driven.SourceStore and
// driven.ReferenceStore.
type SourceStore struct {
	mu        sync.RWMutex
	rows      map[int64]domain.Decision
	nacBlocks map[string]int64
	blocks    map[int64]domain.Attributes
}

// NewSourceStore creates a new in-memory source store holding rows.
func NewSourceStore(rows ...domain.Decision) *SourceStore {
	s := &SourceStore{
		rows:      make(map[int64]domain.Decision),
		nacBlocks: make(map[string]int64),
		blocks:    make(map[int64]domain.Attributes),
	}
	for _, row := range rows {
		s.Put(row)
	}
	return s
}

// Put stores or replaces a source row. Rows are read back with their
// identifier copied to _id, as the SQL source does.
func (s *SourceStore) Put(row domain.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := row.Clone()
	c[domain.FieldMirrorID] = row.ID()
	s.rows[row.ID()] = c
}

// SetNACBlock maps a NAC code to an occultation block.
func (s *SourceStore) SetNACBlock(nac string, blockID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nacBlocks[nac] = blockID
}

// SetOccultationBlock stores the attributes of an occultation block.
func (s *SourceStore) SetOccultationBlock(blockID int64, attrs domain.Attributes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[blockID] = attrs
}

// ListNew returns unprocessed rows created on or after since.
func (s *SourceStore) ListNew(_ context.Context, since time.Time) ([]domain.Decision, error) {
	return s.list(func(row domain.Decision) bool {
		if row.String(domain.FieldPseudoHTML) != "" {
			return false
		}
		if status, ok := row.Int(domain.FieldStatus); !ok || status != int64(domain.StatusReset) {
			return false
		}
		created, err := row.Date(domain.FieldCreationDate)
		return err == nil && !created.Before(since)
	}), nil
}

// ListUpdated returns rows modified on or after since.
func (s *SourceStore) ListUpdated(_ context.Context, since time.Time) ([]domain.Decision, error) {
	return s.list(func(row domain.Decision) bool {
		updated, err := row.Date(domain.FieldUpdateDate)
		return err == nil && !updated.Before(since)
	}), nil
}

func (s *SourceStore) list(match func(domain.Decision) bool) []domain.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Decision
	for _, row := range s.rows {
		if row.String(domain.FieldHTMLSource) == "" || !match(row) {
			continue
		}
		result = append(result, row.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// Get retrieves a row by identifier.
func (s *SourceStore) Get(_ context.Context, id int64) (domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row.Clone(), nil
}

// SetStatus writes the processing status of a row.
func (s *SourceStore) SetStatus(_ context.Context, id int64, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	row[domain.FieldStatus] = int64(status)
	return nil
}

// MarkApproved writes the approved status of a row.
func (s *SourceStore) MarkApproved(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	row[domain.FieldStatus] = int64(domain.StatusApproved)
	row[domain.FieldStatusAuthor] = domain.ApprovalLabel
	row[domain.FieldStatusDate] = at
	row[domain.FieldUpdateDate] = at.Format(time.DateOnly)
	row[domain.FieldStatusModified] = at
	row[domain.FieldSentToSubscriber] = nil
	return nil
}

// NACBlock returns the occultation block of a NAC code.
func (s *SourceStore) NACBlock(_ context.Context, nac string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	block, ok := s.nacBlocks[nac]
	if !ok || block == 0 {
		return 0, domain.ErrNotFound
	}
	return block, nil
}

// OccultationBlock returns a copy of the attributes of a block.
func (s *SourceStore) OccultationBlock(_ context.Context, blockID int64) (domain.Attributes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attrs, ok := s.blocks[blockID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	result := make(domain.Attributes, len(attrs))
	for k, v := range attrs {
		if k == domain.FieldBlockID {
			continue
		}
		result[k] = v
	}
	return result, nil
}
