package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// ==================== Raw Decision Store ====================

// rawDecisionStore implements driven.RawDecisionStore.
type rawDecisionStore struct {
	store *Store
}

var _ driven.RawDecisionStore = (*rawDecisionStore)(nil)

// Get retrieves a mirrored decision by source identifier.
func (s *rawDecisionStore) Get(ctx context.Context, id int64) (domain.Decision, error) {
	var document string
	err := s.store.db.QueryRowContext(ctx, "SELECT document FROM raw_decisions WHERE id = ?", id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying raw decision: %w", err)
	}
	return decodeDecision(document)
}

// Insert mirrors a decision not mirrored yet.
func (s *rawDecisionStore) Insert(ctx context.Context, d domain.Decision) error {
	id := d.ID()
	if id == 0 {
		return fmt.Errorf("%w: decision without identifier", domain.ErrInvalidInput)
	}
	document, err := encodeDecision(d, id)
	if err != nil {
		return err
	}

	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO raw_decisions (id, document) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, document)
	if err != nil {
		return fmt.Errorf("inserting raw decision: %w", err)
	}
	return requireAffected(result, fmt.Errorf("raw decision %d: %w", id, domain.ErrAlreadyExists))
}

// Replace overwrites a mirrored decision.
func (s *rawDecisionStore) Replace(ctx context.Context, d domain.Decision) error {
	id := d.ID()
	document, err := encodeDecision(d, id)
	if err != nil {
		return err
	}

	result, err := s.store.db.ExecContext(ctx, `
		UPDATE raw_decisions SET document = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, document, id)
	if err != nil {
		return fmt.Errorf("replacing raw decision: %w", err)
	}
	return requireAffected(result, fmt.Errorf("raw decision %d: %w", id, domain.ErrNotFound))
}

// Delete removes a mirrored decision.
func (s *rawDecisionStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM raw_decisions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting raw decision: %w", err)
	}
	return nil
}

// ==================== Decision Store ====================

// decisionStore implements driven.DecisionStore.
type decisionStore struct {
	store *Store
}

var _ driven.DecisionStore = (*decisionStore)(nil)

// FindBySource retrieves the normalized decision of a source decision.
func (s *decisionStore) FindBySource(ctx context.Context, sourceID int64, sourceName string) (*domain.NormalizedDecision, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT document FROM decisions WHERE source_id = ? AND source_name = ?
	`, sourceID, sourceName)
	return scanNormalized(row)
}

// Insert stores a new normalized decision, assigning its identifier.
func (s *decisionStore) Insert(ctx context.Context, n *domain.NormalizedDecision) error {
	stored := *n
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	document, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshalling normalized decision: %w", err)
	}

	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO decisions (id, source_id, source_name, label_status, document)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, stored.ID, stored.SourceID, stored.SourceName, string(stored.LabelStatus), string(document))
	if err != nil {
		return fmt.Errorf("inserting normalized decision: %w", err)
	}
	if err := requireAffected(result, fmt.Errorf("decision %s:%d: %w",
		stored.SourceName, stored.SourceID, domain.ErrAlreadyExists)); err != nil {
		return err
	}
	n.ID = stored.ID
	return nil
}

// Replace overwrites a normalized decision.
func (s *decisionStore) Replace(ctx context.Context, n *domain.NormalizedDecision) error {
	document, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshalling normalized decision: %w", err)
	}

	result, err := s.store.db.ExecContext(ctx, `
		UPDATE decisions SET
			source_id = ?,
			source_name = ?,
			label_status = ?,
			document = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, n.SourceID, n.SourceName, string(n.LabelStatus), string(document), n.ID)
	if err != nil {
		return fmt.Errorf("replacing normalized decision: %w", err)
	}
	return requireAffected(result, fmt.Errorf("decision %s: %w", n.ID, domain.ErrNotFound))
}

// Delete removes a normalized decision.
func (s *decisionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM decisions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting normalized decision: %w", err)
	}
	return nil
}

// ListByLabelStatus returns the decisions of a source in a labelling state,
// ordered by source identifier.
func (s *decisionStore) ListByLabelStatus(
	ctx context.Context,
	status domain.LabelStatus,
	sourceName string,
) ([]domain.NormalizedDecision, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document FROM decisions
		WHERE label_status = ? AND source_name = ?
		ORDER BY source_id
	`, string(status), sourceName)
	if err != nil {
		return nil, fmt.Errorf("querying normalized decisions: %w", err)
	}
	defer rows.Close()

	var decisions []domain.NormalizedDecision //nolint:prealloc // size unknown from query
	for rows.Next() {
		n, err := scanNormalized(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating normalized decisions: %w", err)
	}

	return decisions, nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_states (source_name, last_sync)
		VALUES (?, ?)
		ON CONFLICT(source_name) DO UPDATE SET
			last_sync = excluded.last_sync
	`, state.SourceName, state.LastSync)

	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// Get retrieves sync state for a source database.
func (s *syncStateStore) Get(ctx context.Context, sourceName string) (*domain.SyncState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT source_name, last_sync
		FROM sync_states WHERE source_name = ?
	`, sourceName)

	var state domain.SyncState
	var lastSync sql.NullTime
	if err := row.Scan(&state.SourceName, &lastSync); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	if lastSync.Valid {
		state.LastSync = lastSync.Time
	}

	return &state, nil
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNormalized(row scanner) (*domain.NormalizedDecision, error) {
	var document string
	if err := row.Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning normalized decision: %w", err)
	}

	var n domain.NormalizedDecision
	if err := json.Unmarshal([]byte(document), &n); err != nil {
		return nil, fmt.Errorf("unmarshalling normalized decision: %w", err)
	}
	return &n, nil
}

func requireAffected(result sql.Result, errNone error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return errNone
	}
	return nil
}

// encodeDecision renders a decision as a JSON document keyed by column,
// with _id set. Times are kept in UTC to the millisecond.
func encodeDecision(d domain.Decision, id int64) (string, error) {
	document := make(map[string]any, len(d)+1)
	for k, v := range d {
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Truncate(time.Millisecond)
		}
		document[string(k)] = v
	}
	document[string(domain.FieldMirrorID)] = id

	b, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("marshalling decision %d: %w", id, err)
	}
	return string(b), nil
}

// decodeDecision reads a JSON document back into a decision. Integral
// numbers are read as int64.
func decodeDecision(document string) (domain.Decision, error) {
	dec := json.NewDecoder(strings.NewReader(document))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("unmarshalling decision: %w", err)
	}

	d := make(domain.Decision, len(fields))
	for k, v := range fields {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				v = i
			} else if f, err := n.Float64(); err == nil {
				v = f
			}
		}
		d[domain.Field(k)] = v
	}
	return d, nil
}
