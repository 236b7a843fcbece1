package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Drivers accepted by Open.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Ensure Store implements the interfaces.
var (
	_ driven.SourceStore    = (*Store)(nil)
	_ driven.ReferenceStore = (*Store)(nil)
)

// Store reads the source decision tables.
type Store struct {
	db         *sql.DB
	references *sql.DB
	numbered   bool
}

// Open connects to the decisions database and, when referenceDSN is set, to
// the database holding the occultation blocks.
func Open(driver, dsn, referenceDSN string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("%w: unknown source driver %q", domain.ErrInvalidInput, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	references := db
	if referenceDSN != "" && referenceDSN != dsn {
		references, err = sql.Open(driver, referenceDSN)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("opening reference database: %w", err)
		}
	}
	return New(db, references, driver), nil
}

// New wraps open handles. references may be the same handle as db.
func New(db, references *sql.DB, driver string) *Store {
	return &Store{
		db:         db,
		references: references,
		numbered:   driver == DriverPostgres,
	}
}

// Ping checks both databases are reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("source database unreachable: %w", err)
	}
	if s.references != s.db {
		if err := s.references.PingContext(ctx); err != nil {
			return fmt.Errorf("reference database unreachable: %w", err)
		}
	}
	return nil
}

// Close closes both handles.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.references != s.db {
		err = errors.Join(err, s.references.Close())
	}
	return err
}

// ListNew returns unprocessed decisions created on or after since, by
// ascending identifier.
func (s *Store) ListNew(ctx context.Context, since time.Time) ([]domain.Decision, error) {
	return s.queryDecisions(ctx, `
		SELECT * FROM JCA_DECISION
		WHERE JDEC_HTML_SOURCE IS NOT NULL
		AND HTMLA IS NULL
		AND IND_ANO = 0
		AND JDEC_DATE_CREATION >= ?
		ORDER BY JDEC_ID ASC
	`, since.Format(time.DateOnly))
}

// ListUpdated returns decisions modified on or after since, by ascending
// identifier.
func (s *Store) ListUpdated(ctx context.Context, since time.Time) ([]domain.Decision, error) {
	return s.queryDecisions(ctx, `
		SELECT * FROM JCA_DECISION
		WHERE JDEC_HTML_SOURCE IS NOT NULL
		AND JDEC_DATE_MAJ >= ?
		ORDER BY JDEC_ID ASC
	`, since.Format(time.DateOnly))
}

// Get retrieves a decision by identifier.
func (s *Store) Get(ctx context.Context, id int64) (domain.Decision, error) {
	decisions, err := s.queryDecisions(ctx, "SELECT * FROM JCA_DECISION WHERE JDEC_ID = ?", id)
	if err != nil {
		return nil, err
	}
	if len(decisions) == 0 {
		return nil, fmt.Errorf("source decision %d: %w", id, domain.ErrNotFound)
	}
	return decisions[0], nil
}

// SetStatus writes the processing status of a decision.
func (s *Store) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE JCA_DECISION SET IND_ANO = ? WHERE JDEC_ID = ?
	`), int(status), id)
	if err != nil {
		return fmt.Errorf("updating source status: %w", err)
	}
	return requireAffected(result, id)
}

// MarkApproved writes the approved status of a decision.
func (s *Store) MarkApproved(ctx context.Context, id int64, at time.Time) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE JCA_DECISION SET
			IND_ANO = ?,
			AUT_ANO = ?,
			DT_ANO = ?,
			JDEC_DATE_MAJ = ?,
			DT_MODIF_ANO = ?,
			DT_ENVOI_ABONNES = NULL
		WHERE JDEC_ID = ?
	`), int(domain.StatusApproved), domain.ApprovalLabel, at, at.Format(time.DateOnly), at, id)
	if err != nil {
		return fmt.Errorf("approving source decision: %w", err)
	}
	return requireAffected(result, id)
}

// NACBlock returns the occultation block of a NAC code.
func (s *Store) NACBlock(ctx context.Context, nac string) (int64, error) {
	var block sql.NullInt64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT JNAC_IND_BLOC FROM JCA_NAC WHERE JNAC_F22CODE = ?
	`), nac).Scan(&block)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying NAC %s: %w", nac, err)
	}
	if !block.Valid || block.Int64 == 0 {
		return 0, domain.ErrNotFound
	}
	return block.Int64, nil
}

// OccultationBlock returns the attributes of a block, without its identifier.
func (s *Store) OccultationBlock(ctx context.Context, blockID int64) (domain.Attributes, error) {
	rows, err := s.references.QueryContext(ctx, s.rebind(`
		SELECT * FROM BLOCS_OCCULT_COMPL WHERE ID_BLOC = ?
	`), blockID)
	if err != nil {
		return nil, fmt.Errorf("querying occultation block %d: %w", blockID, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}

	attrs := make(domain.Attributes, len(records[0]))
	for k, v := range records[0] {
		if k != domain.FieldBlockID {
			attrs[k] = v
		}
	}
	return attrs, nil
}

func (s *Store) queryDecisions(ctx context.Context, query string, args ...any) ([]domain.Decision, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying source decisions: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	decisions := make([]domain.Decision, len(records))
	for i, record := range records {
		d := domain.Decision(record)
		d[domain.FieldMirrorID] = d.ID()
		decisions[i] = d
	}
	return decisions, nil
}

// rebind rewrites ? placeholders as $n for drivers that number them.
func (s *Store) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// scanRecords reads every row as a map keyed by upper-cased column name.
// Byte slices are read as strings.
func scanRecords(rows *sql.Rows) ([]map[domain.Field]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var records []map[domain.Field]any //nolint:prealloc // size unknown from query
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		record := make(map[domain.Field]any, len(columns))
		for i, column := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[domain.Field(strings.ToUpper(column))] = v
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}

func requireAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source decision %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
