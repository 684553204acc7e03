package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/core/ports/driven"
)

// ==================== Import History Store ====================

// historyStore implements driven.ImportHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.ImportHistoryStore = (*historyStore)(nil)

const historyColumns = `id, source, label, started_at, finished_at, status, phase, error, planned, created`

// Save stores or updates a record.
func (s *historyStore) Save(ctx context.Context, record domain.ImportRecord) error {
	planned, err := json.Marshal(record.Planned)
	if err != nil {
		return fmt.Errorf("marshalling planned counts: %w", err)
	}
	created, err := json.Marshal(record.Created)
	if err != nil {
		return fmt.Errorf("marshalling created counts: %w", err)
	}

	var finishedAt any
	if !record.FinishedAt.IsZero() {
		finishedAt = record.FinishedAt.UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO import_history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			label = excluded.label,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			status = excluded.status,
			phase = excluded.phase,
			error = excluded.error,
			planned = excluded.planned,
			created = excluded.created
	`, record.ID, string(record.Source), record.Label, record.StartedAt.UTC(), finishedAt,
		string(record.Status), int(record.Phase), record.Error, string(planned), string(created))
	if err != nil {
		return fmt.Errorf("saving import record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *historyStore) Get(ctx context.Context, id string) (*domain.ImportRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM import_history WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return record, err
}

// List returns the most recent records first. A limit of zero means all.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM import_history ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying import history: %w", err)
	}
	defer rows.Close()

	var records []domain.ImportRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating import history: %w", err)
	}
	return records, nil
}

func scanRecord(row rowScanner) (*domain.ImportRecord, error) {
	var (
		record          domain.ImportRecord
		source, status  string
		phase           int
		finishedAt      sql.NullTime
		planned, create string
	)
	if err := row.Scan(&record.ID, &source, &record.Label, &record.StartedAt, &finishedAt,
		&status, &phase, &record.Error, &planned, &create); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning import record: %w", err)
	}

	record.Source = domain.ImportSource(source)
	record.Status = domain.ImportStatus(status)
	record.Phase = domain.Phase(phase)
	if finishedAt.Valid {
		record.FinishedAt = finishedAt.Time
	}
	if err := json.Unmarshal([]byte(planned), &record.Planned); err != nil {
		return nil, fmt.Errorf("unmarshalling planned counts: %w", err)
	}
	if err := json.Unmarshal([]byte(create), &record.Created); err != nil {
		return nil, fmt.Errorf("unmarshalling created counts: %w", err)
	}
	return &record, nil
}
