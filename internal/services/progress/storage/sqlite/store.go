// Package sqlite provides SQLite-backed progress persistence.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/arxlet/paperdex/internal/platform/storage/sqlitemigrate"
	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
	"github.com/arxlet/paperdex/internal/services/progress/domain/progress"
	"github.com/arxlet/paperdex/internal/services/progress/storage"
	"github.com/arxlet/paperdex/internal/services/progress/storage/sqlite/migrations"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store provides SQLite-backed progress and audit journal persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a progress SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateProgress atomically stores a new record and its initiated event.
func (s *Store) CreateProgress(ctx context.Context, rec storage.ProgressRecord, initiated event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.PaperID) == "" {
		return fmt.Errorf("paper id is required")
	}
	if initiated.Seq != 1 || rec.Seq != 1 {
		return fmt.Errorf("initiated event must carry sequence 1")
	}
	if initiated.PaperID != rec.PaperID {
		return fmt.Errorf("initiated event paper id mismatch")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO progress_states (
	paper_id,
	initiator_id,
	status,
	repo_ref,
	last_seq,
	created_at,
	updated_at,
	email_sent_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		rec.PaperID,
		rec.InitiatorID,
		string(rec.Status),
		rec.RepoRef,
		int64(rec.Seq),
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
		toNullableMillis(rec.EmailSentAt),
	); err != nil {
		if isConstraintError(err) {
			return storage.ErrAlreadyTracked
		}
		return fmt.Errorf("insert progress state: %w", err)
	}

	if err := upsertContributors(ctx, tx, rec); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, initiated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetProgress retrieves a record by paper id.
func (s *Store) GetProgress(ctx context.Context, paperID string) (storage.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProgressRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProgressRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT
	paper_id,
	initiator_id,
	status,
	repo_ref,
	last_seq,
	created_at,
	updated_at,
	email_sent_at
FROM progress_states
WHERE paper_id = ?
`, paperID)

	rec, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ProgressRecord{}, storage.ErrNotFound
		}
		return storage.ProgressRecord{}, fmt.Errorf("get progress state: %w", err)
	}

	rec.Contributors, err = s.listContributors(ctx, paperID)
	if err != nil {
		return storage.ProgressRecord{}, err
	}
	return rec, nil
}

// ListProgressByStatus returns one page of records currently in the given
// status, keyed by paper id after the cursor.
func (s *Store) ListProgressByStatus(ctx context.Context, status progress.Status, afterPaperID string, limit int) ([]storage.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	paper_id,
	initiator_id,
	status,
	repo_ref,
	last_seq,
	created_at,
	updated_at,
	email_sent_at
FROM progress_states
WHERE status = ? AND paper_id > ?
ORDER BY paper_id
LIMIT ?
`, string(status), afterPaperID, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress states: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ProgressRecord, 0, limit)
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress state: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress states: %w", err)
	}

	for i := range records {
		records[i].Contributors, err = s.listContributors(ctx, records[i].PaperID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ApplyTransition atomically replaces the record and appends the events.
func (s *Store) ApplyTransition(ctx context.Context, rec storage.ProgressRecord, expectedSeq uint64, events []event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(events) == 0 {
		return fmt.Errorf("at least one event is required")
	}
	for i, evt := range events {
		if evt.PaperID != rec.PaperID {
			return fmt.Errorf("event paper id mismatch")
		}
		if evt.Seq != expectedSeq+uint64(i)+1 {
			return fmt.Errorf("event sequence must be contiguous from %d", expectedSeq+1)
		}
	}
	if rec.Seq != expectedSeq+uint64(len(events)) {
		return fmt.Errorf("record sequence must equal the last event sequence")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
UPDATE progress_states
SET status = ?,
	repo_ref = ?,
	last_seq = ?,
	updated_at = ?,
	email_sent_at = ?
WHERE paper_id = ? AND last_seq = ?
`,
		string(rec.Status),
		rec.RepoRef,
		int64(rec.Seq),
		toMillis(rec.UpdatedAt),
		toNullableMillis(rec.EmailSentAt),
		rec.PaperID,
		int64(expectedSeq),
	)
	if err != nil {
		return fmt.Errorf("update progress state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update progress state rows: %w", err)
	}
	if affected == 0 {
		var exists int
		row := tx.QueryRowContext(ctx, `SELECT 1 FROM progress_states WHERE paper_id = ?`, rec.PaperID)
		if scanErr := row.Scan(&exists); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("check progress state: %w", scanErr)
		}
		return storage.ErrStaleState
	}

	for _, evt := range events {
		if err := insertEvent(ctx, tx, evt); err != nil {
			return err
		}
	}
	if err := upsertContributors(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, evt event.Event) error {
	if _, err := tx.ExecContext(ctx, `
INSERT INTO progress_events (
	paper_id,
	seq,
	timestamp,
	event_type,
	actor_id,
	payload_json
) VALUES (?, ?, ?, ?, ?, ?)
`,
		evt.PaperID,
		int64(evt.Seq),
		toMillis(evt.Timestamp),
		string(evt.Type),
		evt.ActorID,
		evt.PayloadJSON,
	); err != nil {
		// The (paper_id, seq) primary key is the serialization point: a
		// duplicate sequence means a concurrent writer won the race.
		if isConstraintError(err) {
			return storage.ErrStaleState
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func upsertContributors(ctx context.Context, tx *sql.Tx, rec storage.ProgressRecord) error {
	for position, userID := range rec.Contributors {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO progress_contributors (
	paper_id,
	user_id,
	position,
	joined_at
) VALUES (?, ?, ?, ?)
`,
			rec.PaperID,
			userID,
			position,
			toMillis(rec.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert contributor: %w", err)
		}
	}
	return nil
}

func (s *Store) listContributors(ctx context.Context, paperID string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT user_id
FROM progress_contributors
WHERE paper_id = ?
ORDER BY position
`, paperID)
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	defer rows.Close()

	var contributors []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		contributors = append(contributors, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributors: %w", err)
	}
	return contributors, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (storage.ProgressRecord, error) {
	var rec storage.ProgressRecord
	var status string
	var lastSeq, createdAt, updatedAt int64
	var emailSentAt sql.NullInt64
	if err := row.Scan(
		&rec.PaperID,
		&rec.InitiatorID,
		&status,
		&rec.RepoRef,
		&lastSeq,
		&createdAt,
		&updatedAt,
		&emailSentAt,
	); err != nil {
		return storage.ProgressRecord{}, err
	}
	rec.Status = progress.Status(status)
	rec.Seq = uint64(lastSeq)
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	if emailSentAt.Valid {
		sentAt := time.UnixMilli(emailSentAt.Int64).UTC()
		rec.EmailSentAt = &sentAt
	}
	return rec, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func toNullableMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMillis(*t)
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

var _ storage.Store = (*Store)(nil)
