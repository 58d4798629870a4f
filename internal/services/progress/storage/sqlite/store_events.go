package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
)

// EventStore methods (append-only audit journal)

// ListEvents returns events ordered by sequence ascending.
func (s *Store) ListEvents(ctx context.Context, paperID string, afterSeq uint64, limit int) ([]event.Event, error) {
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
	seq,
	timestamp,
	event_type,
	actor_id,
	payload_json
FROM progress_events
WHERE paper_id = ? AND seq > ?
ORDER BY seq
LIMIT ?
`, paperID, int64(afterSeq), limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]event.Event, 0, limit)
	for rows.Next() {
		var evt event.Event
		var seq, timestamp int64
		var eventType string
		if err := rows.Scan(
			&evt.PaperID,
			&seq,
			&timestamp,
			&eventType,
			&evt.ActorID,
			&evt.PayloadJSON,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Timestamp = time.UnixMilli(timestamp).UTC()
		evt.Type = event.Type(eventType)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetLatestEventSeq returns the latest event sequence number for a paper.
// Returns 0 if no events exist.
func (s *Store) GetLatestEventSeq(ctx context.Context, paperID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var seq int64
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT seq
FROM progress_events
WHERE paper_id = ?
ORDER BY seq DESC
LIMIT 1
`, paperID)
	if err := row.Scan(&seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get latest event seq: %w", err)
	}
	return uint64(seq), nil
}
