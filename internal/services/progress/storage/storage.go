// Package storage defines the persistence boundary for the progress service.
package storage

import (
	"context"
	"time"

	apperrors "github.com/arxlet/paperdex/internal/platform/errors"
	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
	"github.com/arxlet/paperdex/internal/services/progress/domain/progress"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such paper"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyTracked indicates tracking was already initiated for the paper.
var ErrAlreadyTracked = apperrors.New(apperrors.CodeProgressAlreadyTracked, "progress already tracked for paper")

// ErrStaleState indicates a concurrent writer advanced the paper's journal
// past the expected base sequence. The loser must reload and retry or
// surface the conflict.
var ErrStaleState = apperrors.New(apperrors.CodeProgressStaleState, "progress state changed underneath the request")

// ProgressRecord captures the persisted per-paper workflow state.
type ProgressRecord struct {
	PaperID      string
	InitiatorID  string
	Contributors []string
	Status       progress.Status
	RepoRef      string
	// Seq is the sequence of the last audit event applied; it guards every
	// write as the optimistic-concurrency version.
	Seq         uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	EmailSentAt *time.Time
}

// ProgressStore owns the per-paper workflow state records.
type ProgressStore interface {
	// CreateProgress atomically stores a new record and its initiated event
	// at sequence 1. Returns ErrAlreadyTracked if the paper is tracked.
	CreateProgress(ctx context.Context, rec ProgressRecord, initiated event.Event) error
	// GetProgress retrieves a record by paper id.
	GetProgress(ctx context.Context, paperID string) (ProgressRecord, error)
	// ListProgressByStatus returns up to limit records currently in the
	// given status with paper id greater than afterPaperID, ordered by
	// paper id. Callers page with the last returned paper id as the cursor.
	ListProgressByStatus(ctx context.Context, status progress.Status, afterPaperID string, limit int) ([]ProgressRecord, error)
	// ApplyTransition atomically replaces the record and appends the events,
	// numbered expectedSeq+1.. in order, provided the stored record still
	// sits at expectedSeq. Returns ErrStaleState when a concurrent writer
	// won the race; no partial writes occur.
	ApplyTransition(ctx context.Context, rec ProgressRecord, expectedSeq uint64, events []event.Event) error
}

// EventStore owns the append-only audit journal read boundary.
type EventStore interface {
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, paperID string, afterSeq uint64, limit int) ([]event.Event, error)
	// GetLatestEventSeq returns the latest event sequence number for a
	// paper. Returns 0 if no events exist.
	GetLatestEventSeq(ctx context.Context, paperID string) (uint64, error)
}

// Store is the composite interface for all progress persistence concerns.
type Store interface {
	ProgressStore
	EventStore
	Close() error
}
