// Package replay reconstructs progress state from the audit journal.
// Reconstruction is the disaster-recovery path and the reference semantics
// the live state must agree with.
package replay

import (
	"context"
	"fmt"
	"strings"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
	"github.com/arxlet/paperdex/internal/services/progress/domain/progress"
)

const replayPageSize = 200

// EventStore is the read boundary replay needs from persistence.
type EventStore interface {
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, paperID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// Options configures event replay behavior.
type Options struct {
	// AfterSeq skips events at or below this sequence.
	AfterSeq uint64
	// UntilSeq stops replay after this sequence when positive.
	UntilSeq uint64
}

// Reconstruct folds the full audit journal of a paper into a state.
func Reconstruct(ctx context.Context, store EventStore, paperID string) (progress.State, error) {
	return ReconstructWith(ctx, store, paperID, Options{})
}

// ReconstructWith folds a bounded portion of the audit journal into a state.
func ReconstructWith(ctx context.Context, store EventStore, paperID string, options Options) (progress.State, error) {
	if store == nil {
		return progress.State{}, fmt.Errorf("event store is not configured")
	}
	if strings.TrimSpace(paperID) == "" {
		return progress.State{}, progress.ErrEmptyPaperID
	}

	state := progress.State{}
	lastSeq := options.AfterSeq
	for {
		events, err := store.ListEvents(ctx, paperID, lastSeq, replayPageSize)
		if err != nil {
			return progress.State{}, err
		}
		if len(events) == 0 {
			return state, nil
		}
		for _, evt := range events {
			if options.UntilSeq > 0 && evt.Seq > options.UntilSeq {
				return state, nil
			}
			lastSeq = evt.Seq
			state, err = progress.Fold(state, evt)
			if err != nil {
				return progress.State{}, err
			}
		}
	}
}
