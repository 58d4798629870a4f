// Package app orchestrates the implementation progress workflow: it wires
// the pure domain decisions to persistence and to the audit journal.
package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
	"github.com/arxlet/paperdex/internal/services/progress/domain/progress"
	"github.com/arxlet/paperdex/internal/services/progress/storage"
)

const defaultEventPageSize = 100

// Service exposes the progress workflow operations. Every accepted mutation
// is one atomic write: the refreshed state record plus the audit events it
// implies, guarded by the state's last applied sequence.
type Service struct {
	store          storage.Store
	now            func() time.Time
	responseWindow time.Duration
}

// ServiceConfig tunes service behavior. Zero values select defaults.
type ServiceConfig struct {
	// ResponseWindow overrides the author-silence window for the
	// system-driven no_response transition.
	ResponseWindow time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewService builds a progress service over the given store.
func NewService(store storage.Store, cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	window := cfg.ResponseWindow
	if window <= 0 {
		window = progress.DefaultResponseWindow
	}
	return &Service{store: store, now: now, responseWindow: window}
}

// Initiate starts tracking implementation progress for a paper. The caller
// becomes the initiator and sole contributor, and the journal opens with the
// initiated event at sequence 1.
func (s *Service) Initiate(ctx context.Context, paperID, initiatorID string) (progress.State, error) {
	state, initiated, err := progress.Initiate(paperID, initiatorID, s.now)
	if err != nil {
		return progress.State{}, err
	}
	if err := s.store.CreateProgress(ctx, recordFromState(state), initiated); err != nil {
		return progress.State{}, err
	}
	return state, nil
}

// GetState retrieves the current workflow state for a paper.
func (s *Service) GetState(ctx context.Context, paperID string) (progress.State, error) {
	if strings.TrimSpace(paperID) == "" {
		return progress.State{}, progress.ErrEmptyPaperID
	}
	rec, err := s.store.GetProgress(ctx, paperID)
	if err != nil {
		return progress.State{}, err
	}
	return stateFromRecord(rec), nil
}

// ListEvents returns a page of the paper's audit journal ordered by
// sequence ascending.
func (s *Service) ListEvents(ctx context.Context, paperID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if strings.TrimSpace(paperID) == "" {
		return nil, progress.ErrEmptyPaperID
	}
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	return s.store.ListEvents(ctx, paperID, afterSeq, limit)
}

// TransitionInput describes one requested workflow transition.
type TransitionInput struct {
	PaperID string
	ActorID string
	// Target is the requested status.
	Target progress.Status
	// Outcome resolves the transient response_received status; required
	// when Target is response_received, forbidden otherwise.
	Outcome progress.Status
	// RepoRef optionally links a repository as part of the transition.
	// Accepts a bare owner/name token or a full URL.
	RepoRef string
}

// RequestTransition applies one workflow transition for an actor. Rejected
// requests leave both the state and the journal untouched.
func (s *Service) RequestTransition(ctx context.Context, input TransitionInput) (progress.State, error) {
	if strings.TrimSpace(input.PaperID) == "" {
		return progress.State{}, progress.ErrEmptyPaperID
	}
	if strings.TrimSpace(input.ActorID) == "" {
		return progress.State{}, progress.ErrEmptyUserID
	}

	repoRef := ""
	if strings.TrimSpace(input.RepoRef) != "" {
		normalized, err := progress.NormalizeRepoRef(input.RepoRef)
		if err != nil {
			return progress.State{}, err
		}
		repoRef = normalized
	}

	rec, err := s.store.GetProgress(ctx, input.PaperID)
	if err != nil {
		return progress.State{}, err
	}
	state := stateFromRecord(rec)

	caps := progress.ComputeCapabilities(state, input.ActorID)
	plan, err := progress.Decide(state, caps, progress.TransitionRequest{
		Target:         input.Target,
		Outcome:        input.Outcome,
		RepoRef:        repoRef,
		Now:            s.now().UTC(),
		ResponseWindow: s.responseWindow,
	})
	if err != nil {
		return progress.State{}, err
	}

	events, err := s.planEvents(state, plan, input.ActorID)
	if err != nil {
		return progress.State{}, err
	}
	return s.commit(ctx, state, events)
}

// LinkRepository records or replaces the canonical repository reference
// outside of a transition. Only the initiator may call it; linking the
// current reference again is an idempotent no-op.
func (s *Service) LinkRepository(ctx context.Context, paperID, actorID, rawRef string) (progress.State, error) {
	if strings.TrimSpace(paperID) == "" {
		return progress.State{}, progress.ErrEmptyPaperID
	}
	if strings.TrimSpace(actorID) == "" {
		return progress.State{}, progress.ErrEmptyUserID
	}
	repoRef, err := progress.NormalizeRepoRef(rawRef)
	if err != nil {
		return progress.State{}, err
	}

	rec, err := s.store.GetProgress(ctx, paperID)
	if err != nil {
		return progress.State{}, err
	}
	state := stateFromRecord(rec)

	caps := progress.ComputeCapabilities(state, actorID)
	if !caps.IsInitiator {
		return progress.State{}, progress.ErrForbidden
	}
	if repoRef == state.RepoRef {
		return state, nil
	}

	evt, err := s.repoLinkedEvent(state, repoRef, actorID, state.Seq+1, s.now().UTC())
	if err != nil {
		return progress.State{}, err
	}
	return s.commit(ctx, state, []event.Event{evt})
}

// RecordContributorJoin adds a user to the paper's contributor set. Joining
// twice is an idempotent no-op.
func (s *Service) RecordContributorJoin(ctx context.Context, paperID, userID string) (progress.State, error) {
	if strings.TrimSpace(paperID) == "" {
		return progress.State{}, progress.ErrEmptyPaperID
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return progress.State{}, progress.ErrEmptyUserID
	}

	rec, err := s.store.GetProgress(ctx, paperID)
	if err != nil {
		return progress.State{}, err
	}
	state := stateFromRecord(rec)
	if state.IsContributor(userID) {
		return state, nil
	}

	payloadJSON, err := json.Marshal(event.ContributorJoinedPayload{UserID: userID})
	if err != nil {
		return progress.State{}, err
	}
	evt := event.Event{
		PaperID:     state.PaperID,
		Seq:         state.Seq + 1,
		Timestamp:   s.now().UTC(),
		Type:        event.TypeContributorJoined,
		ActorID:     userID,
		PayloadJSON: payloadJSON,
	}
	return s.commit(ctx, state, []event.Event{evt})
}

// planEvents turns an accepted plan into the ordered audit events,
// numbered from the state's current sequence.
func (s *Service) planEvents(state progress.State, plan progress.Plan, actorID string) ([]event.Event, error) {
	now := s.now().UTC()
	seq := state.Seq
	events := make([]event.Event, 0, len(plan.Steps)+1)

	if plan.LinkRepo != "" {
		seq++
		evt, err := s.repoLinkedEvent(state, plan.LinkRepo, actorID, seq, now)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}

	for _, step := range plan.Steps {
		seq++
		eventType := event.TypeStatusChanged
		var payload any = event.StatusChangedPayload{
			FromStatus: string(step.From),
			ToStatus:   string(step.To),
		}
		if plan.MarksEmailSent && step.To == progress.StatusEmailSent {
			eventType = event.TypeEmailSent
			payload = event.EmailSentPayload{
				FromStatus: string(step.From),
				ToStatus:   string(step.To),
			}
		}
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		events = append(events, event.Event{
			PaperID:     state.PaperID,
			Seq:         seq,
			Timestamp:   now,
			Type:        eventType,
			ActorID:     actorID,
			PayloadJSON: payloadJSON,
		})
	}
	return events, nil
}

func (s *Service) repoLinkedEvent(state progress.State, repoRef, actorID string, seq uint64, now time.Time) (event.Event, error) {
	payloadJSON, err := json.Marshal(event.RepoLinkedPayload{
		RepoRef:      repoRef,
		PriorRepoRef: state.RepoRef,
	})
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{
		PaperID:     state.PaperID,
		Seq:         seq,
		Timestamp:   now,
		Type:        event.TypeRepoLinked,
		ActorID:     actorID,
		PayloadJSON: payloadJSON,
	}, nil
}

// commit folds the events onto the state and writes both atomically. Folding
// rather than mutating directly keeps the live state equal to its replay by
// construction.
func (s *Service) commit(ctx context.Context, state progress.State, events []event.Event) (progress.State, error) {
	next := state.Clone()
	for _, evt := range events {
		var err error
		next, err = progress.Fold(next, evt)
		if err != nil {
			return progress.State{}, err
		}
	}
	if err := s.store.ApplyTransition(ctx, recordFromState(next), state.Seq, events); err != nil {
		return progress.State{}, err
	}
	return next, nil
}

func recordFromState(state progress.State) storage.ProgressRecord {
	return storage.ProgressRecord{
		PaperID:      state.PaperID,
		InitiatorID:  state.InitiatorID,
		Contributors: append([]string(nil), state.Contributors...),
		Status:       state.Status,
		RepoRef:      state.RepoRef,
		Seq:          state.Seq,
		CreatedAt:    state.CreatedAt,
		UpdatedAt:    state.UpdatedAt,
		EmailSentAt:  state.EmailSentAt,
	}
}

func stateFromRecord(rec storage.ProgressRecord) progress.State {
	return progress.State{
		PaperID:      rec.PaperID,
		InitiatorID:  rec.InitiatorID,
		Contributors: append([]string(nil), rec.Contributors...),
		Status:       rec.Status,
		RepoRef:      rec.RepoRef,
		Seq:          rec.Seq,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		EmailSentAt:  rec.EmailSentAt,
	}
}
