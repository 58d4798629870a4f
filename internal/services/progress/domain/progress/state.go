package progress

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
)

// State is the canonical record of one paper's implementation journey.
// It is mutated only through the service transition path; every accepted
// change appends exactly one run of audit events and bumps Seq to the
// sequence of the last event applied.
type State struct {
	// PaperID identifies the tracked paper (immutable).
	PaperID string
	// InitiatorID is the user who started tracking (immutable).
	InitiatorID string
	// Contributors is the insertion-ordered contributor set.
	// It always contains InitiatorID.
	Contributors []string
	// Status is the current workflow node.
	Status Status
	// RepoRef is the normalized owner/name repository reference, if linked.
	// Once set it is never cleared, only replaced by an explicit re-link.
	RepoRef string
	// Seq is the sequence number of the last audit event applied to this
	// state. It doubles as the optimistic-concurrency version.
	Seq uint64
	// CreatedAt is when tracking was initiated.
	CreatedAt time.Time
	// UpdatedAt is refreshed on every accepted transition.
	UpdatedAt time.Time
	// EmailSentAt is set exactly once, on the transition into email_sent.
	EmailSentAt *time.Time
}

// IsContributor reports whether the user belongs to the contributor set.
func (s State) IsContributor(userID string) bool {
	if strings.TrimSpace(userID) == "" {
		return false
	}
	for _, contributor := range s.Contributors {
		if contributor == userID {
			return true
		}
	}
	return false
}

// EmailSent reports whether the outreach email was recorded as sent.
func (s State) EmailSent() bool {
	return s.EmailSentAt != nil
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	cloned := s
	cloned.Contributors = append([]string(nil), s.Contributors...)
	if s.EmailSentAt != nil {
		sentAt := *s.EmailSentAt
		cloned.EmailSentAt = &sentAt
	}
	return cloned
}

// Initiate creates the initial state for a paper together with the
// progress.initiated audit event at sequence 1.
func Initiate(paperID, initiatorID string, now func() time.Time) (State, event.Event, error) {
	if now == nil {
		now = time.Now
	}
	paperID = strings.TrimSpace(paperID)
	initiatorID = strings.TrimSpace(initiatorID)
	if paperID == "" {
		return State{}, event.Event{}, ErrEmptyPaperID
	}
	if initiatorID == "" {
		return State{}, event.Event{}, ErrEmptyUserID
	}

	createdAt := now().UTC()
	state := State{
		PaperID:      paperID,
		InitiatorID:  initiatorID,
		Contributors: []string{initiatorID},
		Status:       StatusStarted,
		Seq:          1,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	payloadJSON, err := json.Marshal(event.InitiatedPayload{InitiatorID: initiatorID})
	if err != nil {
		return State{}, event.Event{}, err
	}
	evt := event.Event{
		PaperID:     paperID,
		Seq:         1,
		Timestamp:   createdAt,
		Type:        event.TypeInitiated,
		ActorID:     initiatorID,
		PayloadJSON: payloadJSON,
	}
	return state, evt, nil
}
