// Package event defines the append-only audit journal for implementation
// progress. Events are facts that have occurred, never commands, and the
// journal is the source of truth for state reconstruction.
package event

import (
	"strings"
	"time"
)

// Type identifies the type of a progress audit event.
type Type string

const (
	// TypeInitiated records the creation of implementation tracking for a paper.
	TypeInitiated Type = "progress.initiated"
	// TypeEmailSent records the fact that an outreach email was sent to the authors.
	TypeEmailSent Type = "progress.email_sent"
	// TypeStatusChanged records a workflow status transition.
	TypeStatusChanged Type = "progress.status_changed"
	// TypeRepoLinked records linking or replacing the canonical repository reference.
	TypeRepoLinked Type = "progress.repo_linked"
	// TypeContributorJoined records a contributor joining the effort.
	TypeContributorJoined Type = "progress.contributor_joined"
)

// ActorSystem is the synthetic actor id used for time-based transitions.
const ActorSystem = "system"

// Event represents an immutable entry in the per-paper audit journal.
type Event struct {
	// PaperID is the paper this event belongs to.
	PaperID string
	// Seq is the event sequence number within the paper (starts at 1).
	// Assigned by storage on append; strictly increasing, no gaps.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorID is the user that triggered the event, or ActorSystem.
	ActorID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	switch t {
	case TypeInitiated, TypeEmailSent, TypeStatusChanged, TypeRepoLinked, TypeContributorJoined:
		return true
	}
	return false
}

// Domain returns the domain prefix of the event type.
func (t Type) Domain() string {
	value := string(t)
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		return value[:idx]
	}
	return value
}
