package progress

import (
	"strings"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
)

// Capabilities is the actor's capability record for one paper's workflow.
// Computation is pure: no side effects, no clock.
type Capabilities struct {
	// IsContributor reports membership in the contributor set.
	IsContributor bool
	// IsInitiator reports whether the actor started tracking.
	IsInitiator bool
	// IsSystem reports the synthetic scheduler actor, whose only right is
	// to fire time-based transitions.
	IsSystem bool
	// CanMarkEmailSent permits recording the outreach email, once.
	CanMarkEmailSent bool
	// CanAdvancePostContact permits driving the workflow forward. Before
	// first contact only the initiator may; after the email is sent any
	// contributor may.
	CanAdvancePostContact bool
}

// ComputeCapabilities derives the capability record for an actor against the
// current state. An absent actor id yields all capabilities false.
func ComputeCapabilities(state State, actorID string) Capabilities {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return Capabilities{}
	}
	if actorID == event.ActorSystem {
		return Capabilities{IsSystem: true}
	}

	caps := Capabilities{
		IsContributor: state.IsContributor(actorID),
		IsInitiator:   actorID == state.InitiatorID,
	}
	caps.CanMarkEmailSent = caps.IsContributor && !state.EmailSent()
	caps.CanAdvancePostContact = caps.IsContributor && (caps.IsInitiator || state.EmailSent())
	return caps
}
