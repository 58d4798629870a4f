package progress

import (
	"encoding/json"
	"fmt"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
)

// Fold applies one audit event to a state. Replaying the full journal
// through Fold reproduces the live state exactly. A payload that cannot be
// decoded, or a status_changed event naming an unknown status, is an error:
// silently skipping it would let the reconstruction drift from the journal
// without any signal.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case event.TypeInitiated:
		var payload event.InitiatedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return State{}, foldError(evt, err)
		}
		state.PaperID = evt.PaperID
		state.InitiatorID = payload.InitiatorID
		state.Contributors = []string{payload.InitiatorID}
		state.Status = StatusStarted
		state.CreatedAt = evt.Timestamp
	case event.TypeEmailSent:
		sentAt := evt.Timestamp
		state.Status = StatusEmailSent
		state.EmailSentAt = &sentAt
	case event.TypeStatusChanged:
		var payload event.StatusChangedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return State{}, foldError(evt, err)
		}
		status, ok := NormalizeStatusLabel(payload.ToStatus)
		if !ok {
			return State{}, foldError(evt, fmt.Errorf("unknown status %q", payload.ToStatus))
		}
		state.Status = status
	case event.TypeRepoLinked:
		var payload event.RepoLinkedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return State{}, foldError(evt, err)
		}
		if payload.RepoRef != "" {
			state.RepoRef = payload.RepoRef
		}
	case event.TypeContributorJoined:
		var payload event.ContributorJoinedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return State{}, foldError(evt, err)
		}
		if payload.UserID != "" && !state.IsContributor(payload.UserID) {
			state.Contributors = append(state.Contributors, payload.UserID)
		}
	}
	state.Seq = evt.Seq
	state.UpdatedAt = evt.Timestamp
	return state, nil
}

func foldError(evt event.Event, cause error) error {
	return fmt.Errorf("fold %s event seq %d: %w", evt.Type, evt.Seq, cause)
}
