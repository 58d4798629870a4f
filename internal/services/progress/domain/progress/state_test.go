package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
)

func TestInitiate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	state, evt, err := Initiate("paper-1", "alice", clock)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}
	if state.Status != StatusStarted {
		t.Errorf("Status = %q, want %q", state.Status, StatusStarted)
	}
	if state.Seq != 1 {
		t.Errorf("Seq = %d, want 1", state.Seq)
	}
	if !state.IsContributor("alice") {
		t.Error("IsContributor(alice) = false, want true")
	}
	if evt.Type != event.TypeInitiated || evt.Seq != 1 {
		t.Errorf("event = %s seq %d, want %s seq 1", evt.Type, evt.Seq, event.TypeInitiated)
	}
	if !evt.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", evt.Timestamp, now)
	}
}

func TestInitiateValidation(t *testing.T) {
	if _, _, err := Initiate("  ", "alice", nil); !errors.Is(err, ErrEmptyPaperID) {
		t.Errorf("Initiate() error = %v, want ErrEmptyPaperID", err)
	}
	if _, _, err := Initiate("paper-1", "", nil); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Initiate() error = %v, want ErrEmptyUserID", err)
	}
}

func TestIsContributor(t *testing.T) {
	state := contributorState(StatusStarted)
	if !state.IsContributor("alice") || !state.IsContributor("bob") {
		t.Error("IsContributor() = false for contributors, want true")
	}
	if state.IsContributor("mallory") || state.IsContributor("") {
		t.Error("IsContributor() = true for non-contributors, want false")
	}
}

func TestCloneIsDeep(t *testing.T) {
	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := withEmailSent(contributorState(StatusEmailSent), sentAt)

	cloned := state.Clone()
	cloned.Contributors[0] = "mallory"
	*cloned.EmailSentAt = sentAt.Add(time.Hour)

	if state.Contributors[0] != "alice" {
		t.Errorf("Contributors[0] = %q after clone mutation, want %q", state.Contributors[0], "alice")
	}
	if !state.EmailSentAt.Equal(sentAt) {
		t.Errorf("EmailSentAt = %v after clone mutation, want %v", state.EmailSentAt, sentAt)
	}
}
