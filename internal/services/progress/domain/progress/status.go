package progress

import "strings"

// Status describes the implementation-progress workflow node for a paper.
type Status string

const (
	StatusUnspecified Status = ""
	// StatusStarted is the initial status after tracking is initiated.
	StatusStarted Status = "started"
	// StatusEmailSent indicates the authors were contacted.
	StatusEmailSent Status = "email_sent"
	// StatusResponseReceived is a transient routing status: it is only ever
	// accepted together with one of its three outcomes and is never the
	// standing status of a persisted record.
	StatusResponseReceived Status = "response_received"
	// StatusOfficialCodePosted is the terminal success status: the authors
	// published a working implementation.
	StatusOfficialCodePosted Status = "official_code_posted"
	// StatusCodeNeedsRefactoring enters the refactoring path.
	StatusCodeNeedsRefactoring Status = "code_needs_refactoring"
	// StatusRefactoringStarted indicates contributors began refactoring author code.
	StatusRefactoringStarted Status = "refactoring_started"
	// StatusRefactoringFinished indicates refactoring work is done.
	StatusRefactoringFinished Status = "refactoring_finished"
	// StatusValidationInProgress indicates the refactored code is being validated.
	StatusValidationInProgress Status = "validation_in_progress"
	// StatusRefusedToUpload enters the community path: the authors declined.
	StatusRefusedToUpload Status = "refused_to_upload"
	// StatusNoResponse enters the community path: the authors never answered.
	StatusNoResponse Status = "no_response"
	// StatusGithubCreated indicates a community repository was created.
	StatusGithubCreated Status = "github_created"
	// StatusCodeStarted indicates community implementation work began.
	StatusCodeStarted Status = "code_started"
	// StatusCodeCompleted is the terminal status of the community path.
	StatusCodeCompleted Status = "code_completed"
)

// allStatuses enumerates every reachable workflow status.
var allStatuses = []Status{
	StatusStarted,
	StatusEmailSent,
	StatusResponseReceived,
	StatusOfficialCodePosted,
	StatusCodeNeedsRefactoring,
	StatusRefactoringStarted,
	StatusRefactoringFinished,
	StatusValidationInProgress,
	StatusRefusedToUpload,
	StatusNoResponse,
	StatusGithubCreated,
	StatusCodeStarted,
	StatusCodeCompleted,
}

// Statuses returns every reachable workflow status in display order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsValid reports whether the status is a reachable workflow node.
func (s Status) IsValid() bool {
	for _, candidate := range allStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no legal outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusOfficialCodePosted || s == StatusCodeCompleted
}

// Label returns a stable upper-case label for error metadata and logs.
func (s Status) Label() string {
	if s == StatusUnspecified {
		return "UNSPECIFIED"
	}
	return strings.ToUpper(string(s))
}

// NormalizeStatusLabel canonicalizes external status labels.
// It accepts the canonical snake_case value in any case as well as the
// enum-style PROGRESS_STATUS_ prefixed form used on the wire.
func NormalizeStatusLabel(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StatusUnspecified, false
	}
	lower := strings.ToLower(trimmed)
	lower = strings.TrimPrefix(lower, "progress_status_")
	candidate := Status(lower)
	if candidate.IsValid() {
		return candidate, true
	}
	return StatusUnspecified, false
}
