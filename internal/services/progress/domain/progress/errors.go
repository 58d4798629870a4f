package progress

import (
	"fmt"

	apperrors "github.com/arxlet/paperdex/internal/platform/errors"
)

var (
	// ErrEmptyPaperID indicates a missing paper identifier.
	ErrEmptyPaperID = apperrors.New(apperrors.CodeProgressEmptyPaperID, "paper id is required")
	// ErrEmptyUserID indicates a missing user identifier.
	ErrEmptyUserID = apperrors.New(apperrors.CodeProgressEmptyUserID, "user id is required")
	// ErrForbidden indicates the actor lacks the capability for the requested action.
	ErrForbidden = apperrors.New(apperrors.CodeProgressForbidden, "actor lacks the required capability")
	// ErrInvalidStatus indicates a malformed or unknown target status.
	ErrInvalidStatus = apperrors.New(apperrors.CodeProgressInvalidStatus, "progress status is invalid")
	// ErrOutcomeRequired indicates a response resolution without a selected outcome.
	ErrOutcomeRequired = apperrors.New(apperrors.CodeProgressOutcomeRequired, "response resolution requires an outcome")
	// ErrStaleState indicates the state changed underneath a request.
	ErrStaleState = apperrors.New(apperrors.CodeProgressStaleState, "progress state changed underneath the request")
)

// newIllegalTransitionError builds the structured error for an edge missing
// from the transition graph.
func newIllegalTransitionError(from, to Status) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeProgressIllegalTransition,
		fmt.Sprintf("progress transition not allowed: %s -> %s", from.Label(), to.Label()),
		map[string]string{"FromStatus": from.Label(), "ToStatus": to.Label()},
	)
}

// newRepoRequiredError builds the structured error for a transition missing
// its repository-link precondition.
func newRepoRequiredError(to Status) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeProgressRepoRequired,
		fmt.Sprintf("progress transition into %s requires a linked repository", to.Label()),
		map[string]string{"ToStatus": to.Label()},
	)
}

// newInvalidOutcomeError builds the structured error for a response outcome
// outside the three legal resolutions.
func newInvalidOutcomeError(outcome Status) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeProgressInvalidOutcome,
		fmt.Sprintf("status %s is not a valid response outcome", outcome.Label()),
		map[string]string{"Outcome": outcome.Label()},
	)
}

// newInvalidRepoRefError builds the structured error for a malformed
// repository reference.
func newInvalidRepoRefError(ref string) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeProgressInvalidRepoRef,
		fmt.Sprintf("repository reference %q is not a valid owner/name reference", ref),
		map[string]string{"RepoRef": ref},
	)
}
