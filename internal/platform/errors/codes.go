// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Progress workflow errors
	CodeProgressEmptyPaperID      Code = "PROGRESS_EMPTY_PAPER_ID"
	CodeProgressEmptyUserID       Code = "PROGRESS_EMPTY_USER_ID"
	CodeProgressAlreadyTracked    Code = "PROGRESS_ALREADY_TRACKED"
	CodeProgressInvalidStatus     Code = "PROGRESS_INVALID_STATUS"
	CodeProgressIllegalTransition Code = "PROGRESS_ILLEGAL_TRANSITION"
	CodeProgressForbidden         Code = "PROGRESS_FORBIDDEN"
	CodeProgressRepoRequired      Code = "PROGRESS_REPO_REQUIRED"
	CodeProgressInvalidRepoRef    Code = "PROGRESS_INVALID_REPO_REF"
	CodeProgressOutcomeRequired   Code = "PROGRESS_OUTCOME_REQUIRED"
	CodeProgressInvalidOutcome    Code = "PROGRESS_INVALID_OUTCOME"
	CodeProgressStaleState        Code = "PROGRESS_STALE_STATE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeProgressEmptyPaperID,
		CodeProgressEmptyUserID,
		CodeProgressInvalidStatus,
		CodeProgressInvalidRepoRef,
		CodeProgressOutcomeRequired,
		CodeProgressInvalidOutcome:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeProgressAlreadyTracked,
		CodeProgressIllegalTransition,
		CodeProgressRepoRequired:
		return codes.FailedPrecondition

	// PermissionDenied - actor lacks the required capability
	case CodeProgressForbidden:
		return codes.PermissionDenied

	// Aborted - concurrent modification lost the race
	case CodeProgressStaleState:
		return codes.Aborted

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
