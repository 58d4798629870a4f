package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeProgressEmptyPaperID      = "PROGRESS_EMPTY_PAPER_ID"
	CodeProgressEmptyUserID       = "PROGRESS_EMPTY_USER_ID"
	CodeProgressAlreadyTracked    = "PROGRESS_ALREADY_TRACKED"
	CodeProgressInvalidStatus     = "PROGRESS_INVALID_STATUS"
	CodeProgressIllegalTransition = "PROGRESS_ILLEGAL_TRANSITION"
	CodeProgressForbidden         = "PROGRESS_FORBIDDEN"
	CodeProgressRepoRequired      = "PROGRESS_REPO_REQUIRED"
	CodeProgressInvalidRepoRef    = "PROGRESS_INVALID_REPO_REF"
	CodeProgressOutcomeRequired   = "PROGRESS_OUTCOME_REQUIRED"
	CodeProgressInvalidOutcome    = "PROGRESS_INVALID_OUTCOME"
	CodeProgressStaleState        = "PROGRESS_STALE_STATE"
	CodeNotFound                  = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Progress workflow errors
		CodeProgressEmptyPaperID:      "Paper ID is required",
		CodeProgressEmptyUserID:       "User ID is required",
		CodeProgressAlreadyTracked:    "Implementation progress is already tracked for this paper",
		CodeProgressInvalidStatus:     "Invalid progress status specified",
		CodeProgressIllegalTransition: "Cannot transition progress from {{.FromStatus}} to {{.ToStatus}}",
		CodeProgressForbidden:         "You do not have permission to perform this progress action",
		CodeProgressRepoRequired:      "A linked GitHub repository is required before entering {{.ToStatus}}",
		CodeProgressInvalidRepoRef:    "Repository reference {{.RepoRef}} is not a valid owner/name reference",
		CodeProgressOutcomeRequired:   "Resolving a response requires selecting an outcome",
		CodeProgressInvalidOutcome:    "Status {{.Outcome}} is not a valid response outcome",
		CodeProgressStaleState:        "Progress changed underneath this request, reload and retry",

		// Storage errors
		CodeNotFound: "The requested resource was not found",
	},
}
