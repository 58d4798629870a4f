package progress

import (
	"time"
)

// DefaultResponseWindow is how long author silence is tolerated in
// email_sent before the system may record no_response.
const DefaultResponseWindow = 28 * 24 * time.Hour

// transitionTargets is the authoritative workflow graph: for each status,
// the exact set of legal target statuses. Terminal statuses map to nil.
// response_received is transient; its entry lists the three outcomes it must
// be resolved into within the same operation.
var transitionTargets = map[Status][]Status{
	StatusStarted:              {StatusEmailSent},
	StatusEmailSent:            {StatusResponseReceived, StatusNoResponse},
	StatusResponseReceived:     {StatusOfficialCodePosted, StatusCodeNeedsRefactoring, StatusRefusedToUpload},
	StatusCodeNeedsRefactoring: {StatusRefactoringStarted},
	StatusRefactoringStarted:   {StatusRefactoringFinished},
	StatusRefactoringFinished:  {StatusValidationInProgress},
	StatusValidationInProgress: {StatusOfficialCodePosted},
	StatusRefusedToUpload:      {StatusGithubCreated},
	StatusNoResponse:           {StatusGithubCreated},
	StatusGithubCreated:        {StatusCodeStarted},
	StatusCodeStarted:          {StatusCodeCompleted},
	StatusOfficialCodePosted:   nil,
	StatusCodeCompleted:        nil,
}

// repoRequiredTargets lists targets whose entry transition requires a
// repository reference to be present (linked beforehand or supplied with
// the request). The refactoring path needs one from code_needs_refactoring
// onward; the community path needs one to create the GitHub repository.
var repoRequiredTargets = map[Status]bool{
	StatusRefactoringStarted:   true,
	StatusRefactoringFinished:  true,
	StatusValidationInProgress: true,
	StatusGithubCreated:        true,
}

// LegalTargets returns the legal outgoing targets for a status.
func LegalTargets(from Status) []Status {
	targets := transitionTargets[from]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// isTransitionAllowed reports whether the edge exists in the workflow graph.
func isTransitionAllowed(from, to Status) bool {
	for _, target := range transitionTargets[from] {
		if target == to {
			return true
		}
	}
	return false
}

// TransitionRequest describes one requested workflow transition.
type TransitionRequest struct {
	// Target is the requested status.
	Target Status
	// Outcome selects the resolution when Target is response_received.
	// It must be one of the three statuses reachable from it.
	Outcome Status
	// RepoRef is an optional normalized owner/name reference supplied with
	// the transition.
	RepoRef string
	// Now is the decision time, used for the author-silence window.
	Now time.Time
	// ResponseWindow overrides DefaultResponseWindow when positive.
	ResponseWindow time.Duration
}

// Step is one status edge applied by an accepted transition.
type Step struct {
	From Status
	To   Status
}

// Plan captures the ordered status steps and side effects implied by an
// accepted transition. The service turns a Plan into audit events and a
// single atomic state write.
type Plan struct {
	// Steps are the status edges to apply, in order. A response resolution
	// produces two steps; every other transition produces one.
	Steps []Step
	// LinkRepo is the repository reference to record, empty when the
	// transition links nothing new.
	LinkRepo string
	// MarksEmailSent reports whether the transition records the outreach email.
	MarksEmailSent bool
}

// Final returns the status the plan ends on.
func (p Plan) Final() Status {
	if len(p.Steps) == 0 {
		return StatusUnspecified
	}
	return p.Steps[len(p.Steps)-1].To
}

// Decide determines whether the requested transition is legal from the
// current state given the actor's capabilities, and what it implies.
// It is pure: rejected requests leave no trace, and the returned plan is
// the complete description of the accepted change.
func Decide(state State, caps Capabilities, req TransitionRequest) (Plan, error) {
	if !req.Target.IsValid() {
		return Plan{}, ErrInvalidStatus
	}
	if req.Outcome != StatusUnspecified && req.Target != StatusResponseReceived {
		return Plan{}, newInvalidOutcomeError(req.Outcome)
	}

	if !isTransitionAllowed(state.Status, req.Target) {
		return Plan{}, newIllegalTransitionError(state.Status, req.Target)
	}

	if err := checkGuard(state, caps, req); err != nil {
		return Plan{}, err
	}

	plan := Plan{}
	switch req.Target {
	case StatusEmailSent:
		plan.Steps = []Step{{From: state.Status, To: StatusEmailSent}}
		plan.MarksEmailSent = true
	case StatusResponseReceived:
		// Transient routing status: resolved atomically with its outcome.
		if req.Outcome == StatusUnspecified {
			return Plan{}, ErrOutcomeRequired
		}
		if !isTransitionAllowed(StatusResponseReceived, req.Outcome) {
			return Plan{}, newInvalidOutcomeError(req.Outcome)
		}
		plan.Steps = []Step{
			{From: state.Status, To: StatusResponseReceived},
			{From: StatusResponseReceived, To: req.Outcome},
		}
	default:
		plan.Steps = []Step{{From: state.Status, To: req.Target}}
	}

	if req.RepoRef != "" && req.RepoRef != state.RepoRef {
		// Replacing an already-linked canonical reference is restricted: a
		// ref may ride along with any transition while none is set, or with
		// a transition that itself requires one, but swapping an existing
		// pointer is otherwise the initiator's explicit re-link action.
		if state.RepoRef != "" && !caps.IsInitiator && !repoRequiredTargets[plan.Final()] {
			return Plan{}, ErrForbidden
		}
		plan.LinkRepo = req.RepoRef
	}

	effectiveRepo := state.RepoRef
	if plan.LinkRepo != "" {
		effectiveRepo = plan.LinkRepo
	}
	if repoRequiredTargets[plan.Final()] && effectiveRepo == "" {
		return Plan{}, newRepoRequiredError(plan.Final())
	}

	return plan, nil
}

// checkGuard evaluates the permission guard for the requested edge.
func checkGuard(state State, caps Capabilities, req TransitionRequest) error {
	if caps.IsSystem {
		// The system actor's only right is the time-based no_response
		// transition out of email_sent.
		if state.Status != StatusEmailSent || req.Target != StatusNoResponse {
			return ErrForbidden
		}
		window := req.ResponseWindow
		if window <= 0 {
			window = DefaultResponseWindow
		}
		if state.EmailSentAt == nil || req.Now.Sub(*state.EmailSentAt) < window {
			return ErrForbidden
		}
		return nil
	}

	if req.Target == StatusEmailSent {
		if !caps.CanMarkEmailSent {
			return ErrForbidden
		}
		return nil
	}
	if !caps.CanAdvancePostContact {
		return ErrForbidden
	}
	return nil
}
