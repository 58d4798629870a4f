package event

// InitiatedPayload captures the payload for progress.initiated events.
type InitiatedPayload struct {
	InitiatorID string `json:"initiator_id"`
}

// EmailSentPayload captures the payload for progress.email_sent events.
type EmailSentPayload struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// StatusChangedPayload captures the payload for progress.status_changed events.
type StatusChangedPayload struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// RepoLinkedPayload captures the payload for progress.repo_linked events.
type RepoLinkedPayload struct {
	RepoRef string `json:"repo_ref"`
	// PriorRepoRef is set when an existing reference was replaced by a re-link.
	PriorRepoRef string `json:"prior_repo_ref,omitempty"`
}

// ContributorJoinedPayload captures the payload for progress.contributor_joined events.
type ContributorJoinedPayload struct {
	UserID string `json:"user_id"`
}
