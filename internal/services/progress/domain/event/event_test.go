package event

import "testing"

func TestTypeIsValid(t *testing.T) {
	valid := []Type{TypeInitiated, TypeEmailSent, TypeStatusChanged, TypeRepoLinked, TypeContributorJoined}
	for _, eventType := range valid {
		if !eventType.IsValid() {
			t.Errorf("IsValid(%s) = false, want true", eventType)
		}
	}
	for _, invalid := range []Type{"", "progress.unknown", "campaign.initiated"} {
		if invalid.IsValid() {
			t.Errorf("IsValid(%q) = true, want false", invalid)
		}
	}
}

func TestTypeDomain(t *testing.T) {
	if got := TypeStatusChanged.Domain(); got != "progress" {
		t.Errorf("Domain() = %q, want %q", got, "progress")
	}
	if got := Type("bare").Domain(); got != "bare" {
		t.Errorf("Domain() = %q, want %q", got, "bare")
	}
}
