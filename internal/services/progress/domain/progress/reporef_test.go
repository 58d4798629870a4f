package progress

import (
	"testing"

	apperrors "github.com/arxlet/paperdex/internal/platform/errors"
)

func TestNormalizeRepoRef(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"acme/repo", "acme/repo"},
		{"  acme/repo  ", "acme/repo"},
		{"acme/repo.git", "acme/repo"},
		{"github.com/acme/repo", "acme/repo"},
		{"https://github.com/acme/repo", "acme/repo"},
		{"https://github.com/acme/repo/", "acme/repo"},
		{"https://github.com/acme/repo.git", "acme/repo"},
		{"http://gitlab.example.org/acme/repo", "acme/repo"},
	}
	for _, tc := range tests {
		got, err := NormalizeRepoRef(tc.input)
		if err != nil {
			t.Errorf("NormalizeRepoRef(%q) error = %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeRepoRef(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeRepoRefRejects(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"acme repo",
		"acme/re po",
		"acme",
		"acme/",
		"/repo",
		"https://github.com/acme",
		"https://github.com/acme/repo/extra",
	}
	for _, input := range inputs {
		_, err := NormalizeRepoRef(input)
		if !apperrors.IsCode(err, apperrors.CodeProgressInvalidRepoRef) {
			t.Errorf("NormalizeRepoRef(%q) error = %v, want invalid repo ref", input, err)
		}
	}
}
