package progress

import "strings"

// NormalizeRepoRef canonicalizes a repository reference to owner/name form.
// It accepts either a bare owner/name token or a full URL; for URLs the
// owner/name pair is extracted from the path fragment after the host.
// Inputs containing whitespace, or lacking exactly one separator after
// stripping the URL prefix, are rejected.
func NormalizeRepoRef(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", newInvalidRepoRefError(raw)
	}
	if strings.ContainsAny(trimmed, " \t\n\r") {
		return "", newInvalidRepoRefError(raw)
	}

	ref := trimmed
	hadScheme := false
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(ref, scheme) {
			ref = ref[len(scheme):]
			hadScheme = true
			break
		}
	}
	// A hostname is present with a scheme, and tolerated without one
	// (e.g. github.com/owner/name).
	if host, rest, ok := strings.Cut(ref, "/"); ok && (hadScheme || strings.Contains(host, ".")) {
		ref = rest
	} else if hadScheme {
		return "", newInvalidRepoRefError(raw)
	}

	ref = strings.Trim(ref, "/")
	ref = strings.TrimSuffix(ref, ".git")

	owner, name, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", newInvalidRepoRefError(raw)
	}
	return owner + "/" + name, nil
}
