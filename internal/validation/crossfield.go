package validation

import "strings"

// CrossFieldResult is the verdict for name/email consistency
type CrossFieldResult struct {
	Checked    bool   `json:"checked"`
	Consistent bool   `json:"consistent"`
	Issue      string `json:"issue,omitempty"`
}

// ValidateCrossField compares the email local part against the supplied name.
// The pair is consistent when either normalized form contains the other, or
// any name token longer than 3 characters appears in the local part.
// Inconsistency is weak evidence that the email was chosen to resemble the
// stated name; it flags but is not scored.
func ValidateCrossField(name, email string) CrossFieldResult {
	result := CrossFieldResult{Consistent: true}

	name = strings.TrimSpace(name)
	at := strings.LastIndex(email, "@")
	if name == "" || at <= 0 {
		return result
	}
	result.Checked = true

	local := normalizeForComparison(email[:at])
	compactName := normalizeForComparison(name)
	if local == "" || compactName == "" {
		return result
	}

	if strings.Contains(local, compactName) || strings.Contains(compactName, local) {
		return result
	}
	for _, token := range strings.Fields(strings.ToLower(name)) {
		token = normalizeForComparison(token)
		if len(token) > 3 && strings.Contains(local, token) {
			return result
		}
	}

	result.Consistent = false
	result.Issue = "Email does not resemble the provided name"
	return result
}

// normalizeForComparison lowercases and keeps letters only
func normalizeForComparison(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
