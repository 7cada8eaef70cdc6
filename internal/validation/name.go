package validation

import (
	"strings"
	"unicode"
)

// NameResult is the verdict for a submitted full name
type NameResult struct {
	TooShort          bool   `json:"too_short"`
	MissingLastName   bool   `json:"missing_last_name"`
	ContainsDigits    bool   `json:"contains_digits"`
	InvalidCharacters bool   `json:"invalid_characters"`
	FakeName          bool   `json:"fake_name"`
	CelebrityName     bool   `json:"celebrity_name"`
	SuspiciousPattern bool   `json:"suspicious_pattern"`
	ShortNamePart     bool   `json:"short_name_part"`
	Valid             bool   `json:"valid"`
	Issue             string `json:"issue,omitempty"`
}

// ValidateName requires a first and last name with only plausible name
// characters, and checks the fake-name, celebrity and keyboard/sequential/
// repetition pattern flags. A single-character name part flags without
// failing validity.
func ValidateName(name string, cfg Config) NameResult {
	result := NameResult{}

	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		result.Issue = "Missing name"
		return result
	}

	if len(name) < cfg.MinNameLength {
		result.TooShort = true
		result.Issue = "Name too short"
	}
	if !strings.Contains(name, " ") {
		result.MissingLastName = true
		if result.Issue == "" {
			result.Issue = "Missing last name"
		}
	}

	oddChars := 0
	for _, r := range name {
		switch {
		case unicode.IsDigit(r):
			result.ContainsDigits = true
		case unicode.IsLetter(r) || r == ' ' || r == '\'' || r == '-':
		default:
			oddChars++
		}
	}
	if result.ContainsDigits && result.Issue == "" {
		result.Issue = "Name contains digits"
	}
	// One stray character is tolerated for unusual but real names
	if oddChars > 1 {
		result.InvalidCharacters = true
		if result.Issue == "" {
			result.Issue = "Name contains invalid characters"
		}
	}

	normalized := strings.ToLower(name)
	if inList(cfg.FakeNames, normalized) {
		result.FakeName = true
		if result.Issue == "" {
			result.Issue = "Known fake name"
		}
	}
	if inList(cfg.CelebrityNames, normalized) {
		result.CelebrityName = true
		if result.Issue == "" {
			result.Issue = "Celebrity or fictional name"
		}
	}

	if isSuspiciousPattern(strings.ReplaceAll(normalized, " ", ""), cfg) {
		result.SuspiciousPattern = true
		if result.Issue == "" {
			result.Issue = "Suspicious name pattern"
		}
	}

	for _, part := range strings.Split(normalized, " ") {
		if len(part) == 1 {
			result.ShortNamePart = true
			break
		}
	}

	result.Valid = !result.TooShort && !result.MissingLastName &&
		!result.ContainsDigits && !result.InvalidCharacters &&
		!result.FakeName && !result.CelebrityName && !result.SuspiciousPattern
	return result
}
