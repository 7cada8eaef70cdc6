package validation

import "strings"

// PhoneResult is the verdict for a single phone number
type PhoneResult struct {
	ValidLength       bool   `json:"valid_length"`
	Repetitive        bool   `json:"repetitive"`
	KnownFake         bool   `json:"known_fake"`
	Sequential        bool   `json:"sequential"`
	VOIPPrefix        bool   `json:"voip_prefix"`
	HighFraudAreaCode bool   `json:"high_fraud_area_code"`
	Valid             bool   `json:"valid"`
	Normalized        string `json:"normalized,omitempty"`
	Issue             string `json:"issue,omitempty"`
}

// ValidatePhone checks US phone numbers: digits are stripped, the length must
// be 10 (or 11 with a leading "1"), and obviously fake numbers are rejected.
// VOIP and high-fraud area codes flag the number without failing it.
func ValidatePhone(phone string, cfg Config) PhoneResult {
	result := PhoneResult{}

	digits := stripNonDigits(phone)
	if digits == "" {
		result.Issue = "Missing phone number"
		return result
	}

	switch {
	case len(digits) == 10:
		result.ValidLength = true
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		result.ValidLength = true
	}
	if !result.ValidLength {
		result.Issue = "Invalid phone number length"
		return result
	}

	normalized := digits[len(digits)-10:]
	result.Normalized = normalized

	if allSameDigit(normalized) {
		result.Repetitive = true
		result.Issue = "Obviously fake phone number"
	}
	if inList(cfg.FakePhoneNumbers, normalized) {
		result.KnownFake = true
		if result.Issue == "" {
			result.Issue = "Obviously fake phone number"
		}
	}
	if isSequentialDigits(normalized) {
		result.Sequential = true
		if result.Issue == "" {
			result.Issue = "Sequential phone number"
		}
	}

	areaCode := normalized[:3]
	if inList(cfg.VOIPAreaCodes, areaCode) {
		result.VOIPPrefix = true
	}
	if inList(cfg.HighFraudAreaCodes, areaCode) {
		result.HighFraudAreaCode = true
	}

	result.Valid = result.ValidLength && !result.Repetitive &&
		!result.KnownFake && !result.Sequential
	return result
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(s string) bool {
	if s == "" {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// isSequentialDigits reports whether the whole string is a single ascending
// or descending run of consecutive digits
func isSequentialDigits(s string) bool {
	if len(s) < 2 {
		return false
	}
	ascending, descending := true, true
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1]+1 {
			ascending = false
		}
		if s[i] != s[i-1]-1 {
			descending = false
		}
	}
	return ascending || descending
}
