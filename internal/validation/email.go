package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailResult is the verdict for a single email address
type EmailResult struct {
	FormatValid       bool   `json:"format_valid"`
	IsDisposable      bool   `json:"is_disposable"`
	SuspiciousPattern bool   `json:"suspicious_pattern"`
	HighRiskTLD       bool   `json:"high_risk_tld"`
	Valid             bool   `json:"valid"`
	Issue             string `json:"issue,omitempty"`
}

// ValidateEmail checks format, disposable-domain membership, suspicious
// local-part patterns and high-risk TLDs. The aggregate Valid flag is true
// only when every individual flag is clean. Missing input yields an invalid
// verdict, never an error.
func ValidateEmail(email string, cfg Config) EmailResult {
	result := EmailResult{}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		result.Issue = "Missing email address"
		return result
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		result.Issue = "Invalid email format"
		return result
	}
	local, domain := email[:at], email[at+1:]

	if !strings.Contains(domain, ".") || !emailRegex.MatchString(email) {
		result.Issue = "Invalid email format"
		return result
	}
	result.FormatValid = true

	if inList(cfg.DisposableDomains, domain) {
		result.IsDisposable = true
		result.Issue = "Disposable email detected"
	}

	if tld := domain[strings.LastIndex(domain, ".")+1:]; inList(cfg.HighRiskTLDs, tld) {
		result.HighRiskTLD = true
		if result.Issue == "" {
			result.Issue = "High-risk email domain"
		}
	}

	if isSuspiciousPattern(local, cfg) {
		result.SuspiciousPattern = true
		if result.Issue == "" {
			result.Issue = "Suspicious email pattern"
		}
	}

	result.Valid = result.FormatValid && !result.IsDisposable &&
		!result.SuspiciousPattern && !result.HighRiskTLD
	return result
}
