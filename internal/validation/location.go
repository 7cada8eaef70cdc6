package validation

import (
	"regexp"
	"strings"
)

var zipRegex = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// zipRegions maps the leading ZIP digit to the states it covers
var zipRegions = map[byte][]string{
	'0': {"CT", "MA", "ME", "NH", "NJ", "PR", "RI", "VT", "VI"},
	'1': {"DE", "NY", "PA"},
	'2': {"DC", "MD", "NC", "SC", "VA", "WV"},
	'3': {"AL", "FL", "GA", "MS", "TN"},
	'4': {"IN", "KY", "MI", "OH"},
	'5': {"IA", "MN", "MT", "ND", "SD", "WI"},
	'6': {"IL", "KS", "MO", "NE"},
	'7': {"AR", "LA", "OK", "TX"},
	'8': {"AZ", "CO", "ID", "NM", "NV", "UT", "WY"},
	'9': {"AK", "AS", "CA", "GU", "HI", "MP", "OR", "WA"},
}

// LocationResult is the verdict for a ZIP code / state pair
type LocationResult struct {
	FormatValid   bool   `json:"format_valid"`
	StateMismatch bool   `json:"state_mismatch"`
	HighRiskZip   bool   `json:"high_risk_zip"`
	Valid         bool   `json:"valid"`
	Issue         string `json:"issue,omitempty"`
}

// ValidateLocation requires a 5-digit (optionally ZIP+4) US postal code.
// When a state is supplied it is cross-checked against the coarse
// leading-digit region table; a mismatch flags but does not fail validity,
// as does membership in the high-risk ZIP set.
func ValidateLocation(zipCode, state string, cfg Config) LocationResult {
	result := LocationResult{}

	zipCode = strings.TrimSpace(zipCode)
	if zipCode == "" {
		result.Issue = "Missing ZIP code"
		return result
	}

	if !zipRegex.MatchString(zipCode) {
		result.Issue = "Invalid ZIP code format"
		return result
	}
	result.FormatValid = true

	zip5 := zipCode[:5]
	state = strings.ToUpper(strings.TrimSpace(state))
	if state != "" {
		if states, ok := zipRegions[zip5[0]]; ok && !inList(states, state) {
			result.StateMismatch = true
			result.Issue = "ZIP code does not match state"
		}
	}

	if inList(cfg.HighRiskZips, zip5) {
		result.HighRiskZip = true
		if result.Issue == "" {
			result.Issue = "High-risk ZIP code"
		}
	}

	result.Valid = result.FormatValid
	return result
}
