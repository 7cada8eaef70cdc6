// Package validation implements the lead quality and fraud-risk checks:
// pure per-field validators, duplicate detection over a storage-provided
// lookup interface, and score composition. All lists and thresholds are
// carried in a Config value passed explicitly so callers can substitute
// fixtures in tests and tune production without a redeploy.
package validation

// Config holds thresholds, weights and blocklists for lead validation
type Config struct {
	// Score tier cutpoints
	LowRiskThreshold  int // score >= this is Low Risk / Approve
	HighRiskThreshold int // score < this is High Risk / Reject

	// Points contributed by each passing field validator
	FieldWeight int

	// Blocklists
	DisposableDomains  []string
	HighRiskTLDs       []string
	FakeNames          []string
	CelebrityNames     []string
	FakePhoneNumbers   []string
	VOIPAreaCodes      []string
	HighFraudAreaCodes []string
	HighRiskZips       []string

	// Pattern detector tuning
	MinSequentialRun   int     // shortest ascending/descending run that flags
	MaxRepetitionRatio float64 // one character at or above this fraction flags
	MinNameLength      int
}

// DefaultConfig returns the built-in validation policy
func DefaultConfig() Config {
	return Config{
		LowRiskThreshold:  70,
		HighRiskThreshold: 20,
		FieldWeight:       25,

		DisposableDomains: []string{
			"mailinator.com", "tempmail.com", "guerrillamail.com", "yopmail.com",
			"10minutemail.com", "trashmail.com", "throwawaymail.com", "fakeinbox.com",
			"temp-mail.org", "maildrop.cc",
		},
		HighRiskTLDs: []string{"xyz", "top", "club", "icu"},
		FakeNames: []string{
			"john doe", "jane doe", "john smith", "test test", "test user",
			"first last", "no name", "asdf asdf", "foo bar",
		},
		CelebrityNames: []string{
			"mickey mouse", "donald duck", "james bond", "bruce wayne",
			"clark kent", "peter parker", "homer simpson", "tony stark",
		},
		FakePhoneNumbers: []string{
			"1234567890", "0987654321", "0123456789",
		},
		VOIPAreaCodes: []string{
			"456", "500", "521", "522", "533", "544", "566", "577", "588",
		},
		HighFraudAreaCodes: []string{
			"473", "649", "664", "767", "809", "829", "849", "876",
		},
		HighRiskZips: nil,

		MinSequentialRun:   4,
		MaxRepetitionRatio: 0.6,
		MinNameLength:      4,
	}
}

func inList(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
