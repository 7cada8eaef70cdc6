package validation

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Duplicate match confidence by tier
const (
	DuplicateConfidenceEmail   = 95
	DuplicateConfidencePhone   = 90
	DuplicateConfidenceNameZip = 75
)

// LeadMatch identifies a previously stored lead returned by a lookup
type LeadMatch struct {
	ID      uuid.UUID
	Email   string
	Phone   string
	Name    string
	ZipCode string
}

// LeadLookup is the indexed-lookup interface the storage collaborator must
// provide for duplicate detection. Every lookup excludes excludeID so a lead
// being re-validated never matches itself.
type LeadLookup interface {
	ByEmailCI(ctx context.Context, email string, excludeID uuid.UUID) ([]LeadMatch, error)
	ByPhoneSuffix(ctx context.Context, last10 string, excludeID uuid.UUID) ([]LeadMatch, error)
	ByNameCIAndZip(ctx context.Context, name, zipCode string, excludeID uuid.UUID) ([]LeadMatch, error)
}

// DuplicateResult describes whether a candidate matches a stored lead
type DuplicateResult struct {
	IsDuplicate     bool        `json:"is_duplicate"`
	Confidence      int         `json:"confidence"`
	MatchingLeadIDs []uuid.UUID `json:"matching_lead_ids,omitempty"`
	MatchingFields  []string    `json:"matching_fields,omitempty"`
}

// DuplicateDetector runs the tiered duplicate lookups against stored leads
type DuplicateDetector struct {
	lookup LeadLookup
}

// NewDuplicateDetector creates a detector over the given lookup
func NewDuplicateDetector(lookup LeadLookup) *DuplicateDetector {
	return &DuplicateDetector{lookup: lookup}
}

// Detect queries stored leads in strict priority order, stopping at the first
// match: exact email (confidence 95), last-10-digit phone (90), then exact
// name and ZIP (75). A failed lookup logs a warning and counts as no match
// for that tier; availability of the scoring signal wins over precision.
func (d *DuplicateDetector) Detect(ctx context.Context, email, phone, name, zipCode string, excludeID uuid.UUID) DuplicateResult {
	email = strings.TrimSpace(strings.ToLower(email))
	if email != "" {
		matches, err := d.lookup.ByEmailCI(ctx, email, excludeID)
		if err != nil {
			log.Printf("Warning: duplicate email lookup failed: %v", err)
		} else if len(matches) > 0 {
			return matchResult(matches, DuplicateConfidenceEmail, "email")
		}
	}

	if digits := stripNonDigits(phone); len(digits) >= 10 {
		matches, err := d.lookup.ByPhoneSuffix(ctx, digits[len(digits)-10:], excludeID)
		if err != nil {
			log.Printf("Warning: duplicate phone lookup failed: %v", err)
		} else if len(matches) > 0 {
			return matchResult(matches, DuplicateConfidencePhone, "phone")
		}
	}

	name = strings.TrimSpace(name)
	zipCode = strings.TrimSpace(zipCode)
	if name != "" && zipCode != "" {
		matches, err := d.lookup.ByNameCIAndZip(ctx, name, zipCode, excludeID)
		if err != nil {
			log.Printf("Warning: duplicate name/zip lookup failed: %v", err)
		} else if len(matches) > 0 {
			return matchResult(matches, DuplicateConfidenceNameZip, "name", "zip_code")
		}
	}

	return DuplicateResult{}
}

func matchResult(matches []LeadMatch, confidence int, fields ...string) DuplicateResult {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return DuplicateResult{
		IsDuplicate:     true,
		Confidence:      confidence,
		MatchingLeadIDs: ids,
		MatchingFields:  fields,
	}
}
