package assessor

import (
	"context"

	"github.com/insuraloop/backend/internal/validation"
)

// LeadData carries the candidate lead's full field set for assessment.
// Details holds the insurance-type-specific fields from the capture form.
type LeadData struct {
	Name          string
	Email         string
	Phone         string
	ZipCode       string
	State         string
	Address       string
	IPAddress     string
	InsuranceType string
	Notes         string
	Details       map[string]interface{}
}

// Assessor consults an external service for a fraud-risk assessment of a
// candidate lead. Implementations must never fail the caller: any transport,
// auth or parse problem degrades to the neutral fallback assessment.
type Assessor interface {
	Assess(ctx context.Context, lead LeadData) validation.RiskAssessment
}

// FallbackAssessment is the neutral verdict used when the external assessor
// cannot be consulted; composition then relies on the rule-based validators
func FallbackAssessment() validation.RiskAssessment {
	return validation.RiskAssessment{
		RiskScore:   50,
		Assessment:  "medium_risk",
		Confidence:  0,
		Issues:      []string{"AI validation unavailable - using fallback rules"},
		Unavailable: true,
	}
}
