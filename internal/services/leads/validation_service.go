package leads

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/assessor"
	"github.com/insuraloop/backend/internal/validation"
)

// ValidationService runs the full validation pipeline for a candidate lead:
// rule-based field validators, duplicate detection against stored leads,
// the optional external risk assessor and score composition
type ValidationService struct {
	db       *gorm.DB
	store    *LeadStore
	detector *validation.DuplicateDetector
	assessor assessor.Assessor
	cfg      validation.Config
}

// ValidateOptions controls a validation run
type ValidateOptions struct {
	// Persist writes the score, details and timestamp back to the lead and
	// appends a ValidationLog row. A dry run leaves the store untouched.
	Persist bool
	// SkipAssessor suppresses the external AI call
	SkipAssessor bool
}

// ValidationOutcome bundles everything one validation run produced
type ValidationOutcome struct {
	Score          int                          `json:"score"`
	Assessment     string                       `json:"assessment"`
	Recommendation string                       `json:"recommendation"`
	Fields         validation.FieldResults      `json:"validations"`
	Duplicate      validation.DuplicateResult   `json:"duplicate_check"`
	AI             *validation.RiskAssessment   `json:"ai_assessment,omitempty"`
	Issues         []string                     `json:"issues"`
	ValidatedAt    time.Time                    `json:"validated_at"`
}

// NewValidationService creates a new validation service. The assessor may be
// nil, in which case only the rule-based pipeline runs.
func NewValidationService(db *gorm.DB, store *LeadStore, riskAssessor assessor.Assessor, cfg validation.Config) *ValidationService {
	return &ValidationService{
		db:       db,
		store:    store,
		detector: validation.NewDuplicateDetector(store),
		assessor: riskAssessor,
		cfg:      cfg,
	}
}

// ValidateLead validates a lead record. The lead may be an unsaved candidate
// (dry run) or an already-persisted record; in the latter case its own id is
// excluded from duplicate matching and, with opts.Persist set, the outcome is
// written back. Write-back failures are logged but never discard the computed
// result.
func (s *ValidationService) ValidateLead(ctx context.Context, lead *models.Lead, opts ValidateOptions) *ValidationOutcome {
	fields := validation.FieldResults{
		Email:      validation.ValidateEmail(lead.Email, s.cfg),
		Phone:      validation.ValidatePhone(lead.Phone, s.cfg),
		Location:   validation.ValidateLocation(lead.ZipCode, lead.State, s.cfg),
		Name:       validation.ValidateName(lead.Name, s.cfg),
		CrossField: validation.ValidateCrossField(lead.Name, lead.Email),
	}

	duplicate := s.detector.Detect(ctx, lead.Email, lead.Phone, lead.Name, lead.ZipCode, lead.ID)

	var ai *validation.RiskAssessment
	if !opts.SkipAssessor && s.assessor != nil {
		result := s.assessor.Assess(ctx, assessor.LeadData{
			Name:          lead.Name,
			Email:         lead.Email,
			Phone:         lead.Phone,
			ZipCode:       lead.ZipCode,
			State:         lead.State,
			Address:       lead.Address,
			IPAddress:     lead.IPAddress,
			InsuranceType: lead.InsuranceType,
			Notes:         derefString(lead.Notes),
			Details:       lead.Details,
		})
		ai = &result
	}

	score := validation.ComposeScore(fields, duplicate, ai, s.cfg)
	outcome := &ValidationOutcome{
		Score:          score.Score,
		Assessment:     score.Assessment,
		Recommendation: score.Recommendation,
		Fields:         fields,
		Duplicate:      duplicate,
		AI:             ai,
		Issues:         validation.Issues(fields, duplicate, ai),
		ValidatedAt:    time.Now().UTC(),
	}

	if opts.Persist {
		s.persistOutcome(ctx, lead, outcome)
	}
	return outcome
}

// persistOutcome writes the validation result back to the lead and appends a
// log entry. Failures here are logged and swallowed so the caller still gets
// the computed score.
func (s *ValidationService) persistOutcome(ctx context.Context, lead *models.Lead, outcome *ValidationOutcome) {
	details := outcome.detailsJSON()

	updates := map[string]interface{}{
		"validation_score":   outcome.Score,
		"validation_details": details,
		"validated_at":       outcome.ValidatedAt,
	}
	if err := s.db.WithContext(ctx).Model(&models.Lead{}).
		Where("id = ?", lead.ID).Updates(updates).Error; err != nil {
		log.Printf("Error storing validation result for lead %s: %v", lead.ID, err)
	} else {
		score := outcome.Score
		lead.ValidationScore = &score
		lead.ValidationDetails = details
		validatedAt := outcome.ValidatedAt
		lead.ValidatedAt = &validatedAt
	}

	logEntry := &models.ValidationLog{
		LeadID:    &lead.ID,
		Email:     lead.Email,
		Phone:     lead.Phone,
		IPAddress: lead.IPAddress,
		Score:     outcome.Score,
		Results:   details,
	}
	if outcome.Recommendation == validation.RecommendationReject && len(outcome.Issues) > 0 {
		reason := strings.Join(outcome.Issues, ", ")
		if len(reason) > 255 {
			reason = reason[:255]
		}
		logEntry.RejectionReason = &reason
	}
	if err := s.db.WithContext(ctx).Create(logEntry).Error; err != nil {
		log.Printf("Error appending validation log for lead %s: %v", lead.ID, err)
	}
}

// detailsJSON flattens the outcome into the JSON blob stored on the lead
func (o *ValidationOutcome) detailsJSON() models.JSON {
	raw, err := json.Marshal(o)
	if err != nil {
		log.Printf("Error marshaling validation details: %v", err)
		return nil
	}
	var details models.JSON
	if err := json.Unmarshal(raw, &details); err != nil {
		log.Printf("Error building validation details: %v", err)
		return nil
	}
	return details
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
