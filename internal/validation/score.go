package validation

// Assessment tiers and recommendations
const (
	AssessmentLowRisk    = "Low Risk"
	AssessmentMediumRisk = "Medium Risk"
	AssessmentHighRisk   = "High Risk"

	RecommendationApprove = "Approve"
	RecommendationReview  = "Review"
	RecommendationReject  = "Reject"
)

// FieldResults bundles the per-field verdicts for one candidate lead
type FieldResults struct {
	Email      EmailResult      `json:"email"`
	Phone      PhoneResult      `json:"phone"`
	Location   LocationResult   `json:"location"`
	Name       NameResult       `json:"name"`
	CrossField CrossFieldResult `json:"cross_field"`
}

// RiskAssessment is the external assessor's verdict. Unavailable is set when
// the assessor could not be consulted and its neutral fallback applies.
type RiskAssessment struct {
	RiskScore   int      `json:"risk_score"`
	Assessment  string   `json:"assessment"`
	Confidence  int      `json:"confidence"`
	Issues      []string `json:"issues,omitempty"`
	Model       string   `json:"ai_model,omitempty"`
	Unavailable bool     `json:"unavailable,omitempty"`
}

// ScoreResult is the composed quality score with its tier and recommendation
type ScoreResult struct {
	Score          int    `json:"score"`
	Assessment     string `json:"assessment"`
	Recommendation string `json:"recommendation"`
}

// ComposeScore combines the field verdicts, duplicate result and optional AI
// assessment into one 0-100 quality score (hybrid multiplicative policy).
//
// The base quality is 100 minus the AI risk score when a usable assessment is
// present, otherwise the flat sum of the four field validators at
// cfg.FieldWeight points each. A duplicate scales the base down by a
// confidence-tiered multiplier with a floor; without a duplicate (and without
// an AI result) the policy degenerates to the flat-weight sum.
func ComposeScore(fields FieldResults, dup DuplicateResult, ai *RiskAssessment, cfg Config) ScoreResult {
	quality := 0
	if ai != nil && !ai.Unavailable && ai.Confidence > 0 {
		quality = clampScore(100 - ai.RiskScore)
	} else {
		if fields.Email.Valid {
			quality += cfg.FieldWeight
		}
		if fields.Phone.Valid {
			quality += cfg.FieldWeight
		}
		if fields.Location.Valid {
			quality += cfg.FieldWeight
		}
		if fields.Name.Valid {
			quality += cfg.FieldWeight
		}
	}

	if dup.IsDuplicate {
		switch {
		case dup.Confidence > 80:
			quality = maxInt(5, quality*10/100)
		case dup.Confidence >= 50:
			quality = maxInt(10, quality*25/100)
		default:
			quality = maxInt(20, quality*50/100)
		}
	}

	score := clampScore(quality)

	result := ScoreResult{Score: score}
	switch {
	case score >= cfg.LowRiskThreshold:
		result.Assessment = AssessmentLowRisk
		result.Recommendation = RecommendationApprove
	case score >= cfg.HighRiskThreshold:
		result.Assessment = AssessmentMediumRisk
		result.Recommendation = RecommendationReview
	default:
		result.Assessment = AssessmentHighRisk
		result.Recommendation = RecommendationReject
	}
	return result
}

// Issues collects every human-readable problem from the verdict set
func Issues(fields FieldResults, dup DuplicateResult, ai *RiskAssessment) []string {
	var issues []string
	add := func(issue string) {
		if issue == "" {
			return
		}
		for _, existing := range issues {
			if existing == issue {
				return
			}
		}
		issues = append(issues, issue)
	}

	if ai != nil {
		for _, issue := range ai.Issues {
			add(issue)
		}
	}
	if !fields.Email.Valid {
		add(fields.Email.Issue)
	}
	if !fields.Phone.Valid {
		add(fields.Phone.Issue)
	}
	if !fields.Location.Valid {
		add(fields.Location.Issue)
	}
	if !fields.Name.Valid {
		add(fields.Name.Issue)
	}
	if !fields.CrossField.Consistent {
		add(fields.CrossField.Issue)
	}
	if dup.IsDuplicate {
		add("Possible duplicate of an existing lead")
	}
	return issues
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
