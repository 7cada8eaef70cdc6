package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/queue"
	"github.com/insuraloop/backend/internal/services/leads"
)

const revalidationWindow = 24 * time.Hour

// RevalidationJob sweeps recent leads that never got a validation score,
// usually because the scorer was unavailable at capture time
type RevalidationJob struct {
	db            *gorm.DB
	validationSvc *leads.ValidationService
}

// NewRevalidationJob creates a new revalidation job handler
func NewRevalidationJob(db *gorm.DB, validationSvc *leads.ValidationService) *RevalidationJob {
	return &RevalidationJob{db: db, validationSvc: validationSvc}
}

// Handle runs one sweep over unvalidated recent leads
func (j *RevalidationJob) Handle(ctx context.Context, job queue.Job) (interface{}, error) {
	cutoff := time.Now().Add(-revalidationWindow)

	var pending []models.Lead
	err := j.db.WithContext(ctx).
		Where("validation_score IS NULL AND status = ? AND created_at > ?", models.LeadStatusNew, cutoff).
		Limit(100).
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unvalidated leads: %w", err)
	}

	validated := 0
	for i := range pending {
		lead := &pending[i]
		outcome := j.validationSvc.ValidateLead(ctx, lead, leads.ValidateOptions{Persist: true})
		log.Printf("Revalidated lead %s: score=%d recommendation=%s", lead.ID, outcome.Score, outcome.Recommendation)
		validated++
	}

	return map[string]int{"validated": validated}, nil
}
