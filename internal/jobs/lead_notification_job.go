package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/queue"
	"github.com/insuraloop/backend/internal/services/email"
)

// LeadNotificationPayload identifies the lead to notify the owning agent about
type LeadNotificationPayload struct {
	LeadID uuid.UUID `json:"lead_id"`
}

// LeadNotificationJob emails agents when a new lead comes in through their link
type LeadNotificationJob struct {
	db       *gorm.DB
	emailSvc *email.EmailService
}

// NewLeadNotificationJob creates a new lead notification job handler
func NewLeadNotificationJob(db *gorm.DB, emailSvc *email.EmailService) *LeadNotificationJob {
	return &LeadNotificationJob{db: db, emailSvc: emailSvc}
}

// Handle processes a lead notification job
func (j *LeadNotificationJob) Handle(ctx context.Context, job queue.Job) (interface{}, error) {
	var payload LeadNotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lead notification payload: %w", err)
	}

	var lead models.Lead
	if err := j.db.WithContext(ctx).First(&lead, "id = ?", payload.LeadID).Error; err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.AgentID == nil {
		log.Printf("Lead %s has no agent attached, skipping notification", lead.ID)
		return nil, nil
	}

	var agent models.User
	if err := j.db.WithContext(ctx).First(&agent, "id = ?", *lead.AgentID).Error; err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	linkName := "direct"
	if lead.ReferralLinkID != nil {
		var link models.ReferralLink
		if err := j.db.WithContext(ctx).First(&link, "id = ?", *lead.ReferralLinkID).Error; err == nil {
			linkName = link.Name
		}
	}

	if err := j.emailSvc.SendLeadNotification(&agent, &lead, linkName); err != nil {
		return nil, fmt.Errorf("failed to send lead notification: %w", err)
	}

	log.Printf("Sent lead notification for lead %s to %s", lead.ID, agent.Email)
	return map[string]string{"notified": agent.Email}, nil
}
