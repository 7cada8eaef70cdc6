package leads

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/reward"
)

// CaptureInput is the raw submission from a public lead form
type CaptureInput struct {
	Name          string                 `json:"name" binding:"required"`
	Email         string                 `json:"email" binding:"required"`
	Phone         string                 `json:"phone" binding:"required"`
	Address       string                 `json:"address"`
	ZipCode       string                 `json:"zip_code"`
	State         string                 `json:"state"`
	InsuranceType string                 `json:"insurance_type"`
	Notes         string                 `json:"notes"`
	Details       map[string]interface{} `json:"details"`
	IPAddress     string                 `json:"-"`
	UserAgent     string                 `json:"-"`
}

// LeadService owns lead intake and lifecycle transitions
type LeadService struct {
	db      *gorm.DB
	store   *LeadStore
	rewards *reward.Service
}

// NewLeadService creates a new lead service
func NewLeadService(db *gorm.DB, store *LeadStore, rewards *reward.Service) *LeadService {
	return &LeadService{db: db, store: store, rewards: rewards}
}

// Capture stores a lead submitted through a referral link, attributing it to
// the link's owner and fixing the reward amount at capture time so later rate
// changes do not move already-promised payouts
func (s *LeadService) Capture(ctx context.Context, link *models.ReferralLink, input CaptureInput) (*models.Lead, error) {
	if link == nil {
		return nil, fmt.Errorf("referral link is required")
	}
	if !link.IsActive {
		return nil, fmt.Errorf("referral link %s is inactive", link.Code)
	}

	insuranceType := strings.TrimSpace(input.InsuranceType)
	if insuranceType == "" {
		insuranceType = link.InsuranceType
	}

	rate := s.rewards.RateFor(ctx, input.State, insuranceType)

	lead := &models.Lead{
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		ZipCode:        strings.TrimSpace(input.ZipCode),
		State:          strings.ToUpper(strings.TrimSpace(input.State)),
		InsuranceType:  insuranceType,
		Status:         models.LeadStatusNew,
		IPAddress:      input.IPAddress,
		UserAgent:      input.UserAgent,
		ReferralLinkID: &link.ID,
		AgentID:        &link.UserID,
		RewardAmount:   &rate,
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		lead.Notes = &notes
	}
	if input.Details != nil {
		lead.Details = models.JSON(input.Details)
	}

	if err := s.store.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to save lead: %w", err)
	}
	return lead, nil
}

// UpdateStatus moves a lead to a new lifecycle status. Reward accounting
// for converted leads runs in a background job.
func (s *LeadService) UpdateStatus(ctx context.Context, lead *models.Lead, status string) error {
	if !models.ValidLeadStatus(status) {
		return fmt.Errorf("invalid lead status: %s", status)
	}
	if lead.Status == status {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Lead{}).
		Where("id = ?", lead.ID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	lead.Status = status
	return nil
}
