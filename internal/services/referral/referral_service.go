package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/utils"
)

const codeAttempts = 5

// CreateLinkInput carries the fields an agent supplies for a new link
type CreateLinkInput struct {
	Name          string  `json:"name" binding:"required"`
	ReferralType  string  `json:"referral_type" binding:"required"`
	PartnerName   *string `json:"partner_name"`
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
	InsuranceType string  `json:"insurance_type"`
	Source        string  `json:"source"`
	Notes         string  `json:"notes"`
}

// LinkStats summarizes lead outcomes for a single referral link
type LinkStats struct {
	LinkID         uuid.UUID `json:"link_id"`
	Code           string    `json:"code"`
	Clicks         int       `json:"clicks"`
	TotalLeads     int64     `json:"total_leads"`
	NewLeads       int64     `json:"new_leads"`
	Contacted      int64     `json:"contacted"`
	Quoted         int64     `json:"quoted"`
	Converted      int64     `json:"converted"`
	Closed         int64     `json:"closed"`
	ConversionRate float64   `json:"conversion_rate"`
	RewardsEarned  float64   `json:"rewards_earned"`
}

// Service manages referral links and their statistics
type Service struct {
	db *gorm.DB
}

// NewService creates a new referral service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateLink creates a referral link for an agent with a unique shareable code
func (s *Service) CreateLink(ctx context.Context, userID uuid.UUID, input CreateLinkInput) (*models.ReferralLink, error) {
	if !models.ValidReferralType(input.ReferralType) {
		return nil, fmt.Errorf("invalid referral type: %s", input.ReferralType)
	}
	insuranceType := input.InsuranceType
	if insuranceType == "" {
		insuranceType = models.InsuranceTypeOther
	}
	source := input.Source
	if source == "" {
		source = models.SourceWebsite
	}

	link := &models.ReferralLink{
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		ReferralType:  input.ReferralType,
		PartnerName:   input.PartnerName,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		InsuranceType: insuranceType,
		Source:        source,
		IsActive:      true,
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		link.Notes = &notes
	}

	prefix := slug.Make(link.Name)
	if len(prefix) > 20 {
		prefix = prefix[:20]
	}

	var lastErr error
	for i := 0; i < codeAttempts; i++ {
		code := utils.GenerateReferralCode(8)
		if prefix != "" {
			code = prefix + "-" + code
		}
		link.Code = code
		err := s.db.WithContext(ctx).Create(link).Error
		if err == nil {
			return link, nil
		}
		lastErr = err
		link.ID = uuid.Nil
	}
	return nil, fmt.Errorf("failed to create referral link: %w", lastErr)
}

// GetByCode fetches a link by its shareable code
func (s *Service) GetByCode(ctx context.Context, code string) (*models.ReferralLink, error) {
	var link models.ReferralLink
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("referral link not found: %s", code)
		}
		return nil, fmt.Errorf("failed to get referral link: %w", err)
	}
	return &link, nil
}

// GetByID fetches a link owned by nobody in particular; callers enforce ownership
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ReferralLink, error) {
	var link models.ReferralLink
	err := s.db.WithContext(ctx).First(&link, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("referral link not found")
		}
		return nil, fmt.Errorf("failed to get referral link: %w", err)
	}
	return &link, nil
}

// ListByUser returns an agent's links, newest first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReferralLink, error) {
	var links []models.ReferralLink
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list referral links: %w", err)
	}
	return links, nil
}

// Update applies partial edits to a link
func (s *Service) Update(ctx context.Context, link *models.ReferralLink, fields map[string]interface{}) error {
	if err := s.db.WithContext(ctx).Model(link).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update referral link: %w", err)
	}
	return nil
}

// Deactivate soft-disables a link so its public page and capture endpoint stop working
func (s *Service) Deactivate(ctx context.Context, link *models.ReferralLink) error {
	return s.Update(ctx, link, map[string]interface{}{"is_active": false})
}

// TrackClick counts a visit to an active link's landing page
func (s *Service) TrackClick(ctx context.Context, code string) (*models.ReferralLink, error) {
	link, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !link.IsActive {
		return nil, fmt.Errorf("referral link %s is inactive", code)
	}
	if err := s.db.WithContext(ctx).Model(link).
		UpdateColumn("clicks", gorm.Expr("clicks + 1")).Error; err != nil {
		return nil, fmt.Errorf("failed to track click: %w", err)
	}
	link.Clicks++
	return link, nil
}

// Stats aggregates lead outcomes and rewards for one link
func (s *Service) Stats(ctx context.Context, link *models.ReferralLink) (*LinkStats, error) {
	stats := &LinkStats{LinkID: link.ID, Code: link.Code, Clicks: link.Clicks}

	counts := []struct {
		status string
		target *int64
	}{
		{models.LeadStatusNew, &stats.NewLeads},
		{models.LeadStatusContacted, &stats.Contacted},
		{models.LeadStatusQuoted, &stats.Quoted},
		{models.LeadStatusConverted, &stats.Converted},
		{models.LeadStatusClosed, &stats.Closed},
	}
	for _, c := range counts {
		err := s.db.WithContext(ctx).Model(&models.Lead{}).
			Where("referral_link_id = ? AND status = ?", link.ID, c.status).
			Count(c.target).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count leads: %w", err)
		}
	}
	stats.TotalLeads = stats.NewLeads + stats.Contacted + stats.Quoted + stats.Converted + stats.Closed
	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(stats.Converted) / float64(stats.TotalLeads) * 100
	}

	var rewards *float64
	err := s.db.WithContext(ctx).Model(&models.Lead{}).
		Where("referral_link_id = ? AND reward_sent = ?", link.ID, true).
		Select("SUM(reward_amount)").
		Scan(&rewards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum rewards: %w", err)
	}
	if rewards != nil {
		stats.RewardsEarned = *rewards
	}
	return stats, nil
}
