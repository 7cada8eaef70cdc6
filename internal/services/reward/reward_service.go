package reward

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
)

// defaultRates is the nationwide fallback when no PaymentRate row exists yet
var defaultRates = map[string]float64{
	models.InsuranceTypeAuto:     25.00,
	models.InsuranceTypeHome:     30.00,
	models.InsuranceTypeLife:     20.00,
	models.InsuranceTypeHealth:   22.00,
	models.InsuranceTypeBusiness: 35.00,
	models.InsuranceTypeOther:    20.00,
}

// Service handles referral payment-rate lookup and reward accounting
type Service struct {
	db *gorm.DB
}

// NewService creates a new reward service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RateFor returns the reward amount for a (state, insurance type) pair.
// A state-specific rate overrides the nationwide row (empty state); with
// neither configured the built-in default for the insurance type applies.
func (s *Service) RateFor(ctx context.Context, state, insuranceType string) float64 {
	return rateFor(s.db.WithContext(ctx), state, insuranceType)
}

func rateFor(db *gorm.DB, state, insuranceType string) float64 {
	state = strings.ToUpper(strings.TrimSpace(state))

	var rate models.PaymentRate
	if state != "" {
		err := db.Where("state = ? AND insurance_type = ?", state, insuranceType).
			First(&rate).Error
		if err == nil {
			return rate.RateAmount
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: payment rate lookup failed: %v", err)
		}
	}

	err := db.Where("state = ? AND insurance_type = ?", "", insuranceType).
		First(&rate).Error
	if err == nil {
		return rate.RateAmount
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Warning: payment rate lookup failed: %v", err)
	}

	if amount, ok := defaultRates[insuranceType]; ok {
		return amount
	}
	return defaultRates[models.InsuranceTypeOther]
}

// AccrueForConversion records the reward for a converted lead: the reward
// amount is fixed if it was never set, the lead is marked paid-out and the
// originating link's conversion counter advances
func (s *Service) AccrueForConversion(ctx context.Context, leadID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := tx.First(&lead, "id = ?", leadID).Error; err != nil {
			return fmt.Errorf("failed to get lead for reward: %w", err)
		}
		if lead.Status != models.LeadStatusConverted {
			return fmt.Errorf("lead %s is not converted (status %s)", leadID, lead.Status)
		}
		if lead.RewardSent {
			// Already accounted; the job may be retried safely
			return nil
		}

		amount := lead.RewardAmount
		if amount == nil {
			value := rateFor(tx, lead.State, lead.InsuranceType)
			amount = &value
		}

		if err := tx.Model(&models.Lead{}).Where("id = ?", lead.ID).Updates(map[string]interface{}{
			"reward_amount": *amount,
			"reward_sent":   true,
		}).Error; err != nil {
			return fmt.Errorf("failed to record reward: %w", err)
		}

		if lead.ReferralLinkID != nil {
			if err := tx.Model(&models.ReferralLink{}).
				Where("id = ?", *lead.ReferralLinkID).
				UpdateColumn("conversions", gorm.Expr("conversions + 1")).Error; err != nil {
				return fmt.Errorf("failed to count conversion: %w", err)
			}
		}
		return nil
	})
}

// SeedDefaultRates installs the nationwide and state-specific payment rates,
// updating any row that already exists
func (s *Service) SeedDefaultRates(ctx context.Context) error {
	type seed struct {
		state         string
		insuranceType string
		amount        float64
	}
	seeds := []seed{
		{"", models.InsuranceTypeAuto, 25.00},
		{"", models.InsuranceTypeHome, 30.00},
		{"", models.InsuranceTypeLife, 20.00},
		{"", models.InsuranceTypeHealth, 22.00},
		{"", models.InsuranceTypeBusiness, 35.00},
		{"", models.InsuranceTypeOther, 20.00},
		{"CA", models.InsuranceTypeAuto, 35.00},
		{"CA", models.InsuranceTypeHome, 40.00},
		{"CA", models.InsuranceTypeBusiness, 45.00},
		{"NY", models.InsuranceTypeAuto, 30.00},
		{"NY", models.InsuranceTypeHome, 35.00},
		{"TX", models.InsuranceTypeAuto, 28.00},
		{"FL", models.InsuranceTypeAuto, 30.00},
		{"FL", models.InsuranceTypeHome, 32.00},
	}

	for _, item := range seeds {
		var rate models.PaymentRate
		err := s.db.WithContext(ctx).
			Where("state = ? AND insurance_type = ?", item.state, item.insuranceType).
			First(&rate).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rate = models.PaymentRate{
				State:         item.state,
				InsuranceType: item.insuranceType,
				RateAmount:    item.amount,
			}
			if err := s.db.WithContext(ctx).Create(&rate).Error; err != nil {
				return fmt.Errorf("failed to seed payment rate: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to check payment rate: %w", err)
		default:
			if err := s.db.WithContext(ctx).Model(&rate).
				Update("rate_amount", item.amount).Error; err != nil {
				return fmt.Errorf("failed to update payment rate: %w", err)
			}
		}
	}
	return nil
}
