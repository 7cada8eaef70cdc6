package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral link attribution types
const (
	ReferralTypeAgent    = "agent"
	ReferralTypeBusiness = "business"
	ReferralTypeCustomer = "customer"
)

// Insurance types offered on lead-capture forms
const (
	InsuranceTypeAuto     = "auto"
	InsuranceTypeHome     = "home"
	InsuranceTypeLife     = "life"
	InsuranceTypeHealth   = "health"
	InsuranceTypeBusiness = "business"
	InsuranceTypeOther    = "other"
)

// Traffic sources a referral link can be shared through
const (
	SourceWebsite = "website"
	SourceEmail   = "email"
	SourceSocial  = "social"
	SourcePartner = "partner"
	SourcePrint   = "print"
	SourceOther   = "other"
)

// ValidReferralType reports whether s is a recognized referral type
func ValidReferralType(s string) bool {
	switch s {
	case ReferralTypeAgent, ReferralTypeBusiness, ReferralTypeCustomer:
		return true
	}
	return false
}

// ReferralLink is a shareable per-agent code used to attribute leads
type ReferralLink struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"-"`
	Code          string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name          string         `gorm:"type:varchar(100);not null;default:'My Referral Link'" json:"name"`
	ReferralType  string         `gorm:"type:varchar(20);not null;default:'agent'" json:"referral_type"`
	PartnerName   *string        `gorm:"type:varchar(100)" json:"partner_name,omitempty"`
	CustomerName  *string        `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	CustomerEmail *string        `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	InsuranceType string         `gorm:"type:varchar(50);not null;default:'auto'" json:"insurance_type"`
	Source        string         `gorm:"type:varchar(50);not null;default:'website'" json:"source"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	Clicks        int            `gorm:"default:0" json:"clicks"`
	Conversions   int            `gorm:"default:0" json:"conversions"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (l *ReferralLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PaymentRate maps (state, insurance type) to the referral reward amount.
// An empty state is the nationwide default; state rows override it.
type PaymentRate struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	State         string         `gorm:"type:varchar(2);index:idx_rate_state_type,unique" json:"state"`
	InsuranceType string         `gorm:"type:varchar(50);not null;index:idx_rate_state_type,unique" json:"insurance_type"`
	RateAmount    float64        `gorm:"type:decimal(10,2);not null" json:"rate_amount"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (r *PaymentRate) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
