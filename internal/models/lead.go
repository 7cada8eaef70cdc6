package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead status lifecycle
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"
)

// Lead is a form submission representing a potential insurance customer
type Lead struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"type:varchar(100);not null" json:"name"`
	Email string    `gorm:"type:varchar(255);index" json:"email"`
	Phone string    `gorm:"type:varchar(20)" json:"phone"`

	// PhoneDigits is the normalized last-10-digit form of Phone, maintained
	// on save so duplicate detection can match on an indexed equality lookup.
	PhoneDigits string `gorm:"type:varchar(10);index" json:"-"`

	Address string `gorm:"type:varchar(255)" json:"address"`
	ZipCode string `gorm:"type:varchar(10);index" json:"zip_code"`
	State   string `gorm:"type:varchar(2)" json:"state"`

	InsuranceType string  `gorm:"type:varchar(20);not null" json:"insurance_type"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`

	// Type-specific detail fields (vehicle, property or business data)
	// keyed by the capture form's field names.
	Details JSON `gorm:"type:jsonb" json:"details,omitempty"`

	IPAddress string `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string `gorm:"type:text" json:"user_agent"`

	ReferralLinkID *uuid.UUID    `gorm:"type:uuid;index" json:"referral_link_id,omitempty"`
	ReferralLink   *ReferralLink `gorm:"foreignKey:ReferralLinkID" json:"-"`
	AgentID        *uuid.UUID    `gorm:"type:uuid;index" json:"agent_id,omitempty"`
	Agent          *User         `gorm:"foreignKey:AgentID" json:"-"`

	Status string `gorm:"type:varchar(20);not null;default:'new'" json:"status"`

	RewardAmount *float64 `gorm:"type:decimal(10,2)" json:"reward_amount,omitempty"`
	RewardSent   bool     `gorm:"default:false" json:"reward_sent"`

	ValidationScore   *int       `json:"validation_score,omitempty"`
	ValidationDetails JSON       `gorm:"type:jsonb" json:"validation_details,omitempty"`
	ValidatedAt       *time.Time `json:"validated_at,omitempty"`

	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the normalized phone digits in sync with the raw phone
func (l *Lead) BeforeSave(tx *gorm.DB) error {
	var b []byte
	for i := 0; i < len(l.Phone); i++ {
		if l.Phone[i] >= '0' && l.Phone[i] <= '9' {
			b = append(b, l.Phone[i])
		}
	}
	if len(b) > 10 {
		b = b[len(b)-10:]
	}
	l.PhoneDigits = string(b)
	return nil
}

// ValidLeadStatus reports whether s is a known lead status
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQuoted, LeadStatusConverted, LeadStatusClosed:
		return true
	}
	return false
}

// ValidationLog is an append-only record of a validation run
type ValidationLog struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	LeadID          *uuid.UUID `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	Email           string     `gorm:"type:varchar(255)" json:"email"`
	Phone           string     `gorm:"type:varchar(20)" json:"phone"`
	IPAddress       string     `gorm:"type:varchar(45)" json:"ip_address"`
	Score           int        `gorm:"default:0" json:"score"`
	Results         JSON       `gorm:"type:jsonb" json:"results,omitempty"`
	RejectionReason *string    `gorm:"type:varchar(255)" json:"rejection_reason,omitempty"`
	ValidatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"validated_at"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (v *ValidationLog) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
