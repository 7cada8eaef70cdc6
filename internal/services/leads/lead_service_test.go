package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/reward"
)

func seedAgentAndLink(t *testing.T, db *gorm.DB) (*models.User, *models.ReferralLink) {
	agent := &models.User{
		Email:        "agent@example.com",
		Username:     "agent1",
		FirstName:    "Ana",
		LastName:     "Torres",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(agent).Error)

	link := &models.ReferralLink{
		UserID:        agent.ID,
		Code:          "spring-promo-AB12CD34",
		Name:          "Spring Promo",
		ReferralType:  models.ReferralTypeAgent,
		InsuranceType: models.InsuranceTypeAuto,
		Source:        models.SourceWebsite,
		IsActive:      true,
	}
	require.NoError(t, db.Create(link).Error)

	return agent, link
}

func TestCapture_AttributesLeadToAgent(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db)
	svc := NewLeadService(db, store, reward.NewService(db))

	agent, link := seedAgentAndLink(t, db)

	// CA auto rate overrides the nationwide default
	require.NoError(t, db.Create(&models.PaymentRate{
		State: "CA", InsuranceType: models.InsuranceTypeAuto, RateAmount: 35.00,
	}).Error)

	lead, err := svc.Capture(context.Background(), link, CaptureInput{
		Name:      "Maria Gonzalez",
		Email:     "Maria.Gonzalez@Example.com",
		Phone:     "2025551234",
		ZipCode:   "90210",
		State:     "ca",
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)

	require.NotNil(t, lead.AgentID)
	assert.Equal(t, agent.ID, *lead.AgentID)
	require.NotNil(t, lead.ReferralLinkID)
	assert.Equal(t, link.ID, *lead.ReferralLinkID)
	assert.Equal(t, "maria.gonzalez@example.com", lead.Email)
	assert.Equal(t, "CA", lead.State)
	assert.Equal(t, models.InsuranceTypeAuto, lead.InsuranceType)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	require.NotNil(t, lead.RewardAmount)
	assert.Equal(t, 35.00, *lead.RewardAmount)

	var stored models.Lead
	require.NoError(t, db.Preload("ReferralLink").First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, "2025551234", stored.PhoneDigits)

	// Source attribution lives on the link, reachable through the association
	require.NotNil(t, stored.ReferralLink)
	assert.Equal(t, models.SourceWebsite, stored.ReferralLink.Source)
}

func TestCapture_InheritsInsuranceTypeFromLink(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db)
	svc := NewLeadService(db, store, reward.NewService(db))

	_, link := seedAgentAndLink(t, db)

	lead, err := svc.Capture(context.Background(), link, CaptureInput{
		Name:  "Maria Gonzalez",
		Email: "maria.gonzalez@example.com",
		Phone: "2025551234",
	})
	require.NoError(t, err)
	assert.Equal(t, link.InsuranceType, lead.InsuranceType)
}

func TestCapture_RejectsInactiveLink(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db)
	svc := NewLeadService(db, store, reward.NewService(db))

	_, link := seedAgentAndLink(t, db)
	require.NoError(t, db.Model(link).Update("is_active", false).Error)
	link.IsActive = false

	_, err := svc.Capture(context.Background(), link, CaptureInput{
		Name:  "Maria Gonzalez",
		Email: "maria.gonzalez@example.com",
		Phone: "2025551234",
	})
	assert.Error(t, err)
}

func TestUpdateStatus(t *testing.T) {
	db := testDB(t)
	store := NewLeadStore(db)
	svc := NewLeadService(db, store, reward.NewService(db))

	lead := goodLead()
	require.NoError(t, store.Create(context.Background(), lead))

	require.NoError(t, svc.UpdateStatus(context.Background(), lead, models.LeadStatusContacted))
	assert.Equal(t, models.LeadStatusContacted, lead.Status)

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, models.LeadStatusContacted, stored.Status)

	assert.Error(t, svc.UpdateStatus(context.Background(), lead, "bogus"))
}
