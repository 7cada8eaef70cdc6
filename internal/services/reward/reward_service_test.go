package reward

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/insuraloop/backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.ReferralLink{},
		&models.Lead{},
		&models.PaymentRate{},
	)
	require.NoError(t, err)

	return db
}

func TestRateFor_StateOverridesNationwide(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.PaymentRate{
		State: "", InsuranceType: models.InsuranceTypeAuto, RateAmount: 25.00,
	}).Error)
	require.NoError(t, db.Create(&models.PaymentRate{
		State: "CA", InsuranceType: models.InsuranceTypeAuto, RateAmount: 35.00,
	}).Error)

	assert.Equal(t, 35.00, svc.RateFor(ctx, "CA", models.InsuranceTypeAuto))
	assert.Equal(t, 35.00, svc.RateFor(ctx, "ca", models.InsuranceTypeAuto))
	assert.Equal(t, 25.00, svc.RateFor(ctx, "TX", models.InsuranceTypeAuto))
	assert.Equal(t, 25.00, svc.RateFor(ctx, "", models.InsuranceTypeAuto))
}

func TestRateFor_BuiltinDefaults(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	// No rows configured at all
	assert.Equal(t, 30.00, svc.RateFor(ctx, "NY", models.InsuranceTypeHome))
	assert.Equal(t, 20.00, svc.RateFor(ctx, "", "unknown-type"))
}

func TestSeedDefaultRates(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaultRates(ctx))

	var count int64
	require.NoError(t, db.Model(&models.PaymentRate{}).Count(&count).Error)
	assert.Equal(t, int64(14), count)

	// Seeding twice updates in place instead of duplicating
	require.NoError(t, svc.SeedDefaultRates(ctx))
	require.NoError(t, db.Model(&models.PaymentRate{}).Count(&count).Error)
	assert.Equal(t, int64(14), count)

	assert.Equal(t, 45.00, svc.RateFor(ctx, "CA", models.InsuranceTypeBusiness))
}

func TestAccrueForConversion(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	agent := &models.User{Email: "agent@example.com", Username: "agent1", PasswordHash: "x"}
	require.NoError(t, db.Create(agent).Error)

	link := &models.ReferralLink{
		UserID:        agent.ID,
		Code:          "promo-XYZ",
		Name:          "Promo",
		ReferralType:  models.ReferralTypeAgent,
		InsuranceType: models.InsuranceTypeAuto,
		Source:        models.SourceWebsite,
		IsActive:      true,
	}
	require.NoError(t, db.Create(link).Error)

	amount := 28.00
	lead := &models.Lead{
		Name:           "Maria Gonzalez",
		Email:          "maria.gonzalez@example.com",
		Phone:          "2025551234",
		InsuranceType:  models.InsuranceTypeAuto,
		Status:         models.LeadStatusConverted,
		ReferralLinkID: &link.ID,
		AgentID:        &agent.ID,
		RewardAmount:   &amount,
	}
	require.NoError(t, db.Create(lead).Error)

	require.NoError(t, svc.AccrueForConversion(ctx, lead.ID))

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.True(t, stored.RewardSent)
	require.NotNil(t, stored.RewardAmount)
	assert.Equal(t, 28.00, *stored.RewardAmount)

	var storedLink models.ReferralLink
	require.NoError(t, db.First(&storedLink, "id = ?", link.ID).Error)
	assert.Equal(t, 1, storedLink.Conversions)

	// Retrying the job must not pay twice
	require.NoError(t, svc.AccrueForConversion(ctx, lead.ID))
	require.NoError(t, db.First(&storedLink, "id = ?", link.ID).Error)
	assert.Equal(t, 1, storedLink.Conversions)
}

func TestAccrueForConversion_FixesRateWhenUnset(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	agent := &models.User{Email: "agent@example.com", Username: "agent1", PasswordHash: "x"}
	require.NoError(t, db.Create(agent).Error)

	require.NoError(t, db.Create(&models.PaymentRate{
		State: "CA", InsuranceType: models.InsuranceTypeAuto, RateAmount: 35.00,
	}).Error)

	lead := &models.Lead{
		Name:          "Maria Gonzalez",
		Email:         "maria.gonzalez@example.com",
		Phone:         "2025551234",
		State:         "CA",
		InsuranceType: models.InsuranceTypeAuto,
		Status:        models.LeadStatusConverted,
		AgentID:       &agent.ID,
	}
	require.NoError(t, db.Create(lead).Error)

	require.NoError(t, svc.AccrueForConversion(ctx, lead.ID))

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.True(t, stored.RewardSent)
	require.NotNil(t, stored.RewardAmount)
	assert.Equal(t, 35.00, *stored.RewardAmount)
}

func TestAccrueForConversion_RequiresConvertedStatus(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	lead := &models.Lead{
		Name:   "Maria Gonzalez",
		Email:  "maria.gonzalez@example.com",
		Phone:  "2025551234",
		Status: models.LeadStatusNew,
	}
	require.NoError(t, db.Create(lead).Error)

	assert.Error(t, svc.AccrueForConversion(context.Background(), lead.ID))
}
