package referral

import (
	"context"
	"strings"
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
	)
	require.NoError(t, err)

	return db
}

func seedAgent(t *testing.T, db *gorm.DB) *models.User {
	agent := &models.User{Email: "agent@example.com", Username: "agent1", PasswordHash: "x"}
	require.NoError(t, db.Create(agent).Error)
	return agent
}

func TestCreateLink(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	agent := seedAgent(t, db)

	link, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name:         "Spring Auto Promo",
		ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link.Code, "spring-auto-promo-"))
	assert.True(t, link.IsActive)
	assert.Equal(t, agent.ID, link.UserID)
	assert.Equal(t, models.InsuranceTypeOther, link.InsuranceType)
	assert.Equal(t, models.SourceWebsite, link.Source)

	// Codes are unique even for identical names
	other, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name:         "Spring Auto Promo",
		ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)
	assert.NotEqual(t, link.Code, other.Code)
}

func TestCreateLink_RejectsUnknownType(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	agent := seedAgent(t, db)

	_, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name:         "Bad",
		ReferralType: "friend-of-a-friend",
	})
	assert.Error(t, err)
}

func TestTrackClick(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	agent := seedAgent(t, db)

	link, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name:         "Promo",
		ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)

	visited, err := svc.TrackClick(context.Background(), link.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, visited.Clicks)

	_, err = svc.TrackClick(context.Background(), link.Code)
	require.NoError(t, err)

	var stored models.ReferralLink
	require.NoError(t, db.First(&stored, "id = ?", link.ID).Error)
	assert.Equal(t, 2, stored.Clicks)
}

func TestTrackClick_InactiveLink(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	agent := seedAgent(t, db)

	link, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name:         "Old Promo",
		ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), link))

	_, err = svc.TrackClick(context.Background(), link.Code)
	assert.Error(t, err)

	_, err = svc.TrackClick(context.Background(), "no-such-code")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	agent := seedAgent(t, db)

	link, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name:         "Promo",
		ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)

	reward := 25.00
	statuses := []string{
		models.LeadStatusNew,
		models.LeadStatusNew,
		models.LeadStatusContacted,
		models.LeadStatusQuoted,
		models.LeadStatusConverted,
		models.LeadStatusClosed,
	}
	for i, status := range statuses {
		lead := &models.Lead{
			Name:           "Maria Gonzalez",
			Email:          "maria.gonzalez@example.com",
			Phone:          "2025551234",
			Status:         status,
			ReferralLinkID: &link.ID,
			AgentID:        &agent.ID,
		}
		if status == models.LeadStatusConverted {
			lead.RewardAmount = &reward
			lead.RewardSent = true
		}
		require.NoError(t, db.Create(lead).Error, "lead %d", i)
	}

	stats, err := svc.Stats(context.Background(), link)
	require.NoError(t, err)

	assert.Equal(t, int64(6), stats.TotalLeads)
	assert.Equal(t, int64(2), stats.NewLeads)
	assert.Equal(t, int64(1), stats.Contacted)
	assert.Equal(t, int64(1), stats.Quoted)
	assert.Equal(t, int64(1), stats.Converted)
	assert.Equal(t, int64(1), stats.Closed)
	assert.InDelta(t, 100.0/6.0, stats.ConversionRate, 0.01)
	assert.Equal(t, 25.00, stats.RewardsEarned)
}

func TestListByUser(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	agent := seedAgent(t, db)
	other := &models.User{Email: "other@example.com", Username: "other1", PasswordHash: "x"}
	require.NoError(t, db.Create(other).Error)

	_, err := svc.CreateLink(context.Background(), agent.ID, CreateLinkInput{
		Name: "Mine", ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)
	_, err = svc.CreateLink(context.Background(), other.ID, CreateLinkInput{
		Name: "Theirs", ReferralType: models.ReferralTypeAgent,
	})
	require.NoError(t, err)

	links, err := svc.ListByUser(context.Background(), agent.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Mine", links[0].Name)
}
