package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/leads"
	"github.com/insuraloop/backend/internal/services/referral"
	"github.com/insuraloop/backend/internal/services/reward"
	"github.com/insuraloop/backend/internal/validation"
)

func setupCaptureTest(t *testing.T) (*gin.Engine, *gorm.DB, *models.ReferralLink) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ReferralLink{},
		&models.Lead{},
		&models.PaymentRate{},
		&models.ValidationLog{},
	))

	agent := &models.User{Email: "agent@example.com", Username: "agent1", PasswordHash: "x"}
	require.NoError(t, db.Create(agent).Error)
	link := &models.ReferralLink{
		UserID:        agent.ID,
		Code:          "promo-AB12CD34",
		Name:          "Promo",
		ReferralType:  models.ReferralTypeAgent,
		InsuranceType: models.InsuranceTypeAuto,
		Source:        models.SourceWebsite,
		IsActive:      true,
	}
	require.NoError(t, db.Create(link).Error)

	store := leads.NewLeadStore(db)
	rewardSvc := reward.NewService(db)
	leadSvc := leads.NewLeadService(db, store, rewardSvc)
	validationSvc := leads.NewValidationService(db, store, nil, validation.DefaultConfig())
	referralSvc := referral.NewService(db)

	leadHandler := NewLeadHandler(leadSvc, store, validationSvc, referralSvc, nil)
	validationHandler := NewValidationHandler(store, validationSvc)

	router := gin.New()
	router.POST("/api/leads/capture/:code", leadHandler.Capture)
	router.POST("/api/validation/validate", validationHandler.DryRun)

	return router, db, link
}

func TestCapture_CreatesValidatedLead(t *testing.T) {
	router, db, _ := setupCaptureTest(t)

	body, _ := json.Marshal(map[string]string{
		"name":     "Maria Gonzalez",
		"email":    "maria.gonzalez@example.com",
		"phone":    "2025551234",
		"zip_code": "22030",
		"state":    "VA",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads/capture/promo-AB12CD34", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Lead       models.Lead `json:"lead"`
		Validation struct {
			Score          int    `json:"score"`
			Recommendation string `json:"recommendation"`
		} `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Validation.Score)
	assert.Equal(t, validation.RecommendationApprove, resp.Validation.Recommendation)

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", resp.Lead.ID).Error)
	require.NotNil(t, stored.ValidationScore)
	assert.Equal(t, 100, *stored.ValidationScore)
	require.NotNil(t, stored.AgentID)
}

func TestCapture_UnknownCode(t *testing.T) {
	router, _, _ := setupCaptureTest(t)

	body, _ := json.Marshal(map[string]string{
		"name":  "Maria Gonzalez",
		"email": "maria.gonzalez@example.com",
		"phone": "2025551234",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads/capture/nope", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCapture_MissingRequiredFields(t *testing.T) {
	router, _, _ := setupCaptureTest(t)

	body, _ := json.Marshal(map[string]string{"name": "Maria Gonzalez"})
	req := httptest.NewRequest(http.MethodPost, "/api/leads/capture/promo-AB12CD34", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDryRun_DoesNotPersist(t *testing.T) {
	router, db, _ := setupCaptureTest(t)

	body, _ := json.Marshal(map[string]string{
		"name":  "Jane Doe",
		"email": "test@mailinator.com",
		"phone": "1234567890",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/validation/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Score          int    `json:"score"`
		Recommendation string `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, validation.RecommendationReject, resp.Recommendation)

	var leadCount int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&leadCount).Error)
	assert.Equal(t, int64(0), leadCount)
}
