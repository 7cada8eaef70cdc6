package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/reward"
)

// AdminHandler serves admin-only views over validation history and payment rates
type AdminHandler struct {
	db        *gorm.DB
	rewardSvc *reward.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, rewardSvc *reward.Service) *AdminHandler {
	return &AdminHandler{db: db, rewardSvc: rewardSvc}
}

// PaymentRateRequest represents an upsert of one payment rate
type PaymentRateRequest struct {
	State         string  `json:"state"`
	InsuranceType string  `json:"insurance_type" binding:"required"`
	RateAmount    float64 `json:"rate_amount" binding:"required"`
}

// ListValidationLogs returns the validation audit trail, newest first
func (h *AdminHandler) ListValidationLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	query := h.db.Model(&models.ValidationLog{}).Order("validated_at DESC")
	if leadID := c.Query("lead_id"); leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count validation logs"})
		return
	}

	var logs []models.ValidationLog
	if err := query.Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list validation logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListPaymentRates returns all configured payment rates
func (h *AdminHandler) ListPaymentRates(c *gin.Context) {
	var rates []models.PaymentRate
	if err := h.db.Order("state, insurance_type").Find(&rates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment rates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// UpsertPaymentRate creates or updates a payment rate for a state and
// insurance type. An empty state sets the nationwide default.
func (h *AdminHandler) UpsertPaymentRate(c *gin.Context) {
	var req PaymentRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RateAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rate amount cannot be negative"})
		return
	}

	state := strings.ToUpper(strings.TrimSpace(req.State))

	var rate models.PaymentRate
	err := h.db.Where("state = ? AND insurance_type = ?", state, req.InsuranceType).First(&rate).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		rate = models.PaymentRate{
			State:         state,
			InsuranceType: req.InsuranceType,
			RateAmount:    req.RateAmount,
		}
		if err := h.db.Create(&rate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment rate"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"rate": rate})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up payment rate"})
	default:
		if err := h.db.Model(&rate).Update("rate_amount", req.RateAmount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment rate"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rate": rate})
	}
}

// SeedPaymentRates installs the default rate table
func (h *AdminHandler) SeedPaymentRates(c *gin.Context) {
	if err := h.rewardSvc.SeedDefaultRates(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed payment rates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment rates seeded"})
}
