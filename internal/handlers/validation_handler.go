package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/leads"
)

// ValidationHandler exposes lead quality checks over HTTP
type ValidationHandler struct {
	store         *leads.LeadStore
	validationSvc *leads.ValidationService
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(store *leads.LeadStore, validationSvc *leads.ValidationService) *ValidationHandler {
	return &ValidationHandler{store: store, validationSvc: validationSvc}
}

// DryRunRequest represents contact fields to check without saving anything
type DryRunRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	ZipCode string `json:"zip_code"`
	State   string `json:"state"`
}

// DryRun validates submitted contact fields without creating a lead.
// Lead forms call this for inline feedback before submission.
func (h *ValidationHandler) DryRun(c *gin.Context) {
	var req DryRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead := &models.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		ZipCode: req.ZipCode,
		State:   req.State,
	}

	outcome := h.validationSvc.ValidateLead(c.Request.Context(), lead, leads.ValidateOptions{})

	c.JSON(http.StatusOK, outcome)
}

// Revalidate re-runs validation for a stored lead and persists the outcome
func (h *ValidationHandler) Revalidate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
		return
	}

	lead, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	isAdmin := c.GetBool("is_admin")
	if !isAdmin && (lead.AgentID == nil || *lead.AgentID != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your lead"})
		return
	}

	outcome := h.validationSvc.ValidateLead(c.Request.Context(), lead, leads.ValidateOptions{Persist: true})

	c.JSON(http.StatusOK, gin.H{
		"lead":       lead,
		"validation": outcome,
	})
}
