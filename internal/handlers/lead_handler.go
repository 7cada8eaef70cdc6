package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/queue"
	"github.com/insuraloop/backend/internal/services/leads"
	"github.com/insuraloop/backend/internal/services/referral"
)

// LeadHandler handles lead intake and lifecycle requests
type LeadHandler struct {
	leadSvc       *leads.LeadService
	store         *leads.LeadStore
	validationSvc *leads.ValidationService
	referralSvc   *referral.Service
	workers       *queue.WorkerManager
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(
	leadSvc *leads.LeadService,
	store *leads.LeadStore,
	validationSvc *leads.ValidationService,
	referralSvc *referral.Service,
	workers *queue.WorkerManager,
) *LeadHandler {
	return &LeadHandler{
		leadSvc:       leadSvc,
		store:         store,
		validationSvc: validationSvc,
		referralSvc:   referralSvc,
		workers:       workers,
	}
}

// UpdateStatusRequest represents a lead status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Capture is the public intake endpoint behind a referral link
func (h *LeadHandler) Capture(c *gin.Context) {
	var req leads.CaptureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	link, err := h.referralSvc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral link not found"})
		return
	}

	lead, err := h.leadSvc.Capture(c.Request.Context(), link, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := h.validationSvc.ValidateLead(c.Request.Context(), lead, leads.ValidateOptions{Persist: true})

	if h.workers != nil {
		payload := map[string]interface{}{"lead_id": lead.ID.String()}
		if _, err := h.workers.EnqueueJob(string(queue.JobTypeLeadNotification), payload); err != nil {
			log.Printf("Warning: failed to enqueue lead notification for %s: %v", lead.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"lead":       lead,
		"validation": outcome,
	})
}

// ListLeads returns the agent's leads; admins see every lead
func (h *LeadHandler) ListLeads(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	isAdmin := c.GetBool("is_admin")

	var (
		list []models.Lead
		err  error
	)
	if isAdmin {
		list, err = h.store.ListAll(c.Request.Context())
	} else {
		list, err = h.store.ListByAgent(c.Request.Context(), userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": list})
}

// GetLead returns a single lead
func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, ok := h.ownedLead(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// UpdateStatus moves a lead through its lifecycle. Converting a lead
// schedules the referral reward job.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	lead, ok := h.ownedLead(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.leadSvc.UpdateStatus(c.Request.Context(), lead, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == models.LeadStatusConverted && h.workers != nil {
		payload := map[string]interface{}{"lead_id": lead.ID.String()}
		if _, err := h.workers.EnqueueJob(string(queue.JobTypeReferralReward), payload); err != nil {
			log.Printf("Warning: failed to enqueue referral reward for %s: %v", lead.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// ownedLead loads the lead in the URL and enforces agent ownership
func (h *LeadHandler) ownedLead(c *gin.Context) (*models.Lead, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
		return nil, false
	}

	lead, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return nil, false
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	isAdmin := c.GetBool("is_admin")
	if !isAdmin && (lead.AgentID == nil || *lead.AgentID != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your lead"})
		return nil, false
	}

	return lead, true
}
