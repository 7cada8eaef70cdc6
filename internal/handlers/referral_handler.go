package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/services/referral"
)

// ReferralHandler handles referral link management and public link visits
type ReferralHandler struct {
	referralSvc *referral.Service
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralSvc *referral.Service) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// UpdateLinkRequest represents the editable fields of a link
type UpdateLinkRequest struct {
	Name          *string `json:"name"`
	InsuranceType *string `json:"insurance_type"`
	Source        *string `json:"source"`
	Notes         *string `json:"notes"`
	IsActive      *bool   `json:"is_active"`
}

// CreateLink creates a referral link for the authenticated agent
func (h *ReferralHandler) CreateLink(c *gin.Context) {
	var req referral.CreateLinkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)

	link, err := h.referralSvc.CreateLink(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"link":      link,
		"share_url": fmt.Sprintf("%s/r/%s", os.Getenv("FRONTEND_URL"), link.Code),
	})
}

// ListLinks returns the authenticated agent's links
func (h *ReferralHandler) ListLinks(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	links, err := h.referralSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list referral links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// GetLink returns one of the agent's links with its statistics
func (h *ReferralHandler) GetLink(c *gin.Context) {
	link, ok := h.ownedLink(c)
	if !ok {
		return
	}

	stats, err := h.referralSvc.Stats(c.Request.Context(), link)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute link stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link, "stats": stats})
}

// UpdateLink applies partial edits to one of the agent's links
func (h *ReferralHandler) UpdateLink(c *gin.Context) {
	link, ok := h.ownedLink(c)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.InsuranceType != nil {
		fields["insurance_type"] = *req.InsuranceType
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.referralSvc.Update(c.Request.Context(), link, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update referral link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeactivateLink disables one of the agent's links
func (h *ReferralHandler) DeactivateLink(c *gin.Context) {
	link, ok := h.ownedLink(c)
	if !ok {
		return
	}

	if err := h.referralSvc.Deactivate(c.Request.Context(), link); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate referral link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Referral link deactivated"})
}

// VisitLink is the public landing endpoint for a shared link. It counts
// the click and tells the frontend which lead form to render.
func (h *ReferralHandler) VisitLink(c *gin.Context) {
	code := c.Param("code")

	link, err := h.referralSvc.TrackClick(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral link not found or inactive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":           link.Code,
		"name":           link.Name,
		"insurance_type": link.InsuranceType,
		"capture_url":    fmt.Sprintf("/api/leads/capture/%s", link.Code),
	})
}

// ownedLink loads the link in the URL and enforces that the caller owns it
// or is an admin
func (h *ReferralHandler) ownedLink(c *gin.Context) (*models.ReferralLink, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return nil, false
	}

	link, err := h.referralSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral link not found"})
		return nil, false
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	isAdmin := c.GetBool("is_admin")
	if link.UserID != userID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your referral link"})
		return nil, false
	}

	return link, true
}
