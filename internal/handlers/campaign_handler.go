package handlers

import (
	"net/http"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	campaignService services.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService services.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// List handles GET /campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	campaigns, err := h.campaignService.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(campaigns), "data": campaigns})
}

// Get handles GET /campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	campaign, err := h.campaignService.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, campaign)
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var in models.CampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	campaign, err := h.campaignService.Create(c.Request.Context(), owner, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, campaign)
}

// Update handles PUT /campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var in models.CampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	campaign, err := h.campaignService.Update(c.Request.Context(), owner, c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, campaign)
}

// Delete handles DELETE /campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.campaignService.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// Send handles POST /campaigns/:id/send. The dispatch runs in the
// background; progress shows up in the campaign analytics.
func (h *CampaignHandler) Send(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	campaign, err := h.campaignService.Send(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	id := campaign.ID.Hex()
	c.JSON(http.StatusAccepted, gin.H{
		"success":    true,
		"message":    "Campaign sending process started",
		"campaignId": id,
		"data":       gin.H{"campaignId": id},
	})
}
