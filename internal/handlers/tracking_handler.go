package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/ArowuTest/zithara-mail-backend/internal/services"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// transparentGIF is a 1x1 transparent GIF.
var transparentGIF, _ = base64.StdEncoding.DecodeString("R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

// TrackingHandler serves the open beacon and the click redirect.
type TrackingHandler struct {
	trackingService services.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// Open handles GET /tracking/open. The pixel is served whatever happens.
func (h *TrackingHandler) Open(c *gin.Context) {
	if err := h.trackingService.RecordOpen(c.Request.Context(), c.Query("cid"), c.Query("sid")); err != nil {
		log.Error("Failed to record open", "cid", c.Query("cid"), "sid", c.Query("sid"), "err", err)
	}

	header := c.Writer.Header()
	header.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	c.Data(http.StatusOK, "image/gif", transparentGIF)
}

// Click handles GET /tracking/click and redirects to the original link.
func (h *TrackingHandler) Click(c *gin.Context) {
	target, err := h.trackingService.RecordClick(c.Request.Context(), c.Query("cid"), c.Query("sid"), c.Query("url"))
	if err != nil {
		if target == "" {
			respondError(c, err)
			return
		}
		log.Error("Failed to record click", "cid", c.Query("cid"), "sid", c.Query("sid"), "err", err)
	}
	c.Redirect(http.StatusFound, target)
}
