package handlers

import (
	"net/http"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ContentHandler exposes the content drafting endpoints.
type ContentHandler struct {
	contentService services.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Process handles POST /content/process
func (h *ContentHandler) Process(c *gin.Context) {
	var req models.ProcessContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, http.StatusOK, h.contentService.Process(&req))
}

// GenerateContent handles POST /content/generate-content
func (h *ContentHandler) GenerateContent(c *gin.Context) {
	var req models.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	content, err := h.contentService.GenerateContent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"content": content})
}

// GenerateSubject handles POST /content/generate-subject
func (h *ContentHandler) GenerateSubject(c *gin.Context) {
	var req models.GenerateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	subject, err := h.contentService.GenerateSubject(c.Request.Context(), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"subject": subject})
}
