package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/services"
	"github.com/ArowuTest/zithara-mail-backend/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// PageRenderer renders the public unsubscribe confirmation page.
type PageRenderer interface {
	UnsubscribePage(email string) (string, error)
}

// SubscriberHandler handles subscriber HTTP requests
type SubscriberHandler struct {
	subscriberService services.SubscriberService
	pages             PageRenderer
}

// NewSubscriberHandler creates a new SubscriberHandler
func NewSubscriberHandler(subscriberService services.SubscriberService, pages PageRenderer) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService, pages: pages}
}

// List handles GET /subscribers
func (h *SubscriberHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := models.SubscriberFilter{
		Owner:  owner,
		Status: models.SubscriberStatus(c.Query("status")),
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Limit:  limit,
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = utils.SplitTags(tags)
	}

	subscribers, pagination, err := h.subscriberService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if subscribers == nil {
		subscribers = []*models.Subscriber{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(subscribers),
		"pagination": pagination,
		"data":       subscribers,
	})
}

// Active handles GET /subscribers/active
func (h *SubscriberHandler) Active(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	subscribers, err := h.subscriberService.Active(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	type activeSubscriber struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	out := make([]activeSubscriber, 0, len(subscribers))
	for _, s := range subscribers {
		out = append(out, activeSubscriber{Email: s.Email, FirstName: s.FirstName, LastName: s.LastName})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "data": out})
}

// Get handles GET /subscribers/:id
func (h *SubscriberHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	sub, err := h.subscriberService.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

// Create handles POST /subscribers
func (h *SubscriberHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var in models.SubscriberInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := h.subscriberService.Create(c.Request.Context(), owner, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, sub)
}

// Update handles PUT /subscribers/:id
func (h *SubscriberHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var in models.SubscriberInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := h.subscriberService.Update(c.Request.Context(), owner, c.Param("id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

// Delete handles DELETE /subscribers/:id
func (h *SubscriberHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.subscriberService.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// Import handles POST /subscribers/import. It takes either a JSON body
// {"subscribers": [...]} or a multipart CSV upload in the "file" field.
func (h *SubscriberHandler) Import(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var entries []models.SubscriberInput
	var rowErrors []string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			fail(c, http.StatusBadRequest, "Please upload a CSV file")
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, "Could not read uploaded file")
			return
		}
		defer f.Close()
		entries, rowErrors, err = utils.ParseSubscribersCSV(f)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		var body struct {
			Subscribers []models.SubscriberInput `json:"subscribers"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Subscribers == nil {
			fail(c, http.StatusBadRequest, "Please provide an array of subscribers")
			return
		}
		entries = body.Subscribers
	}

	result := h.subscriberService.Import(c.Request.Context(), owner, entries)
	result.Failed += len(rowErrors)
	result.Errors = append(result.Errors, rowErrors...)

	log.Info("Subscribers imported", "owner", owner.Hex(), "imported", result.Imported, "duplicates", result.Duplicates, "failed", result.Failed)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Imported %d subscribers. %d duplicates skipped. %d failed.",
			result.Imported, result.Duplicates, result.Failed),
		"data": result,
	})
}

// Unsubscribe handles the public GET /subscribers/unsubscribe link.
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	sub, err := h.subscriberService.Unsubscribe(c.Request.Context(), c.Query("email"), c.Query("token"), c.Query("cid"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.pages.UnsubscribePage(sub.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
