package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/middleware"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTracking struct {
	opens  int
	target string
	err    error
}

func (s *stubTracking) RecordOpen(ctx context.Context, cid, sid string) error {
	s.opens++
	return s.err
}

func (s *stubTracking) RecordClick(ctx context.Context, cid, sid, target string) (string, error) {
	return s.target, s.err
}

type stubCampaigns struct {
	sendErr error
	id      primitive.ObjectID
}

func (s *stubCampaigns) List(ctx context.Context, owner primitive.ObjectID) ([]*models.Campaign, error) {
	return nil, nil
}

func (s *stubCampaigns) Get(ctx context.Context, owner primitive.ObjectID, id string) (*models.Campaign, error) {
	return nil, apperrors.NewNotFound("campaign", id)
}

func (s *stubCampaigns) Create(ctx context.Context, owner primitive.ObjectID, in *models.CampaignInput) (*models.Campaign, error) {
	return nil, apperrors.NewValidation("Please add a campaign name", "Please add an email subject")
}

func (s *stubCampaigns) Update(ctx context.Context, owner primitive.ObjectID, id string, in *models.CampaignInput) (*models.Campaign, error) {
	return nil, apperrors.ErrForbidden
}

func (s *stubCampaigns) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	return nil
}

func (s *stubCampaigns) Send(ctx context.Context, owner primitive.ObjectID, id string) (*models.Campaign, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &models.Campaign{ID: s.id}, nil
}

func (s *stubCampaigns) Scheduled(ctx context.Context) ([]*models.Campaign, error) {
	return nil, nil
}

type stubSubscribers struct {
	unsubscribeErr error
	imported       []models.SubscriberInput
}

func (s *stubSubscribers) List(ctx context.Context, f models.SubscriberFilter) ([]*models.Subscriber, *models.Pagination, error) {
	return nil, &models.Pagination{Page: f.Page, Limit: f.Limit}, nil
}

func (s *stubSubscribers) Active(ctx context.Context, owner primitive.ObjectID) ([]*models.Subscriber, error) {
	return nil, nil
}

func (s *stubSubscribers) Get(ctx context.Context, owner primitive.ObjectID, id string) (*models.Subscriber, error) {
	return nil, nil
}

func (s *stubSubscribers) Create(ctx context.Context, owner primitive.ObjectID, in *models.SubscriberInput) (*models.Subscriber, error) {
	return nil, apperrors.ErrDuplicateSubscriber
}

func (s *stubSubscribers) Update(ctx context.Context, owner primitive.ObjectID, id string, in *models.SubscriberInput) (*models.Subscriber, error) {
	return nil, nil
}

func (s *stubSubscribers) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	return nil
}

func (s *stubSubscribers) Import(ctx context.Context, owner primitive.ObjectID, entries []models.SubscriberInput) *models.ImportResult {
	s.imported = entries
	return &models.ImportResult{Imported: len(entries), Errors: []string{}}
}

func (s *stubSubscribers) Unsubscribe(ctx context.Context, email, token, cid string) (*models.Subscriber, error) {
	if s.unsubscribeErr != nil {
		return nil, s.unsubscribeErr
	}
	return &models.Subscriber{Email: email, Status: models.SubscriberUnsubscribed}, nil
}

type stubPages struct{}

func (stubPages) UnsubscribePage(email string) (string, error) {
	return "<h1>You've been unsubscribed</h1><p>" + email + "</p>", nil
}

// withUser stands in for JWTAuthMiddleware.
func withUser(id primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestTrackingOpenAlwaysServesPixel(t *testing.T) {
	tracking := &stubTracking{err: errors.New("db down")}
	r := gin.New()
	r.GET("/open", NewTrackingHandler(tracking).Open)

	w := perform(r, http.MethodGet, "/open?cid=x&sid=y", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Equal(t, "0", w.Header().Get("Expires"))
	assert.Equal(t, transparentGIF, w.Body.Bytes())
	assert.Equal(t, 1, tracking.opens)
}

func TestTrackingClick(t *testing.T) {
	tracking := &stubTracking{target: "https://shop.example.com"}
	r := gin.New()
	r.GET("/click", NewTrackingHandler(tracking).Click)

	w := perform(r, http.MethodGet, "/click?cid=a&sid=b&url=https%3A%2F%2Fshop.example.com", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Location"))

	tracking.target = ""
	tracking.err = &apperrors.TrackingInputError{Reason: "missing"}
	w = perform(r, http.MethodGet, "/click?cid=a", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	// storage trouble still redirects
	tracking.target = "https://shop.example.com"
	tracking.err = errors.New("db down")
	w = perform(r, http.MethodGet, "/click?cid=a&sid=b&url=x", "")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestCampaignErrorMapping(t *testing.T) {
	campaigns := &stubCampaigns{id: primitive.NewObjectID()}
	h := NewCampaignHandler(campaigns)
	r := gin.New()
	r.Use(withUser(primitive.NewObjectID()))
	r.GET("/campaigns/:id", h.Get)
	r.POST("/campaigns", h.Create)
	r.PUT("/campaigns/:id", h.Update)
	r.POST("/campaigns/:id/send", h.Send)

	w := perform(r, http.MethodGet, "/campaigns/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Campaign not found", decode(t, w)["error"])

	w = perform(r, http.MethodPost, "/campaigns", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please add a campaign name, Please add an email subject", decode(t, w)["error"])

	w = perform(r, http.MethodPut, "/campaigns/abc", `{"name":"x"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(r, http.MethodPost, "/campaigns/abc/send", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, campaigns.id.Hex(), body["campaignId"])

	campaigns.sendErr = apperrors.ErrDispatchInProgress
	w = perform(r, http.MethodPost, "/campaigns/abc/send", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	campaigns.sendErr = apperrors.NewConfigurationError("EMAIL_HOST", nil)
	w = perform(r, http.MethodPost, "/campaigns/abc/send", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	campaigns.sendErr = errors.New("boom")
	w = perform(r, http.MethodPost, "/campaigns/abc/send", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", decode(t, w)["error"])
}

func TestCampaignRoutesRequireUser(t *testing.T) {
	r := gin.New()
	r.GET("/campaigns", NewCampaignHandler(&stubCampaigns{}).List)

	w := perform(r, http.MethodGet, "/campaigns", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnsubscribe(t *testing.T) {
	subs := &stubSubscribers{}
	r := gin.New()
	r.GET("/unsubscribe", NewSubscriberHandler(subs, stubPages{}).Unsubscribe)

	w := perform(r, http.MethodGet, "/unsubscribe?email=ada%40example.com&token=abc", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "ada@example.com")

	subs.unsubscribeErr = apperrors.NewValidation("Missing email or token")
	w = perform(r, http.MethodGet, "/unsubscribe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing email or token", decode(t, w)["error"])

	subs.unsubscribeErr = apperrors.NewNotFound("subscriber", "abc")
	w = perform(r, http.MethodGet, "/unsubscribe?email=x%40example.com&token=abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Subscriber not found", decode(t, w)["error"])
}

func TestSubscriberImportAndCreate(t *testing.T) {
	subs := &stubSubscribers{}
	h := NewSubscriberHandler(subs, stubPages{})
	r := gin.New()
	r.Use(withUser(primitive.NewObjectID()))
	r.POST("/subscribers", h.Create)
	r.POST("/subscribers/import", h.Import)
	r.GET("/subscribers", h.List)

	w := perform(r, http.MethodPost, "/subscribers/import", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide an array of subscribers", decode(t, w)["error"])

	w = perform(r, http.MethodPost, "/subscribers/import", `{"subscribers":[{"email":"a@example.com"},{"email":"b@example.com"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Imported 2 subscribers. 0 duplicates skipped. 0 failed.", decode(t, w)["message"])
	assert.Len(t, subs.imported, 2)

	w = perform(r, http.MethodPost, "/subscribers", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/subscribers?page=3&limit=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	pagination := decode(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])
}
