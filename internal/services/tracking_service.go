package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingRecorder records opens and clicks reported by beacons.
type TrackingRecorder struct {
	campaigns   repositories.CampaignRepository
	subscribers repositories.SubscriberRepository
	now         func() time.Time
}

var _ TrackingService = (*TrackingRecorder)(nil)

// NewTrackingRecorder creates a new TrackingRecorder
func NewTrackingRecorder(campaigns repositories.CampaignRepository, subscribers repositories.SubscriberRepository) *TrackingRecorder {
	return &TrackingRecorder{campaigns: campaigns, subscribers: subscribers, now: time.Now}
}

// RecordOpen counts an open. Every call increments the campaign's opened
// counter, while the subscriber log keeps a single opened entry per
// campaign. Missing or unknown ids are a silent no-op.
func (t *TrackingRecorder) RecordOpen(ctx context.Context, campaignID, subscriberID string) error {
	cid, sid, ok := t.resolve(ctx, campaignID, subscriberID)
	if !ok {
		return nil
	}

	if err := t.campaigns.IncrementAnalytics(ctx, cid, models.AnalyticsOpened, 1); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("increment opens: %w", err)
	}

	_, err := t.subscribers.AppendActivityOnce(ctx, sid, models.Activity{
		Campaign:  cid,
		Action:    models.ActionOpened,
		Timestamp: t.now(),
	})
	if err != nil {
		return fmt.Errorf("record open activity: %w", err)
	}
	return nil
}

// RecordClick counts a click and returns the URL to redirect to. All three
// parameters are required and target must be an absolute http(s) URL.
// Unknown ids still redirect but record nothing.
func (t *TrackingRecorder) RecordClick(ctx context.Context, campaignID, subscriberID, target string) (string, error) {
	if campaignID == "" || subscriberID == "" || target == "" {
		return "", &apperrors.TrackingInputError{Reason: "missing required tracking parameters"}
	}
	if !validRedirect(target) {
		return "", &apperrors.TrackingInputError{Reason: "url must be an absolute http(s) URL"}
	}

	cid, sid, ok := t.resolve(ctx, campaignID, subscriberID)
	if !ok {
		return target, nil
	}

	if err := t.campaigns.IncrementAnalytics(ctx, cid, models.AnalyticsClicked, 1); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return target, nil
		}
		return target, fmt.Errorf("increment clicks: %w", err)
	}

	err := t.subscribers.AppendActivity(ctx, sid, models.Activity{
		Campaign:  cid,
		Action:    models.ActionClicked,
		Timestamp: t.now(),
		Metadata:  map[string]interface{}{"url": target},
	})
	if err != nil {
		return target, fmt.Errorf("record click activity: %w", err)
	}
	return target, nil
}

// resolve parses both ids and confirms the subscriber exists, so that an
// unknown subscriber never moves a campaign counter.
func (t *TrackingRecorder) resolve(ctx context.Context, campaignID, subscriberID string) (primitive.ObjectID, primitive.ObjectID, bool) {
	cid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	sid, err := primitive.ObjectIDFromHex(subscriberID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	if _, err := t.subscribers.FindByID(ctx, sid); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return cid, sid, true
}

func validRedirect(target string) bool {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
