package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignStatus is informational; the dispatcher does not enforce transitions.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignActive, CampaignPaused, CampaignCompleted, CampaignFailed:
		return true
	}
	return false
}

// Campaign represents an email broadcast definition.
// Type and Schedule are written through SetPlan only.
type Campaign struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                 string             `bson:"name" json:"name"`
	Subject              string             `bson:"subject" json:"subject"`
	Content              string             `bson:"content" json:"content"`
	Status               CampaignStatus     `bson:"status" json:"status"`
	Type                 CampaignType       `bson:"type" json:"type"`
	Schedule             *RecurringSchedule `bson:"schedule,omitempty" json:"schedule,omitempty"`
	SegmentationCriteria Segmentation       `bson:"segmentationCriteria" json:"segmentationCriteria"`
	Analytics            Analytics          `bson:"analytics" json:"analytics"`
	LastSent             *time.Time         `bson:"lastSent,omitempty" json:"lastSent,omitempty"`
	CreatedBy            primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Analytics are the campaign's aggregate counters. They only ever grow,
// through $inc updates in the repository.
type Analytics struct {
	Sent         int64 `bson:"sent" json:"sent"`
	Failed       int64 `bson:"failed" json:"failed"`
	Delivered    int64 `bson:"delivered" json:"delivered"`
	Opened       int64 `bson:"opened" json:"opened"`
	Clicked      int64 `bson:"clicked" json:"clicked"`
	Bounced      int64 `bson:"bounced" json:"bounced"`
	Complaints   int64 `bson:"complaints" json:"complaints"`
	Unsubscribed int64 `bson:"unsubscribed" json:"unsubscribed"`
}

// AnalyticsField names a counter inside Analytics.
type AnalyticsField string

const (
	AnalyticsSent         AnalyticsField = "sent"
	AnalyticsFailed       AnalyticsField = "failed"
	AnalyticsOpened       AnalyticsField = "opened"
	AnalyticsClicked      AnalyticsField = "clicked"
	AnalyticsUnsubscribed AnalyticsField = "unsubscribed"
)

// Segmentation narrows the recipient set. An empty Tags slice means every
// active subscriber of the owner.
type Segmentation struct {
	Tags []string `bson:"tags,omitempty" json:"tags,omitempty"`
}

// Plan returns the campaign's delivery plan.
func (c *Campaign) Plan() Plan {
	switch c.Type {
	case CampaignRecurring:
		if c.Schedule != nil {
			return RecurringPlan{Schedule: *c.Schedule}
		}
		return RecurringPlan{}
	case CampaignAutomated:
		return AutomatedPlan{}
	default:
		return OneTimePlan{}
	}
}

// SetPlan stores p on the campaign. Non-recurring plans clear the schedule.
func (c *Campaign) SetPlan(p Plan) {
	c.Type = p.Type()
	c.Schedule = nil
	if r, ok := p.(RecurringPlan); ok {
		s := r.Schedule
		c.Schedule = &s
	}
}

// CampaignInput is the body accepted by campaign create and update.
type CampaignInput struct {
	Name                 string             `json:"name"`
	Subject              string             `json:"subject"`
	Content              string             `json:"content"`
	Status               CampaignStatus     `json:"status"`
	Type                 string             `json:"type"`
	Schedule             *RecurringSchedule `json:"schedule"`
	SegmentationCriteria *Segmentation      `json:"segmentationCriteria"`
}

// DispatchResult summarizes one dispatch.
type DispatchResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}
