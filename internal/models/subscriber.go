package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriberStatus gates eligibility; only active subscribers receive mail.
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
	SubscriberBounced      SubscriberStatus = "bounced"
	SubscriberComplained   SubscriberStatus = "complained"
)

// Valid reports whether s is a known status.
func (s SubscriberStatus) Valid() bool {
	switch s {
	case SubscriberActive, SubscriberUnsubscribed, SubscriberBounced, SubscriberComplained:
		return true
	}
	return false
}

// ActivityAction is the kind of a campaign activity entry.
type ActivityAction string

const (
	ActionSent         ActivityAction = "sent"
	ActionOpened       ActivityAction = "opened"
	ActionClicked      ActivityAction = "clicked"
	ActionBounced      ActivityAction = "bounced"
	ActionComplained   ActivityAction = "complained"
	ActionUnsubscribed ActivityAction = "unsubscribed"
)

// Subscriber sources.
const (
	SourceManual = "manual"
	SourceImport = "import"
)

// Subscriber is a recipient owned by a user. Email is unique per owner.
type Subscriber struct {
	ID               primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Email            string                 `bson:"email" json:"email"`
	FirstName        string                 `bson:"firstName" json:"firstName"`
	LastName         string                 `bson:"lastName" json:"lastName"`
	Status           SubscriberStatus       `bson:"status" json:"status"`
	Source           string                 `bson:"source" json:"source"`
	Tags             []string               `bson:"tags" json:"tags"`
	CustomFields     map[string]interface{} `bson:"customFields,omitempty" json:"customFields,omitempty"`
	SubscriptionDate time.Time              `bson:"subscriptionDate" json:"subscriptionDate"`
	LastUpdated      time.Time              `bson:"lastUpdated" json:"lastUpdated"`
	EngagementScore  int                    `bson:"engagementScore" json:"engagementScore"`
	CampaignActivity []Activity             `bson:"campaignActivity" json:"campaignActivity"`
	CreatedBy        primitive.ObjectID     `bson:"createdBy" json:"createdBy"`
}

// Activity is one entry of a subscriber's append-only campaign log.
type Activity struct {
	Campaign  primitive.ObjectID     `bson:"campaign" json:"campaign"`
	Action    ActivityAction         `bson:"action" json:"action"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// HasActivity reports whether the log already holds action for campaignID.
func (s *Subscriber) HasActivity(campaignID primitive.ObjectID, action ActivityAction) bool {
	for _, a := range s.CampaignActivity {
		if a.Campaign == campaignID && a.Action == action {
			return true
		}
	}
	return false
}

// SubscriberInput is the body for create/update and for import entries.
type SubscriberInput struct {
	Email        string                 `json:"email"`
	FirstName    string                 `json:"firstName"`
	LastName     string                 `json:"lastName"`
	Status       SubscriberStatus       `json:"status"`
	Tags         []string               `json:"tags"`
	CustomFields map[string]interface{} `json:"customFields"`
}

// SubscriberFilter drives the paginated subscriber listing.
type SubscriberFilter struct {
	Owner  primitive.ObjectID
	Status SubscriberStatus
	Tags   []string
	Search string
	Page   int
	Limit  int
}

// Pagination describes a page of a listing.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported   int      `json:"imported"`
	Failed     int      `json:"failed"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors"`
}
