package models

import (
	"fmt"
	"strings"
	"time"
)

// CampaignType is the persisted discriminator of a Plan.
type CampaignType string

const (
	CampaignOneTime   CampaignType = "one-time"
	CampaignRecurring CampaignType = "recurring"
	CampaignAutomated CampaignType = "automated"
)

// Recurrence describes how often a recurring campaign repeats.
type Recurrence string

const (
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
	RecurCustom  Recurrence = "custom"
)

// RecurringSchedule is carried only by recurring campaigns.
type RecurringSchedule struct {
	Date           *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Recurring      Recurrence `bson:"recurring" json:"recurring"`
	CronExpression string     `bson:"cronExpression,omitempty" json:"cronExpression,omitempty"`
}

// Plan is a closed set of delivery plans: OneTimePlan, RecurringPlan and
// AutomatedPlan. Only RecurringPlan has a schedule.
type Plan interface {
	Type() CampaignType
	isPlan()
}

type OneTimePlan struct{}

type AutomatedPlan struct{}

type RecurringPlan struct {
	Schedule RecurringSchedule
}

func (OneTimePlan) Type() CampaignType   { return CampaignOneTime }
func (AutomatedPlan) Type() CampaignType { return CampaignAutomated }
func (RecurringPlan) Type() CampaignType { return CampaignRecurring }

func (OneTimePlan) isPlan()   {}
func (AutomatedPlan) isPlan() {}
func (RecurringPlan) isPlan() {}

// ParsePlan builds a Plan from request fields. The capitalized names used by
// older clients ("One-time", "Recurring", "Automated") are accepted. An empty
// kind means one-time. A schedule passed with a non-recurring kind is dropped.
func ParsePlan(kind string, schedule *RecurringSchedule) (Plan, error) {
	switch CampaignType(strings.ToLower(strings.TrimSpace(kind))) {
	case "", CampaignOneTime:
		return OneTimePlan{}, nil
	case CampaignAutomated:
		return AutomatedPlan{}, nil
	case CampaignRecurring:
		if schedule == nil || schedule.Recurring == "" {
			return nil, fmt.Errorf("schedule is required for recurring campaigns")
		}
		switch schedule.Recurring {
		case RecurDaily, RecurWeekly, RecurMonthly:
		case RecurCustom:
			if strings.TrimSpace(schedule.CronExpression) == "" {
				return nil, fmt.Errorf("cronExpression is required for custom recurrence")
			}
		default:
			return nil, fmt.Errorf("unknown recurrence %q", schedule.Recurring)
		}
		return RecurringPlan{Schedule: *schedule}, nil
	default:
		return nil, fmt.Errorf("unknown campaign type %q", kind)
	}
}
