package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingStarter struct {
	started []primitive.ObjectID
	err     error
}

func (s *recordingStarter) Start(ctx context.Context, id primitive.ObjectID) error {
	if s.err != nil {
		return s.err
	}
	s.started = append(s.started, id)
	return nil
}

func validInput() *models.CampaignInput {
	return &models.CampaignInput{
		Name:    "Launch",
		Subject: "We are live, {{firstName}}",
		Content: "<p>Hello</p>",
	}
}

func TestCreateCampaignDefaults(t *testing.T) {
	repo := newMemCampaigns()
	svc := NewCampaignManager(repo, &recordingStarter{})
	owner := primitive.NewObjectID()

	campaign, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	assert.False(t, campaign.ID.IsZero())
	assert.Equal(t, models.CampaignDraft, campaign.Status)
	assert.Equal(t, models.CampaignOneTime, campaign.Type)
	assert.Nil(t, campaign.Schedule)
	assert.Equal(t, owner, campaign.CreatedBy)
	assert.Equal(t, models.OneTimePlan{}, campaign.Plan())
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := NewCampaignManager(newMemCampaigns(), &recordingStarter{})
	owner := primitive.NewObjectID()

	_, err := svc.Create(context.Background(), owner, &models.CampaignInput{
		Name:    strings.Repeat("n", 101),
		Content: " ",
		Status:  "archived",
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"Campaign name cannot be more than 100 characters",
		"Please add an email subject",
		"Please add email content",
		`Invalid campaign status "archived"`,
	}, verr.Messages)
}

func TestCreateRecurringCampaign(t *testing.T) {
	svc := NewCampaignManager(newMemCampaigns(), &recordingStarter{})
	owner := primitive.NewObjectID()

	in := validInput()
	in.Type = "Recurring"
	_, err := svc.Create(context.Background(), owner, in)
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages, "schedule is required for recurring campaigns")

	in.Schedule = &models.RecurringSchedule{Recurring: models.RecurCustom}
	_, err = svc.Create(context.Background(), owner, in)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages, "cronExpression is required for custom recurrence")

	in.Schedule.CronExpression = "0 9 * * 1"
	campaign, err := svc.Create(context.Background(), owner, in)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignRecurring, campaign.Type)
	plan, ok := campaign.Plan().(models.RecurringPlan)
	require.True(t, ok)
	assert.Equal(t, "0 9 * * 1", plan.Schedule.CronExpression)
}

func TestUpdateCampaignSwitchingToOneTimeDropsSchedule(t *testing.T) {
	repo := newMemCampaigns()
	svc := NewCampaignManager(repo, &recordingStarter{})
	owner := primitive.NewObjectID()

	in := validInput()
	in.Type = "recurring"
	in.Schedule = &models.RecurringSchedule{Recurring: models.RecurWeekly}
	campaign, err := svc.Create(context.Background(), owner, in)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), owner, campaign.ID.Hex(), &models.CampaignInput{Type: "one-time", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.CampaignOneTime, updated.Type)
	assert.Nil(t, repo.get(campaign.ID).Schedule)
}

func TestCampaignOwnership(t *testing.T) {
	repo := newMemCampaigns()
	starter := &recordingStarter{}
	svc := NewCampaignManager(repo, starter)
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()
	campaign := seedCampaign(t, repo, owner)
	ctx := context.Background()

	_, err := svc.Get(ctx, stranger, campaign.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.Send(ctx, stranger, campaign.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, campaign.ID.Hex()), apperrors.ErrForbidden)
	assert.Empty(t, starter.started)

	_, err = svc.Get(ctx, owner, "not-an-id")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = svc.Get(ctx, owner, primitive.NewObjectID().Hex())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSendStartsDispatch(t *testing.T) {
	repo := newMemCampaigns()
	starter := &recordingStarter{}
	svc := NewCampaignManager(repo, starter)
	owner := primitive.NewObjectID()
	campaign := seedCampaign(t, repo, owner)

	_, err := svc.Send(context.Background(), owner, campaign.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{campaign.ID}, starter.started)

	starter.err = apperrors.ErrDispatchInProgress
	_, err = svc.Send(context.Background(), owner, campaign.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrDispatchInProgress)
}

func TestScheduledCampaigns(t *testing.T) {
	repo := newMemCampaigns()
	svc := NewCampaignManager(repo, &recordingStarter{})
	seedCampaign(t, repo, primitive.NewObjectID())
	scheduled := seedCampaign(t, repo, primitive.NewObjectID(), func(c *models.Campaign) {
		c.Status = models.CampaignScheduled
	})

	found, err := svc.Scheduled(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, scheduled.ID, found[0].ID)
}
