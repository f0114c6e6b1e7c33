package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateSubscriber(t *testing.T) {
	subs := newMemSubscribers()
	svc := NewSubscriberManager(subs, newMemCampaigns())
	owner := primitive.NewObjectID()
	ctx := context.Background()

	sub, err := svc.Create(ctx, owner, &models.SubscriberInput{Email: "  Ada@Example.com ", FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sub.Email)
	assert.Equal(t, models.SubscriberActive, sub.Status)
	assert.Equal(t, models.SourceManual, sub.Source)

	_, err = svc.Create(ctx, owner, &models.SubscriberInput{Email: "ada@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubscriber)

	// the same address is fine for another owner
	_, err = svc.Create(ctx, primitive.NewObjectID(), &models.SubscriberInput{Email: "ada@example.com"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, owner, &models.SubscriberInput{Email: "not-an-email"})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Please add a valid email"}, verr.Messages)
}

func TestListSubscribersPaginates(t *testing.T) {
	subs := newMemSubscribers()
	svc := NewSubscriberManager(subs, newMemCampaigns())
	owner := primitive.NewObjectID()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		seedSubscriber(t, subs, owner, email)
	}

	page, pagination, err := svc.List(context.Background(), models.SubscriberFilter{Owner: owner, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, &models.Pagination{Total: 3, Page: 2, Limit: 2, Pages: 2}, pagination)

	_, pagination, err = svc.List(context.Background(), models.SubscriberFilter{Owner: owner})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, defaultPageSize, pagination.Limit)
}

func TestImportSubscribers(t *testing.T) {
	subs := newMemSubscribers()
	svc := NewSubscriberManager(subs, newMemCampaigns())
	owner := primitive.NewObjectID()
	seedSubscriber(t, subs, owner, "existing@example.com")

	result := svc.Import(context.Background(), owner, []models.SubscriberInput{
		{Email: "new1@example.com", Tags: []string{"vip"}},
		{Email: "existing@example.com"},
		{FirstName: "NoEmail"},
		{Email: "new2@example.com", CustomFields: map[string]interface{}{"city": "Lagos"}},
		{Email: "broken"},
	})

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Missing email for entry: ")
	assert.Contains(t, result.Errors[0], "NoEmail")
	assert.Contains(t, result.Errors[1], "Error importing broken")

	imported, err := subs.FindByEmailAndOwner(context.Background(), "new2@example.com", owner)
	require.NoError(t, err)
	assert.Equal(t, models.SourceImport, imported.Source)
	assert.Equal(t, "Lagos", imported.CustomFields["city"])
}

func TestUnsubscribe(t *testing.T) {
	subs, campaigns := newMemSubscribers(), newMemCampaigns()
	svc := NewSubscriberManager(subs, campaigns)
	owner := primitive.NewObjectID()
	campaign := seedCampaign(t, campaigns, owner)
	sub := seedSubscriber(t, subs, owner, "ada@example.com")
	ctx := context.Background()

	_, err := svc.Unsubscribe(ctx, "", sub.ID.Hex(), "")
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Missing email or token"}, verr.Messages)

	_, err = svc.Unsubscribe(ctx, "someone@example.com", sub.ID.Hex(), "")
	assert.True(t, apperrors.IsNotFound(err))

	got, err := svc.Unsubscribe(ctx, "ada@example.com", sub.ID.Hex(), campaign.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.SubscriberUnsubscribed, got.Status)

	// a second click on the same link changes nothing
	_, err = svc.Unsubscribe(ctx, "ada@example.com", sub.ID.Hex(), campaign.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, int64(1), campaigns.get(campaign.ID).Analytics.Unsubscribed)
	activity := subs.get(sub.ID).CampaignActivity
	require.Len(t, activity, 1)
	assert.Equal(t, models.ActionUnsubscribed, activity[0].Action)

	recipients, err := NewRecipientResolver(subs).Resolve(ctx, owner, models.Segmentation{})
	require.NoError(t, err)
	assert.Empty(t, recipients)
}

func TestUnsubscribeIgnoresOtherOwnersCampaign(t *testing.T) {
	subs, campaigns := newMemSubscribers(), newMemCampaigns()
	svc := NewSubscriberManager(subs, campaigns)
	foreign := seedCampaign(t, campaigns, primitive.NewObjectID())
	sub := seedSubscriber(t, subs, primitive.NewObjectID(), "ada@example.com")

	got, err := svc.Unsubscribe(context.Background(), "ada@example.com", sub.ID.Hex(), foreign.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.SubscriberUnsubscribed, got.Status)

	assert.Equal(t, int64(0), campaigns.get(foreign.ID).Analytics.Unsubscribed)
	assert.Empty(t, subs.get(sub.ID).CampaignActivity)
}

type failingEmailLookup struct {
	*memSubscribers
	err error
}

func (f failingEmailLookup) FindByEmailAndOwner(ctx context.Context, email string, owner primitive.ObjectID) (*models.Subscriber, error) {
	return nil, f.err
}

func TestUpdateSubscriberReturnsLookupError(t *testing.T) {
	subs := newMemSubscribers()
	owner := primitive.NewObjectID()
	sub := seedSubscriber(t, subs, owner, "ada@example.com")
	lookupErr := errors.New("connection reset")
	svc := NewSubscriberManager(failingEmailLookup{memSubscribers: subs, err: lookupErr}, newMemCampaigns())

	_, err := svc.Update(context.Background(), owner, sub.ID.Hex(), &models.SubscriberInput{Email: "countess@example.com"})
	assert.ErrorIs(t, err, lookupErr)
	assert.Equal(t, "ada@example.com", subs.get(sub.ID).Email)
}

func TestSubscriberOwnership(t *testing.T) {
	subs := newMemSubscribers()
	svc := NewSubscriberManager(subs, newMemCampaigns())
	sub := seedSubscriber(t, subs, primitive.NewObjectID(), "ada@example.com")

	_, err := svc.Get(context.Background(), primitive.NewObjectID(), sub.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.Update(context.Background(), primitive.NewObjectID(), sub.ID.Hex(), &models.SubscriberInput{FirstName: "Eve"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
