package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository implements the repositories.CampaignRepository interface
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// Create inserts a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	_, err := r.collection.InsertOne(ctx, campaign)
	return err
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign); err != nil {
		return nil, notFound(err)
	}
	return &campaign, nil
}

// FindByOwner lists a user's campaigns, newest first
func (r *CampaignRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]*models.Campaign, error) {
	return r.find(ctx, bson.M{"createdBy": owner})
}

// FindByStatus lists campaigns in the given status, newest first
func (r *CampaignRepository) FindByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *CampaignRepository) find(ctx context.Context, filter bson.M) ([]*models.Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, nil
}

// Update rewrites the editable fields of a campaign. Analytics, owner and
// lastSent are left alone.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	set := bson.M{
		"name":                 campaign.Name,
		"subject":              campaign.Subject,
		"content":              campaign.Content,
		"status":               campaign.Status,
		"type":                 campaign.Type,
		"segmentationCriteria": campaign.SegmentationCriteria,
		"updatedAt":            campaign.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if campaign.Schedule != nil {
		set["schedule"] = campaign.Schedule
	} else {
		update["$unset"] = bson.M{"schedule": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": campaign.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a campaign by ID
func (r *CampaignRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// IncrementAnalytics atomically adds delta to one analytics counter
func (r *CampaignRepository) IncrementAnalytics(ctx context.Context, id primitive.ObjectID, field models.AnalyticsField, delta int64) error {
	if delta <= 0 {
		return fmt.Errorf("analytics delta must be positive, got %d", delta)
	}
	update := bson.M{"$inc": bson.M{"analytics." + string(field): delta}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// RecordDispatch adds a dispatch's totals to the counters and stamps lastSent
// in a single update.
func (r *CampaignRepository) RecordDispatch(ctx context.Context, id primitive.ObjectID, sent, failed int, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{
			"analytics.sent":   sent,
			"analytics.failed": failed,
		},
		"$set": bson.M{"lastSent": at},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
