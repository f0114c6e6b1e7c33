package mongodb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.SubscriberRepository = (*SubscriberRepository)(nil)

// SubscriberRepository handles MongoDB operations for Subscriber
type SubscriberRepository struct {
	collection *mongo.Collection
}

// NewSubscriberRepository creates a new SubscriberRepository
func NewSubscriberRepository(db *mongo.Database) *SubscriberRepository {
	return &SubscriberRepository{
		collection: db.Collection("subscribers"),
	}
}

// EnsureIndexes creates the per-owner unique email index plus the status
// and tag indexes used by recipient resolution.
func (r *SubscriberRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "createdBy", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}

// Create inserts a new subscriber
func (r *SubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	now := time.Now()
	subscriber.ID = primitive.NewObjectID()
	subscriber.Email = strings.ToLower(strings.TrimSpace(subscriber.Email))
	if subscriber.SubscriptionDate.IsZero() {
		subscriber.SubscriptionDate = now
	}
	subscriber.LastUpdated = now
	if subscriber.Tags == nil {
		subscriber.Tags = []string{}
	}
	if subscriber.CampaignActivity == nil {
		subscriber.CampaignActivity = []models.Activity{}
	}
	_, err := r.collection.InsertOne(ctx, subscriber)
	return insertError(err)
}

// FindByID finds a subscriber by ID
func (r *SubscriberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscriber, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmailAndOwner finds an owner's subscriber by email
func (r *SubscriberRepository) FindByEmailAndOwner(ctx context.Context, email string, owner primitive.ObjectID) (*models.Subscriber, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email)), "createdBy": owner})
}

// FindByIDAndEmail resolves the pair carried by unsubscribe links
func (r *SubscriberRepository) FindByIDAndEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Subscriber, error) {
	return r.findOne(ctx, bson.M{"_id": id, "email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *SubscriberRepository) findOne(ctx context.Context, filter bson.M) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	if err := r.collection.FindOne(ctx, filter).Decode(&subscriber); err != nil {
		return nil, notFound(err)
	}
	return &subscriber, nil
}

// Find returns one page of subscribers matching filter plus the total count
func (r *SubscriberRepository) Find(ctx context.Context, filter models.SubscriberFilter) ([]*models.Subscriber, int64, error) {
	query := bson.M{"createdBy": filter.Owner}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$in": filter.Tags}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"email": pattern},
			bson.M{"firstName": pattern},
			bson.M{"lastName": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "subscriptionDate", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))
	subscribers, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return subscribers, total, nil
}

// FindActive returns an owner's active subscribers, optionally narrowed by tags
func (r *SubscriberRepository) FindActive(ctx context.Context, owner primitive.ObjectID, tags []string) ([]*models.Subscriber, error) {
	query := bson.M{"createdBy": owner, "status": models.SubscriberActive}
	if len(tags) > 0 {
		query["tags"] = bson.M{"$in": tags}
	}
	// The activity log is not needed to address mail.
	opts := options.Find().SetProjection(bson.M{"campaignActivity": 0})
	return r.find(ctx, query, opts)
}

// FindAllActive returns active subscribers across every owner, for
// operator listings.
func (r *SubscriberRepository) FindAllActive(ctx context.Context) ([]*models.Subscriber, error) {
	opts := options.Find().
		SetProjection(bson.M{"email": 1, "firstName": 1, "lastName": 1, "createdBy": 1, "status": 1}).
		SetSort(bson.D{{Key: "email", Value: 1}})
	return r.find(ctx, bson.M{"status": models.SubscriberActive}, opts)
}

func (r *SubscriberRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*models.Subscriber, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subscribers []*models.Subscriber
	if err := cursor.All(ctx, &subscribers); err != nil {
		return nil, err
	}
	if subscribers == nil {
		subscribers = []*models.Subscriber{}
	}
	return subscribers, nil
}

// Update rewrites a subscriber's editable fields
func (r *SubscriberRepository) Update(ctx context.Context, subscriber *models.Subscriber) error {
	subscriber.LastUpdated = time.Now()
	update := bson.M{"$set": bson.M{
		"email":        strings.ToLower(strings.TrimSpace(subscriber.Email)),
		"firstName":    subscriber.FirstName,
		"lastName":     subscriber.LastName,
		"status":       subscriber.Status,
		"tags":         subscriber.Tags,
		"customFields": subscriber.CustomFields,
		"lastUpdated":  subscriber.LastUpdated,
	}}
	return r.updateOne(ctx, subscriber.ID, update)
}

// UpdateStatus sets a subscriber's status
func (r *SubscriberRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.SubscriberStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "lastUpdated": time.Now()}}
	return r.updateOne(ctx, id, update)
}

// Delete deletes a subscriber by ID
func (r *SubscriberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// AppendActivity pushes an entry onto the subscriber's activity log
func (r *SubscriberRepository) AppendActivity(ctx context.Context, id primitive.ObjectID, activity models.Activity) error {
	update := bson.M{"$push": bson.M{"campaignActivity": activity}}
	return r.updateOne(ctx, id, update)
}

// AppendActivityOnce pushes activity only when no entry with the same
// campaign and action exists. The guard lives in the filter, so two
// concurrent calls cannot both append.
func (r *SubscriberRepository) AppendActivityOnce(ctx context.Context, id primitive.ObjectID, activity models.Activity) (bool, error) {
	filter := bson.M{
		"_id": id,
		"campaignActivity": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"campaign": activity.Campaign,
			"action":   activity.Action,
		}}},
	}
	update := bson.M{"$push": bson.M{"campaignActivity": activity}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *SubscriberRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
