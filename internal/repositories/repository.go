package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned by every repository when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// CampaignRepository defines the interface for campaign data operations.
// Counter changes go through IncrementAnalytics and RecordDispatch so that
// concurrent writers never overwrite each other.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]*models.Campaign, error)
	FindByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error)
	// Update rewrites the editable fields only.
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementAnalytics(ctx context.Context, id primitive.ObjectID, field models.AnalyticsField, delta int64) error
	RecordDispatch(ctx context.Context, id primitive.ObjectID, sent, failed int, at time.Time) error
}

// SubscriberRepository defines the interface for subscriber data operations
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscriber, error)
	FindByEmailAndOwner(ctx context.Context, email string, owner primitive.ObjectID) (*models.Subscriber, error)
	FindByIDAndEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Subscriber, error)
	Find(ctx context.Context, filter models.SubscriberFilter) ([]*models.Subscriber, int64, error)
	// FindActive returns every active subscriber of owner, narrowed to any
	// of tags when tags is non-empty.
	FindActive(ctx context.Context, owner primitive.ObjectID, tags []string) ([]*models.Subscriber, error)
	Update(ctx context.Context, subscriber *models.Subscriber) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.SubscriberStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendActivity(ctx context.Context, id primitive.ObjectID, activity models.Activity) error
	// AppendActivityOnce appends activity unless an entry with the same
	// campaign and action exists. It reports whether it appended.
	AppendActivityOnce(ctx context.Context, id primitive.ObjectID, activity models.Activity) (bool, error)
}
