package services

import (
	"context"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService defines the interface for account operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// CampaignService defines the interface for campaign operations. Every
// method except Scheduled is scoped to the owning user.
type CampaignService interface {
	List(ctx context.Context, owner primitive.ObjectID) ([]*models.Campaign, error)
	Get(ctx context.Context, owner primitive.ObjectID, id string) (*models.Campaign, error)
	Create(ctx context.Context, owner primitive.ObjectID, in *models.CampaignInput) (*models.Campaign, error)
	Update(ctx context.Context, owner primitive.ObjectID, id string, in *models.CampaignInput) (*models.Campaign, error)
	Delete(ctx context.Context, owner primitive.ObjectID, id string) error

	// Send starts a background dispatch and returns without waiting for it.
	Send(ctx context.Context, owner primitive.ObjectID, id string) (*models.Campaign, error)

	// Scheduled lists campaigns in the scheduled state across all owners.
	Scheduled(ctx context.Context) ([]*models.Campaign, error)
}

// SubscriberService defines the interface for subscriber operations
type SubscriberService interface {
	List(ctx context.Context, filter models.SubscriberFilter) ([]*models.Subscriber, *models.Pagination, error)
	Active(ctx context.Context, owner primitive.ObjectID) ([]*models.Subscriber, error)
	Get(ctx context.Context, owner primitive.ObjectID, id string) (*models.Subscriber, error)
	Create(ctx context.Context, owner primitive.ObjectID, in *models.SubscriberInput) (*models.Subscriber, error)
	Update(ctx context.Context, owner primitive.ObjectID, id string, in *models.SubscriberInput) (*models.Subscriber, error)
	Delete(ctx context.Context, owner primitive.ObjectID, id string) error
	Import(ctx context.Context, owner primitive.ObjectID, entries []models.SubscriberInput) *models.ImportResult
	Unsubscribe(ctx context.Context, email, token, campaignID string) (*models.Subscriber, error)
}

// TrackingService records opens and clicks reported by the tracking endpoints.
type TrackingService interface {
	RecordOpen(ctx context.Context, campaignID, subscriberID string) error
	RecordClick(ctx context.Context, campaignID, subscriberID, target string) (string, error)
}

// ContentService drafts campaign copy with a text-generation backend.
type ContentService interface {
	GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (string, error)
	GenerateSubject(ctx context.Context, content string) (string, error)
	Process(req *models.ProcessContentRequest) *models.ProcessContentRequest
}
