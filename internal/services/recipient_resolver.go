package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipientResolver materializes the set of subscribers a campaign goes to.
type RecipientResolver struct {
	subscribers repositories.SubscriberRepository
}

// NewRecipientResolver creates a new RecipientResolver
func NewRecipientResolver(subscribers repositories.SubscriberRepository) *RecipientResolver {
	return &RecipientResolver{subscribers: subscribers}
}

// Resolve returns the owner's active subscribers matching criteria. The
// result is a snapshot: subscribers added later are not included.
func (r *RecipientResolver) Resolve(ctx context.Context, owner primitive.ObjectID, criteria models.Segmentation) ([]*models.Subscriber, error) {
	found, err := r.subscribers.FindActive(ctx, owner, criteria.Tags)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}

	recipients := found[:0]
	for _, s := range found {
		if s.Status == models.SubscriberActive && s.Email != "" {
			recipients = append(recipients, s)
		}
	}
	return recipients, nil
}
