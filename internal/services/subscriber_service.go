package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"github.com/ArowuTest/zithara-mail-backend/internal/utils"
	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// SubscriberManager implements SubscriberService.
type SubscriberManager struct {
	subscribers repositories.SubscriberRepository
	campaigns   repositories.CampaignRepository
	now         func() time.Time
}

var _ SubscriberService = (*SubscriberManager)(nil)

// NewSubscriberManager creates a new SubscriberManager
func NewSubscriberManager(subscribers repositories.SubscriberRepository, campaigns repositories.CampaignRepository) *SubscriberManager {
	return &SubscriberManager{subscribers: subscribers, campaigns: campaigns, now: time.Now}
}

// List returns one page of the owner's subscribers.
func (s *SubscriberManager) List(ctx context.Context, filter models.SubscriberFilter) ([]*models.Subscriber, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	subscribers, total, err := s.subscribers.Find(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}
	return subscribers, &models.Pagination{Total: total, Page: filter.Page, Limit: filter.Limit, Pages: pages}, nil
}

// Active returns every active subscriber of owner.
func (s *SubscriberManager) Active(ctx context.Context, owner primitive.ObjectID) ([]*models.Subscriber, error) {
	return s.subscribers.FindActive(ctx, owner, nil)
}

// Get returns one subscriber the owner may access.
func (s *SubscriberManager) Get(ctx context.Context, owner primitive.ObjectID, id string) (*models.Subscriber, error) {
	oid, err := parseID("subscriber", id)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscribers.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("subscriber", id)
		}
		return nil, err
	}
	if sub.CreatedBy != owner {
		return nil, apperrors.ErrForbidden
	}
	return sub, nil
}

// Create adds a manually entered subscriber.
func (s *SubscriberManager) Create(ctx context.Context, owner primitive.ObjectID, in *models.SubscriberInput) (*models.Subscriber, error) {
	return s.create(ctx, owner, in, models.SourceManual)
}

func (s *SubscriberManager) create(ctx context.Context, owner primitive.ObjectID, in *models.SubscriberInput, source string) (*models.Subscriber, error) {
	email := utils.NormalizeEmail(in.Email)
	if problems := validateSubscriber(email, in.Status); len(problems) > 0 {
		return nil, apperrors.NewValidation(problems...)
	}

	if _, err := s.subscribers.FindByEmailAndOwner(ctx, email, owner); err == nil {
		return nil, apperrors.ErrDuplicateSubscriber
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	sub := &models.Subscriber{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Status:       models.SubscriberActive,
		Source:       source,
		Tags:         in.Tags,
		CustomFields: in.CustomFields,
		CreatedBy:    owner,
	}
	if in.Status != "" {
		sub.Status = in.Status
	}
	if err := s.subscribers.Create(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateSubscriber
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return sub, nil
}

// Update applies the non-empty fields of in to an owned subscriber.
func (s *SubscriberManager) Update(ctx context.Context, owner primitive.ObjectID, id string, in *models.SubscriberInput) (*models.Subscriber, error) {
	sub, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		email := utils.NormalizeEmail(in.Email)
		if email != sub.Email {
			if _, err := s.subscribers.FindByEmailAndOwner(ctx, email, owner); err == nil {
				return nil, apperrors.ErrDuplicateSubscriber
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
		}
		sub.Email = email
	}
	if in.FirstName != "" {
		sub.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		sub.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Status != "" {
		sub.Status = in.Status
	}
	if in.Tags != nil {
		sub.Tags = in.Tags
	}
	if in.CustomFields != nil {
		sub.CustomFields = in.CustomFields
	}
	if problems := validateSubscriber(sub.Email, sub.Status); len(problems) > 0 {
		return nil, apperrors.NewValidation(problems...)
	}

	if err := s.subscribers.Update(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("subscriber", id)
		}
		return nil, fmt.Errorf("update subscriber: %w", err)
	}
	return sub, nil
}

// Delete removes an owned subscriber.
func (s *SubscriberManager) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	sub, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.subscribers.Delete(ctx, sub.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFound("subscriber", id)
		}
		return err
	}
	return nil
}

// Import creates subscribers in bulk. Entries without an email fail,
// entries whose email the owner already has count as duplicates.
func (s *SubscriberManager) Import(ctx context.Context, owner primitive.ObjectID, entries []models.SubscriberInput) *models.ImportResult {
	result := &models.ImportResult{Errors: []string{}}
	for i := range entries {
		in := &entries[i]
		if strings.TrimSpace(in.Email) == "" {
			result.Failed++
			entry, _ := json.Marshal(in)
			result.Errors = append(result.Errors, fmt.Sprintf("Missing email for entry: %s", entry))
			continue
		}

		_, err := s.create(ctx, owner, in, models.SourceImport)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, apperrors.ErrDuplicateSubscriber):
			result.Duplicates++
		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Error importing %s: %v", in.Email, err))
		}
	}
	return result
}

// Unsubscribe handles the self-service link. token is the subscriber id.
// When campaignID names a campaign of the same owner the unsubscribe is
// attributed to it.
func (s *SubscriberManager) Unsubscribe(ctx context.Context, email, token, campaignID string) (*models.Subscriber, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(token) == "" {
		return nil, apperrors.NewValidation("Missing email or token")
	}
	sid, err := parseID("subscriber", token)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscribers.FindByIDAndEmail(ctx, sid, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("subscriber", token)
		}
		return nil, err
	}

	wasActive := sub.Status == models.SubscriberActive
	if err := s.subscribers.UpdateStatus(ctx, sub.ID, models.SubscriberUnsubscribed); err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	sub.Status = models.SubscriberUnsubscribed

	if cid, err := primitive.ObjectIDFromHex(campaignID); err == nil && wasActive {
		s.attributeUnsubscribe(ctx, sub, cid)
	}
	return sub, nil
}

func (s *SubscriberManager) attributeUnsubscribe(ctx context.Context, sub *models.Subscriber, cid primitive.ObjectID) {
	campaign, err := s.campaigns.FindByID(ctx, cid)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Warn("Failed to load campaign for unsubscribe", "campaign", cid.Hex(), "err", err)
		}
		return
	}
	if campaign.CreatedBy != sub.CreatedBy {
		log.Warn("Ignoring unsubscribe for another owner's campaign", "campaign", cid.Hex(), "subscriber", sub.ID.Hex())
		return
	}

	if err := s.campaigns.IncrementAnalytics(ctx, cid, models.AnalyticsUnsubscribed, 1); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Warn("Failed to count unsubscribe", "campaign", cid.Hex(), "err", err)
		}
		return
	}
	_, err = s.subscribers.AppendActivityOnce(ctx, sub.ID, models.Activity{
		Campaign:  cid,
		Action:    models.ActionUnsubscribed,
		Timestamp: s.now(),
	})
	if err != nil {
		log.Warn("Failed to record unsubscribe activity", "subscriber", sub.ID.Hex(), "err", err)
	}
}

func validateSubscriber(email string, status models.SubscriberStatus) []string {
	var problems []string
	if email == "" {
		problems = append(problems, "Please add an email")
	} else if !utils.ValidateEmail(email) {
		problems = append(problems, "Please add a valid email")
	}
	if status != "" && !status.Valid() {
		problems = append(problems, fmt.Sprintf("Invalid subscriber status %q", status))
	}
	return problems
}
