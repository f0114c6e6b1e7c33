package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxCampaignName    = 100
	maxCampaignSubject = 200
)

// DispatchStarter starts a background dispatch.
type DispatchStarter interface {
	Start(ctx context.Context, campaignID primitive.ObjectID) error
}

// CampaignManager implements CampaignService.
type CampaignManager struct {
	campaigns repositories.CampaignRepository
	starter   DispatchStarter
}

var _ CampaignService = (*CampaignManager)(nil)

// NewCampaignManager creates a new CampaignManager
func NewCampaignManager(campaigns repositories.CampaignRepository, starter DispatchStarter) *CampaignManager {
	return &CampaignManager{campaigns: campaigns, starter: starter}
}

// List returns the owner's campaigns, newest first.
func (s *CampaignManager) List(ctx context.Context, owner primitive.ObjectID) ([]*models.Campaign, error) {
	return s.campaigns.FindByOwner(ctx, owner)
}

// Get returns one campaign the owner may access.
func (s *CampaignManager) Get(ctx context.Context, owner primitive.ObjectID, id string) (*models.Campaign, error) {
	oid, err := parseID("campaign", id)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("campaign", id)
		}
		return nil, err
	}
	if campaign.CreatedBy != owner {
		return nil, apperrors.ErrForbidden
	}
	return campaign, nil
}

// Create stores a new draft campaign owned by owner.
func (s *CampaignManager) Create(ctx context.Context, owner primitive.ObjectID, in *models.CampaignInput) (*models.Campaign, error) {
	campaign := &models.Campaign{
		Name:      strings.TrimSpace(in.Name),
		Subject:   strings.TrimSpace(in.Subject),
		Content:   in.Content,
		Status:    models.CampaignDraft,
		CreatedBy: owner,
	}
	if in.Status != "" {
		campaign.Status = in.Status
	}
	if in.SegmentationCriteria != nil {
		campaign.SegmentationCriteria = *in.SegmentationCriteria
	}

	var problems []string
	plan, err := models.ParsePlan(in.Type, in.Schedule)
	if err != nil {
		problems = append(problems, err.Error())
	} else {
		campaign.SetPlan(plan)
	}
	problems = append(problems, validateCampaign(campaign)...)
	if len(problems) > 0 {
		return nil, apperrors.NewValidation(problems...)
	}

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// Update applies the non-empty fields of in to an owned campaign.
func (s *CampaignManager) Update(ctx context.Context, owner primitive.ObjectID, id string, in *models.CampaignInput) (*models.Campaign, error) {
	campaign, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		campaign.Name = strings.TrimSpace(in.Name)
	}
	if in.Subject != "" {
		campaign.Subject = strings.TrimSpace(in.Subject)
	}
	if in.Content != "" {
		campaign.Content = in.Content
	}
	if in.Status != "" {
		campaign.Status = in.Status
	}
	if in.SegmentationCriteria != nil {
		campaign.SegmentationCriteria = *in.SegmentationCriteria
	}

	var problems []string
	if in.Type != "" || in.Schedule != nil {
		kind, schedule := in.Type, in.Schedule
		if kind == "" {
			kind = string(campaign.Type)
		}
		if schedule == nil {
			schedule = campaign.Schedule
		}
		plan, err := models.ParsePlan(kind, schedule)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			campaign.SetPlan(plan)
		}
	}
	problems = append(problems, validateCampaign(campaign)...)
	if len(problems) > 0 {
		return nil, apperrors.NewValidation(problems...)
	}

	if err := s.campaigns.Update(ctx, campaign); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("campaign", id)
		}
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return campaign, nil
}

// Delete removes an owned campaign.
func (s *CampaignManager) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	campaign, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, campaign.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFound("campaign", id)
		}
		return err
	}
	return nil
}

// Send starts a background dispatch of an owned campaign.
func (s *CampaignManager) Send(ctx context.Context, owner primitive.ObjectID, id string) (*models.Campaign, error) {
	campaign, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.starter.Start(ctx, campaign.ID); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Scheduled lists campaigns waiting in the scheduled status.
func (s *CampaignManager) Scheduled(ctx context.Context) ([]*models.Campaign, error) {
	return s.campaigns.FindByStatus(ctx, models.CampaignScheduled)
}

func validateCampaign(c *models.Campaign) []string {
	var problems []string
	switch {
	case c.Name == "":
		problems = append(problems, "Please add a campaign name")
	case utf8.RuneCountInString(c.Name) > maxCampaignName:
		problems = append(problems, fmt.Sprintf("Campaign name cannot be more than %d characters", maxCampaignName))
	}
	switch {
	case c.Subject == "":
		problems = append(problems, "Please add an email subject")
	case utf8.RuneCountInString(c.Subject) > maxCampaignSubject:
		problems = append(problems, fmt.Sprintf("Subject cannot be more than %d characters", maxCampaignSubject))
	}
	if strings.TrimSpace(c.Content) == "" {
		problems = append(problems, "Please add email content")
	}
	if !c.Status.Valid() {
		problems = append(problems, fmt.Sprintf("Invalid campaign status %q", c.Status))
	}
	return problems
}

// parseID turns a path id into an ObjectID. Malformed ids cannot match a
// document, so they are reported as not found.
func parseID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewNotFound(resource, id)
	}
	return oid, nil
}
