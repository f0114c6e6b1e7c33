package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"github.com/ArowuTest/zithara-mail-backend/internal/utils"
	"github.com/ArowuTest/zithara-mail-backend/pkg/mailer"
	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// FooterRenderer renders the unsubscribe footer appended to each message.
type FooterRenderer interface {
	Footer(unsubscribeURL string) (string, error)
}

// DispatchOptions tunes batching.
type DispatchOptions struct {
	BatchSize   int
	BatchDelay  time.Duration
	Concurrency int
}

// Dispatcher sends one campaign to its resolved recipients.
type Dispatcher struct {
	campaigns   repositories.CampaignRepository
	subscribers repositories.SubscriberRepository
	resolver    *RecipientResolver
	mail        mailer.Client
	links       *LinkBuilder
	footer      FooterRenderer
	opts        DispatchOptions

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	campaigns repositories.CampaignRepository,
	subscribers repositories.SubscriberRepository,
	mail mailer.Client,
	links *LinkBuilder,
	footer FooterRenderer,
	opts DispatchOptions,
) *Dispatcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Concurrency <= 0 || opts.Concurrency > opts.BatchSize {
		opts.Concurrency = opts.BatchSize
	}
	return &Dispatcher{
		campaigns:   campaigns,
		subscribers: subscribers,
		resolver:    NewRecipientResolver(subscribers),
		mail:        mail,
		links:       links,
		footer:      footer,
		opts:        opts,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Dispatch sends campaignID to every eligible subscriber.
//
// Configuration and lookup failures are returned before anything is sent.
// Per-recipient failures are counted in the result and never abort the run.
// The campaign's sent and failed counters are incremented once at the end.
func (d *Dispatcher) Dispatch(ctx context.Context, campaignID primitive.ObjectID) (*models.DispatchResult, error) {
	campaign, err := d.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("campaign", campaignID.Hex())
		}
		return nil, fmt.Errorf("load campaign: %w", err)
	}

	if err := d.mail.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify mail provider: %w", err)
	}

	recipients, err := d.resolver.Resolve(ctx, campaign.CreatedBy, campaign.SegmentationCriteria)
	if err != nil {
		return nil, err
	}

	result := &models.DispatchResult{Errors: []string{}}
	if len(recipients) == 0 {
		log.Info("No active subscribers for campaign", "campaign", campaignID.Hex())
		return result, nil
	}

	log.Info("Dispatching campaign", "campaign", campaignID.Hex(), "recipients", len(recipients), "batchSize", d.opts.BatchSize)

	var mu sync.Mutex
	var runErr error
	for start := 0; start < len(recipients); start += d.opts.BatchSize {
		end := min(start+d.opts.BatchSize, len(recipients))

		var g errgroup.Group
		g.SetLimit(d.opts.Concurrency)
		for _, sub := range recipients[start:end] {
			sub := sub
			g.Go(func() error {
				err := d.sendTo(ctx, campaign, sub)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, fmt.Sprintf("Failed to send to %s: %s", sub.Email, deliveryMessage(err)))
					return nil
				}
				result.Sent++
				return nil
			})
		}
		_ = g.Wait()

		if end < len(recipients) {
			if err := d.sleep(ctx, d.opts.BatchDelay); err != nil {
				runErr = err
				break
			}
		}
	}

	if err := d.campaigns.RecordDispatch(context.WithoutCancel(ctx), campaignID, result.Sent, result.Failed, d.now()); err != nil {
		return result, fmt.Errorf("record dispatch totals: %w", err)
	}

	log.Info("Campaign dispatch finished", "campaign", campaignID.Hex(), "sent", result.Sent, "failed", result.Failed)
	return result, runErr
}

// sendTo renders and sends one message. A failure to record the sent
// activity is logged and does not fail the send.
func (d *Dispatcher) sendTo(ctx context.Context, campaign *models.Campaign, sub *models.Subscriber) error {
	cid, sid := campaign.ID.Hex(), sub.ID.Hex()

	subject := PersonalizeFor(campaign.Subject, sub)
	body := PersonalizeFor(campaign.Content, sub)
	body = d.links.RewriteLinks(body, cid, sid)

	footer, err := d.footer.Footer(d.links.UnsubscribeURL(sub.Email, sid, cid))
	if err != nil {
		return fmt.Errorf("render footer: %w", err)
	}
	body += footer
	text := utils.StripHTML(body)
	body += d.links.PixelTag(cid, sid)

	messageID, err := d.mail.SendOne(ctx, mailer.Envelope{
		To:      sub.Email,
		Subject: subject,
		HTML:    body,
		Text:    text,
	})
	if err != nil {
		return err
	}

	activity := models.Activity{
		Campaign:  campaign.ID,
		Action:    models.ActionSent,
		Timestamp: d.now(),
		Metadata:  map[string]interface{}{"messageId": messageID},
	}
	if err := d.subscribers.AppendActivity(ctx, sub.ID, activity); err != nil {
		log.Warn("Failed to record sent activity", "subscriber", sid, "campaign", cid, "err", err)
	}
	return nil
}

func deliveryMessage(err error) string {
	var de *apperrors.DeliveryError
	if errors.As(err, &de) {
		return de.ProviderMessage
	}
	return err.Error()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
