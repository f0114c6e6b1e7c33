package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/pkg/distlock"
	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignDispatcher runs one dispatch to completion.
type CampaignDispatcher interface {
	Dispatch(ctx context.Context, campaignID primitive.ObjectID) (*models.DispatchResult, error)
}

// DispatchRunner starts dispatches in the background, at most one per
// campaign at a time.
type DispatchRunner struct {
	dispatcher CampaignDispatcher
	locker     distlock.Locker
	wg         sync.WaitGroup
}

// NewDispatchRunner creates a new DispatchRunner
func NewDispatchRunner(dispatcher CampaignDispatcher, locker distlock.Locker) *DispatchRunner {
	return &DispatchRunner{dispatcher: dispatcher, locker: locker}
}

// Start takes the campaign's dispatch lock and sends in a goroutine that is
// not tied to ctx. The outcome is only logged; callers follow progress
// through the campaign analytics.
func (r *DispatchRunner) Start(ctx context.Context, campaignID primitive.ObjectID) error {
	lock := r.locker.NewLock("dispatch:" + campaignID.Hex())
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire dispatch lock: %w", err)
	}
	if !ok {
		return apperrors.ErrDispatchInProgress
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		runCtx := context.Background()
		defer func() {
			if err := lock.Release(runCtx); err != nil {
				log.Warn("Failed to release dispatch lock", "campaign", campaignID.Hex(), "err", err)
			}
		}()
		defer func() {
			if p := recover(); p != nil {
				log.Error("Campaign dispatch panicked", "campaign", campaignID.Hex(), "panic", p)
			}
		}()

		result, err := r.dispatcher.Dispatch(runCtx, campaignID)
		if err != nil {
			log.Error("Campaign dispatch failed", "campaign", campaignID.Hex(), "err", err)
			return
		}
		logger := log.With("campaign", campaignID.Hex(), "sent", result.Sent, "failed", result.Failed)
		if result.Failed > 0 {
			logger.Warn("Campaign dispatch completed with failures", "firstError", result.Errors[0])
			return
		}
		logger.Info("Campaign dispatch completed")
	}()
	return nil
}

// Wait blocks until every started dispatch has returned.
func (r *DispatchRunner) Wait() {
	r.wg.Wait()
}
