package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/votely/server/internal/module/plan"
)

// Service manages subscription lifecycle. Activation is driven by
// settled payments (webhook or verify), so it must tolerate replays.
type Service struct {
	repo   Repository
	plans  plan.Repository
	logger *zap.Logger
}

// NewService creates a new subscription service.
func NewService(repo Repository, plans plan.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		plans:  plans,
		logger: logger,
	}
}

// ActivateForSession creates an active subscription for a settled
// checkout session. Idempotent: replayed webhooks for the same session
// leave the existing subscription untouched.
func (s *Service) ActivateForSession(ctx context.Context, sessionID string, planID uuid.UUID) error {
	existing, err := s.repo.GetBySessionID(ctx, sessionID)
	if err == nil {
		s.logger.Debug("subscription already active for session",
			zap.String("session_id", sessionID),
			zap.String("subscription_id", existing.ID.String()))
		return nil
	}
	if !errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}

	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return fmt.Errorf("activate subscription: %w", err)
	}

	now := time.Now()
	sub := &Subscription{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserKey:   sessionID,
		PlanID:    p.ID,
		Status:    StatusActive,
		StartsAt:  now,
		ExpiresAt: now.AddDate(0, 0, p.DurationDays),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		// Concurrent activation for the same session loses the race on
		// the session_id unique index; the winner's row is the truth.
		if _, lookupErr := s.repo.GetBySessionID(ctx, sessionID); lookupErr == nil {
			return nil
		}
		return err
	}

	s.logger.Info("subscription activated",
		zap.String("session_id", sessionID),
		zap.String("plan_id", p.ID.String()),
		zap.Time("expires_at", sub.ExpiresAt))
	return nil
}

// ActiveForSession reports whether the session holds an unexpired
// active subscription.
func (s *Service) ActiveForSession(ctx context.Context, sessionID string) (bool, error) {
	sub, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.IsActive(), nil
}

// GetBySession returns the subscription attached to a checkout session.
func (s *Service) GetBySession(ctx context.Context, sessionID string) (*Subscription, error) {
	return s.repo.GetBySessionID(ctx, sessionID)
}

// Cancel marks a subscription as canceled. No proration; access runs
// until the caller stops honoring the row.
func (s *Service) Cancel(ctx context.Context, sessionID string) (*Subscription, error) {
	sub, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == StatusCanceled {
		return sub, nil
	}
	sub.Status = StatusCanceled
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("subscription canceled", zap.String("session_id", sessionID))
	return sub, nil
}
