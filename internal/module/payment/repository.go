package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for payment data access.
type Repository interface {
	CreateIntent(ctx context.Context, intent *Intent) error
	GetIntent(ctx context.Context, id uuid.UUID) (*Intent, error)
	GetIntentByTransactionID(ctx context.Context, transactionID string) (*Intent, error)
	UpdateIntent(ctx context.Context, intent *Intent) error
	ListIntentsBySession(ctx context.Context, sessionID string) ([]*Intent, error)

	CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error
	WebhookEventExists(ctx context.Context, providerName, eventID string) (bool, error)
	MarkWebhookEventProcessed(ctx context.Context, id uuid.UUID, err error) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIntent(ctx context.Context, intent *Intent) error {
	if err := r.db.WithContext(ctx).Create(intent).Error; err != nil {
		return fmt.Errorf("create payment intent: %w", err)
	}
	return nil
}

func (r *repository) GetIntent(ctx context.Context, id uuid.UUID) (*Intent, error) {
	var intent Intent
	err := r.db.WithContext(ctx).First(&intent, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return &intent, nil
}

func (r *repository) GetIntentByTransactionID(ctx context.Context, transactionID string) (*Intent, error) {
	var intent Intent
	err := r.db.WithContext(ctx).First(&intent, "transaction_id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment intent by transaction id: %w", err)
	}
	return &intent, nil
}

func (r *repository) UpdateIntent(ctx context.Context, intent *Intent) error {
	if err := r.db.WithContext(ctx).Save(intent).Error; err != nil {
		return fmt.Errorf("update payment intent: %w", err)
	}
	return nil
}

func (r *repository) ListIntentsBySession(ctx context.Context, sessionID string) ([]*Intent, error) {
	var intents []*Intent
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("list payment intents by session: %w", err)
	}
	return intents, nil
}

func (r *repository) CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create webhook event: %w", err)
	}
	return nil
}

func (r *repository) WebhookEventExists(ctx context.Context, providerName, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&WebhookEvent{}).
		Where("provider = ? AND event_id = ?", providerName, eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check webhook event exists: %w", err)
	}
	return count > 0, nil
}

func (r *repository) MarkWebhookEventProcessed(ctx context.Context, id uuid.UUID, processErr error) error {
	updates := map[string]interface{}{
		"processed":    true,
		"processed_at": gorm.Expr("NOW()"),
	}
	if processErr != nil {
		errStr := processErr.Error()
		updates["error"] = errStr
	}
	err := r.db.WithContext(ctx).
		Model(&WebhookEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}
