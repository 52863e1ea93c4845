package subscription

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines the interface for subscription data access.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetBySessionID(ctx context.Context, sessionID string) (*Subscription, error)
	ListByUserKey(ctx context.Context, userKey string) ([]*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new subscription repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *repository) GetBySessionID(ctx context.Context, sessionID string) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).First(&sub, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("get subscription by session: %w", err)
	}
	return &sub, nil
}

func (r *repository) ListByUserKey(ctx context.Context, userKey string) ([]*Subscription, error) {
	var subs []*Subscription
	err := r.db.WithContext(ctx).
		Where("user_key = ?", userKey).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by user: %w", err)
	}
	return subs, nil
}

func (r *repository) Update(ctx context.Context, sub *Subscription) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}
