package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a subscription.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "canceled"
)

// Subscription represents an entitlement created by a settled checkout
// payment. SessionID ties it back to the checkout flow that paid for
// it; the unique index makes activation idempotent under webhook
// replays.
type Subscription struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex;not null"`
	UserKey   string    `json:"user_key" gorm:"index"`
	PlanID    uuid.UUID `json:"plan_id" gorm:"type:uuid;not null"`
	Status    Status    `json:"status" gorm:"not null;default:active"`
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive reports whether the subscription entitles the user right now.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive && time.Now().Before(s.ExpiresAt)
}
