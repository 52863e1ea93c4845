package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/votely/server/internal/module/gateway"
)

// Status represents the status of a payment attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Method represents a payment method type.
type Method string

const (
	MethodCard   Method = "card"
	MethodPayPal Method = "paypal"
)

// Valid reports whether the method is a known payment method.
func (m Method) Valid() bool {
	return m == MethodCard || m == MethodPayPal
}

// Intent represents a payment attempt routed to a gateway.
type Intent struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID      string          `json:"session_id" gorm:"not null;index"`
	PlanID         uuid.UUID       `json:"plan_id" gorm:"type:uuid;not null;index"`
	CountryCode    string          `json:"country_code"`
	Gateway        gateway.Gateway `json:"gateway" gorm:"not null"`
	Method         Method          `json:"method"`
	AmountCents    int64           `json:"amount_cents"`
	Currency       string          `json:"currency" gorm:"default:USD"`
	Status         Status          `json:"status" gorm:"not null;default:pending"`
	TransactionID  string          `json:"-" gorm:"index"`
	CheckoutURL    string          `json:"-"`
	IdempotencyKey string          `json:"-" gorm:"index"`
	FeeMandatory   bool            `json:"fee_mandatory"`
	FailureCode    *string         `json:"failure_code,omitempty"`
	FailureMessage *string         `json:"failure_message,omitempty"`
	SucceededAt    *time.Time      `json:"succeeded_at,omitempty"`
	FailedAt       *time.Time      `json:"failed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName returns the database table name.
func (Intent) TableName() string {
	return "payment_intents"
}

// IsSucceeded returns true if the payment succeeded.
func (i *Intent) IsSucceeded() bool {
	return i.Status == StatusSucceeded
}

// WebhookEvent represents a stored gateway webhook event. The unique
// index on provider+event ID is what makes webhook delivery idempotent.
type WebhookEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Provider    string    `gorm:"not null;uniqueIndex:idx_provider_event"`
	EventID     string    `gorm:"not null;uniqueIndex:idx_provider_event"`
	EventType   string    `gorm:"not null"`
	Data        string    `gorm:"type:jsonb"`
	Processed   bool      `gorm:"default:false"`
	ProcessedAt *time.Time
	Error       *string
	CreatedAt   time.Time
}

// TableName returns the database table name.
func (WebhookEvent) TableName() string {
	return "payment_webhook_events"
}
