package provider

import (
	"context"

	"github.com/google/uuid"
)

// CreateRequest carries everything a provider needs to start a charge.
// AmountCents is in the smallest currency unit.
type CreateRequest struct {
	SessionID     string
	PlanID        uuid.UUID
	PlanName      string
	CountryCode   string
	PaymentMethod string
	// ProviderPriceID is the gateway's catalog price for the plan.
	// Required by Paddle, ignored by Stripe.
	ProviderPriceID string
	AmountCents     int64
	Currency        string
	IdempotencyKey  string
	Metadata        map[string]string
}

// CreateResult is a provider's raw success payload. Data keeps the
// provider's own field names; normalization into a uniform shape
// happens in the orchestrator, and unrecognized shapes are treated as
// failures there rather than silently passed through.
type CreateResult struct {
	TransactionID string
	Data          map[string]any
}

// Provider defines the interface for payment providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// CreatePayment initiates a charge and returns the provider's raw
	// success payload.
	CreatePayment(ctx context.Context, req *CreateRequest) (*CreateResult, error)

	// VerifyPayment reports whether the transaction has settled on the
	// provider's side.
	VerifyPayment(ctx context.Context, transactionID string) (bool, error)

	// VerifyWebhookSignature verifies an incoming webhook payload.
	VerifyWebhookSignature(payload []byte, signature string) error
}
