package provider

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProvider implements the Provider interface for Stripe.
type StripeProvider struct {
	apiKey        string
	webhookSecret string
}

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
}

// NewStripeProvider creates a new Stripe provider.
func NewStripeProvider(config *StripeConfig) *StripeProvider {
	stripe.Key = config.APIKey
	return &StripeProvider{
		apiKey:        config.APIKey,
		webhookSecret: config.WebhookSecret,
	}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreatePayment creates a Stripe PaymentIntent. The client completes
// the charge in-app with the returned client secret.
func (p *StripeProvider) CreatePayment(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	params.Metadata = map[string]string{
		"session_id":   req.SessionID,
		"plan_id":      req.PlanID.String(),
		"country_code": req.CountryCode,
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &CreateResult{
		TransactionID: pi.ID,
		Data: map[string]any{
			"clientSecret":  pi.ClientSecret,
			"transactionId": pi.ID,
		},
	}, nil
}

// VerifyPayment reports whether the PaymentIntent has succeeded.
func (p *StripeProvider) VerifyPayment(ctx context.Context, transactionID string) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(transactionID, params)
	if err != nil {
		return false, fmt.Errorf("get payment intent: %w", err)
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

// VerifyWebhookSignature verifies a Stripe webhook signature header.
func (p *StripeProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	_, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	return err
}

// ParseWebhookEvent verifies and parses a Stripe webhook event.
func (p *StripeProvider) ParseWebhookEvent(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("construct event: %w", err)
	}
	return &event, nil
}
