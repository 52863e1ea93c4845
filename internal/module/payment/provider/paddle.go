package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleProvider implements the Provider interface for Paddle.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

// PaddleConfig holds Paddle configuration.
type PaddleConfig struct {
	APIKey        string
	WebhookSecret string
	Environment   string
}

// NewPaddleProvider creates a new Paddle provider.
func NewPaddleProvider(config *PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("paddle API key is required")
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", config.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(config.WebhookSecret),
	}, nil
}

// Name returns the provider name.
func (p *PaddleProvider) Name() string {
	return "paddle"
}

// CreatePayment creates a Paddle transaction for the plan's catalog
// price. The client completes the charge on Paddle's hosted checkout,
// so the payload carries a checkout URL when Paddle returns one and
// always carries the transaction ID.
func (p *PaddleProvider) CreatePayment(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	if req.ProviderPriceID == "" {
		return nil, errors.New("paddle price ID is required")
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.ProviderPriceID,
		Quantity: 1,
	})

	transactionReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"session_id":   req.SessionID,
			"plan_id":      req.PlanID.String(),
			"country_code": req.CountryCode,
		},
	}
	for k, v := range req.Metadata {
		transactionReq.CustomData[k] = v
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		return nil, fmt.Errorf("create paddle transaction: %w", err)
	}

	data := map[string]any{
		"transactionId": transaction.ID,
	}
	if transaction.Checkout != nil && transaction.Checkout.URL != nil {
		data["checkoutUrl"] = *transaction.Checkout.URL
	}

	return &CreateResult{
		TransactionID: transaction.ID,
		Data:          data,
	}, nil
}

// VerifyPayment reports whether the transaction has been paid.
func (p *PaddleProvider) VerifyPayment(ctx context.Context, transactionID string) (bool, error) {
	transaction, err := p.client.TransactionsClient.GetTransaction(ctx, &paddle.GetTransactionRequest{
		TransactionID: transactionID,
	})
	if err != nil {
		return false, fmt.Errorf("get paddle transaction: %w", err)
	}

	switch string(transaction.Status) {
	case "completed", "paid":
		return true, nil
	}
	return false, nil
}

// VerifyWebhookSignature verifies the Paddle-Signature header against
// the raw payload.
func (p *PaddleProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	req, err := http.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return fmt.Errorf("webhook verification: %w", err)
	}
	if !valid {
		return errors.New("webhook signature verification failed")
	}
	return nil
}
