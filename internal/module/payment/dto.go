package payment

import (
	"github.com/shopspring/decimal"

	"github.com/votely/server/internal/module/gateway"
)

// CreatePaymentRequest is the body of POST /payments/create. Amount is
// the total the client expects to be charged, in major currency units;
// it is cross-checked against the server-side fee computation so a
// stale client price can never drive the charge.
type CreatePaymentRequest struct {
	PlanID        string          `json:"plan_id" binding:"required"`
	CountryCode   string          `json:"country_code" binding:"required"`
	PaymentMethod Method          `json:"payment_method" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"required"`
	// Gateway is optional; when omitted the recommended candidate for
	// the resolved region is used.
	Gateway gateway.Gateway `json:"gateway"`
}

// PaymentData carries the gateway-specific handle the client needs to
// complete the charge. Exactly one of ClientSecret or CheckoutURL is
// present.
type PaymentData struct {
	ClientSecret  string `json:"clientSecret,omitempty"`
	CheckoutURL   string `json:"checkoutUrl,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

// CreatePaymentResponse is the response of POST /payments/create.
type CreatePaymentResponse struct {
	Success     bool            `json:"success"`
	Gateway     gateway.Gateway `json:"gateway,omitempty"`
	Disposition DispositionType `json:"disposition,omitempty"`
	PaymentData *PaymentData    `json:"paymentData,omitempty"`
	Error       string          `json:"error,omitempty"`
	Retryable   bool            `json:"retryable,omitempty"`
}

// VerifyPaymentRequest is the body of POST /payments/verify.
type VerifyPaymentRequest struct {
	PaymentID string          `json:"paymentId" binding:"required"`
	Gateway   gateway.Gateway `json:"gateway" binding:"required"`
}

// VerificationResult reports whether a payment settled.
type VerificationResult struct {
	Verified bool `json:"verified"`
}

// VerifyPaymentResponse is the response of POST /payments/verify.
type VerifyPaymentResponse struct {
	Verification VerificationResult `json:"verification"`
}
