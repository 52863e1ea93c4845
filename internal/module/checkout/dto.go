package checkout

import (
	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment"
)

// StartSessionRequest is the body of POST /checkout/sessions.
type StartSessionRequest struct {
	UserKey     string `json:"user_key"`
	CountryCode string `json:"country_code" binding:"required"`
}

// SelectPlanRequest is the body of the plan-selection step.
type SelectPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// SelectGatewayRequest is the body of the gateway-selection step.
type SelectGatewayRequest struct {
	Gateway       gateway.Gateway `json:"gateway" binding:"required"`
	PaymentMethod payment.Method  `json:"payment_method" binding:"required"`
}

// SessionResponse wraps a session for API responses.
type SessionResponse struct {
	Session *Session `json:"session"`
}

// ProceedResponse is the response of the proceed-to-payment step.
type ProceedResponse struct {
	Success     bool                    `json:"success"`
	Session     *Session                `json:"session,omitempty"`
	Gateway     gateway.Gateway         `json:"gateway,omitempty"`
	Disposition payment.DispositionType `json:"disposition,omitempty"`
	PaymentData *payment.PaymentData    `json:"paymentData,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Retryable   bool                    `json:"retryable,omitempty"`
}

// VerifyResponse is the response of the verification step.
type VerifyResponse struct {
	Verification payment.VerificationResult `json:"verification"`
	Session      *Session                   `json:"session,omitempty"`
}
