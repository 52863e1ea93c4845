package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment"
)

// Step is a screen in the checkout flow.
type Step string

const (
	StepPlanSelection    Step = "plan-selection"
	StepGatewaySelection Step = "gateway-selection"
	StepPayment          Step = "payment"
	StepConfirmation     Step = "confirmation"
)

// PaymentState tracks the session's payment attempt independently of
// the step, so an in-flight charge can block navigation.
type PaymentState string

const (
	PaymentIdle        PaymentState = "idle"
	PaymentPending     PaymentState = "pending"
	PaymentRedirecting PaymentState = "redirecting"
	PaymentSucceeded   PaymentState = "success"
	PaymentFailed      PaymentState = "failed"
)

// Session is the persisted state of one checkout flow. It is mutated
// only by its owning flow and survives page reloads; loading a session
// mid-flow reconstructs the same step rather than silently resetting.
type Session struct {
	ID          string `json:"id"`
	UserKey     string `json:"user_key"`
	CountryCode string `json:"country_code"`

	Step            Step            `json:"step"`
	SelectedPlanID  *uuid.UUID      `json:"selected_plan_id,omitempty"`
	SelectedGateway gateway.Gateway `json:"selected_gateway,omitempty"`
	PaymentMethod   payment.Method  `json:"payment_method,omitempty"`

	PaymentState  PaymentState `json:"payment_state"`
	TransactionID string       `json:"transaction_id,omitempty"`
	LastError     string       `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a fresh session at the plan-selection step.
func NewSession(userKey, countryCode string) *Session {
	now := time.Now()
	s := &Session{
		ID:           uuid.NewString(),
		UserKey:      userKey,
		CountryCode:  countryCode,
		Step:         StepPlanSelection,
		PaymentState: PaymentIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.UserKey == "" {
		s.UserKey = s.ID
	}
	return s
}

// PaymentInFlight reports whether a charge is currently pending.
func (s *Session) PaymentInFlight() bool {
	return s.PaymentState == PaymentPending
}

// clearSelection drops the forward-only fields for a return to
// plan-selection.
func (s *Session) clearSelection() {
	s.SelectedPlanID = nil
	s.clearGateway()
}

// clearGateway drops the gateway choice and any payment outcome.
func (s *Session) clearGateway() {
	s.SelectedGateway = ""
	s.PaymentMethod = ""
	s.PaymentState = PaymentIdle
	s.TransactionID = ""
	s.LastError = ""
}
