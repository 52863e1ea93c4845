package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment"
	"github.com/votely/server/internal/module/plan"
	"github.com/votely/server/internal/module/region"
	"github.com/votely/server/internal/utils/metrics"
)

// SubscriptionStatus exposes the subscription collaborator's view of a
// checkout session, re-fetched on confirmation to prove settlement.
type SubscriptionStatus interface {
	ActiveForSession(ctx context.Context, sessionID string) (bool, error)
}

// Service drives the checkout flow: one persisted session advanced
// step by step through the state machine, with the gateway router and
// payment orchestrator doing the outbound work.
type Service struct {
	sessions      Store
	plans         plan.Repository
	router        *gateway.Router
	resolver      *region.Resolver
	orchestrator  *payment.Orchestrator
	subscriptions SubscriptionStatus
	sm            *StateMachine
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewService creates a new checkout service.
func NewService(
	sessions Store,
	plans plan.Repository,
	router *gateway.Router,
	resolver *region.Resolver,
	orchestrator *payment.Orchestrator,
	subscriptions SubscriptionStatus,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessions:      sessions,
		plans:         plans,
		router:        router,
		resolver:      resolver,
		orchestrator:  orchestrator,
		subscriptions: subscriptions,
		sm:            NewStateMachine(),
		metrics:       m,
		logger:        logger,
	}
}

// Start creates a new checkout session at the plan-selection step.
func (s *Service) Start(ctx context.Context, userKey, countryCode string) (*Session, error) {
	session := NewSession(userKey, s.resolver.NormalizeCountry(countryCode))
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Load reconstructs a session mid-flow. The step comes back exactly as
// persisted; a page reload never resets an in-flight checkout.
func (s *Service) Load(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Load(ctx, id)
}

// SelectPlan records the plan choice and advances to gateway selection.
func (s *Service) SelectPlan(ctx context.Context, sessionID string, planID uuid.UUID) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, plan.ErrPlanInactive
	}

	if err := s.transition(session, StepGatewaySelection); err != nil {
		return nil, err
	}
	session.SelectedPlanID = &p.ID

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectGateway records the gateway and payment method choice. The
// gateway must be among the routed candidates for the session's region
// and plan. The step does not change; proceeding is explicit.
func (s *Service) SelectGateway(ctx context.Context, sessionID string, gw gateway.Gateway, method payment.Method) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != StepGatewaySelection && session.Step != StepPayment {
		return nil, fmt.Errorf("%w: cannot select gateway at step %s", ErrInvalidTransition, session.Step)
	}
	if session.PaymentInFlight() {
		return nil, ErrPaymentPending
	}
	if session.SelectedPlanID == nil {
		return nil, fmt.Errorf("%w: no plan selected", ErrInvalidTransition)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	reg := s.resolver.Resolve(session.CountryCode)
	if err := s.router.Validate(ctx, reg, *session.SelectedPlanID, session.UserKey, gw); err != nil {
		return nil, err
	}

	if gw != session.SelectedGateway {
		// A transaction opened on the previous gateway cannot be
		// verified through the new one.
		session.TransactionID = ""
	}
	session.SelectedGateway = gw
	session.PaymentMethod = method
	session.PaymentState = PaymentIdle
	session.LastError = ""

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ProceedToPayment starts the charge for the session's selections. On
// success the session moves to the payment step; on failure it stays
// where it is with the payment state marked failed, so the user can
// change gateway or method and retry without re-selecting a plan.
func (s *Service) ProceedToPayment(ctx context.Context, sessionID string) (*payment.Disposition, *Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if session.SelectedGateway == "" {
		return nil, nil, ErrNoGatewaySelected
	}
	if session.PaymentInFlight() {
		return nil, nil, ErrPaymentPending
	}
	if session.Step != StepGatewaySelection && session.Step != StepPayment {
		return nil, nil, fmt.Errorf("%w: cannot proceed to payment from step %s", ErrInvalidTransition, session.Step)
	}

	p, err := s.plans.Get(ctx, *session.SelectedPlanID)
	if err != nil {
		return nil, nil, err
	}
	charge, err := plan.ComputeCharge(p)
	if err != nil {
		return nil, nil, err
	}

	session.PaymentState = PaymentPending
	session.LastError = ""
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	disposition, err := s.orchestrator.CreatePayment(ctx, &payment.CreatePaymentInput{
		SessionID:   session.ID,
		Plan:        p,
		CountryCode: session.CountryCode,
		Gateway:     session.SelectedGateway,
		Method:      session.PaymentMethod,
		Charge:      charge,
	})
	if err != nil {
		session.PaymentState = PaymentFailed
		session.LastError = err.Error()
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			s.logger.Error("failed to persist failed payment state", zap.Error(saveErr))
		}
		return nil, session, err
	}

	if session.Step == StepGatewaySelection {
		if err := s.transition(session, StepPayment); err != nil {
			return nil, nil, err
		}
	}
	session.TransactionID = disposition.TransactionID
	if disposition.Type == payment.DispositionRedirect {
		session.PaymentState = PaymentRedirecting
	} else {
		session.PaymentState = PaymentPending
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	return disposition, session, nil
}

// VerifyAndConfirm checks settlement with the gateway after the client
// returns from an external redirect or completes the in-app element.
// Verified payments confirm the session; unverified ones leave it
// untouched so the client can poll again.
func (s *Service) VerifyAndConfirm(ctx context.Context, sessionID string) (bool, *Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}
	if session.TransactionID == "" {
		return false, nil, ErrNoPaymentToVerify
	}

	verified, err := s.orchestrator.VerifyPayment(ctx, session.TransactionID, session.SelectedGateway)
	if err != nil {
		return false, session, err
	}
	if !verified {
		return false, session, nil
	}

	session, err = s.ConfirmSuccess(ctx, sessionID)
	if err != nil {
		return true, session, err
	}
	return true, session, nil
}

// ConfirmSuccess moves a paid session to the confirmation step and
// re-fetches the subscription status to confirm the settlement took
// effect.
func (s *Service) ConfirmSuccess(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(session, StepConfirmation); err != nil {
		return nil, err
	}
	session.PaymentState = PaymentSucceeded
	session.LastError = ""

	active, err := s.subscriptions.ActiveForSession(ctx, session.ID)
	if err != nil {
		s.logger.Warn("subscription status re-fetch failed",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	} else if !active {
		s.logger.Warn("payment confirmed but subscription not yet active",
			zap.String("session_id", session.ID),
		)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back returns to the previous step, clearing the fields the user is
// stepping away from. It is not available while a payment is pending.
func (s *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PaymentInFlight() {
		return nil, ErrPaymentPending
	}

	target := backTarget(session.Step)
	if target == "" {
		return nil, fmt.Errorf("%w: cannot go back from step %s", ErrInvalidTransition, session.Step)
	}
	if err := s.transition(session, target); err != nil {
		return nil, err
	}

	switch target {
	case StepPlanSelection:
		session.clearSelection()
	case StepGatewaySelection:
		session.clearGateway()
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Reset returns the session to plan-selection with all choices
// cleared. Like Back, it refuses while a payment is pending.
func (s *Service) Reset(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PaymentInFlight() {
		return nil, ErrPaymentPending
	}

	if session.Step != StepPlanSelection {
		if err := s.transition(session, StepPlanSelection); err != nil {
			// The confirmation and gateway steps can return directly;
			// the payment step routes through gateway-selection.
			if !errors.Is(err, ErrInvalidTransition) {
				return nil, err
			}
			session.Step = StepPlanSelection
			s.metrics.RecordCheckoutTransition(string(StepPayment), string(StepPlanSelection))
		}
	}
	session.clearSelection()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) transition(session *Session, to Step) error {
	from := session.Step
	if err := s.sm.Transition(session, to); err != nil {
		return err
	}
	s.metrics.RecordCheckoutTransition(string(from), string(to))
	return nil
}
