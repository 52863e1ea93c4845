package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/plan"
	"github.com/votely/server/internal/module/payment/provider"
	"github.com/votely/server/internal/utils/metrics"
)

// CreatePaymentInput carries everything the orchestrator needs to
// start a charge for a checkout session.
type CreatePaymentInput struct {
	SessionID   string
	Plan        *plan.Plan
	CountryCode string
	Gateway     gateway.Gateway
	Method      Method
	Charge      plan.Charge
}

// Orchestrator drives payment creation and verification against the
// registered gateway providers. Calls are bounded by a timeout, guarded
// by a per-gateway circuit breaker, and retried once when the failure
// is transient.
type Orchestrator struct {
	repo     Repository
	registry *ProviderRegistry
	metrics  *metrics.Metrics
	logger   *zap.Logger

	callTimeout        time.Duration
	paddleCheckoutBase string

	// inFlight enforces at most one payment creation per session.
	mu       sync.Mutex
	inFlight map[string]struct{}

	breakerMu sync.Mutex
	breakers  map[gateway.Gateway]*gobreaker.CircuitBreaker[*provider.CreateResult]
}

// NewOrchestrator creates a new payment orchestrator.
func NewOrchestrator(
	repo Repository,
	registry *ProviderRegistry,
	m *metrics.Metrics,
	callTimeout time.Duration,
	paddleCheckoutBase string,
	logger *zap.Logger,
) *Orchestrator {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &Orchestrator{
		repo:               repo,
		registry:           registry,
		metrics:            m,
		logger:             logger,
		callTimeout:        callTimeout,
		paddleCheckoutBase: paddleCheckoutBase,
		inFlight:           make(map[string]struct{}),
		breakers:           make(map[gateway.Gateway]*gobreaker.CircuitBreaker[*provider.CreateResult]),
	}
}

// CreatePayment starts a charge on the selected gateway and returns
// the normalized disposition. The double-submission guard rejects a
// second call for the same session before any network traffic happens.
func (o *Orchestrator) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*Disposition, error) {
	if !input.Method.Valid() {
		return nil, terminalError(fmt.Errorf("unsupported payment method: %s", input.Method))
	}

	if !o.acquireSession(input.SessionID) {
		return nil, terminalError(ErrPaymentInFlight)
	}
	defer o.releaseSession(input.SessionID)

	p, err := o.registry.GetByGateway(input.Gateway)
	if err != nil {
		return nil, terminalError(err)
	}

	intent := &Intent{
		ID:             uuid.New(),
		SessionID:      input.SessionID,
		PlanID:         input.Plan.ID,
		CountryCode:    input.CountryCode,
		Gateway:        input.Gateway,
		Method:         input.Method,
		AmountCents:    input.Charge.AmountInCents(),
		Currency:       input.Charge.Currency,
		Status:         StatusPending,
		IdempotencyKey: uuid.NewString(),
		FeeMandatory:   input.Charge.FeeMandatory,
	}
	if err := o.repo.CreateIntent(ctx, intent); err != nil {
		o.logger.Error("failed to persist payment intent", zap.Error(err))
	}

	req := &provider.CreateRequest{
		SessionID:       input.SessionID,
		PlanID:          input.Plan.ID,
		PlanName:        input.Plan.Name,
		CountryCode:     input.CountryCode,
		PaymentMethod:   string(input.Method),
		ProviderPriceID: input.Plan.PaddlePriceID,
		AmountCents:     intent.AmountCents,
		Currency:        intent.Currency,
		IdempotencyKey:  intent.IdempotencyKey,
		Metadata: map[string]string{
			"fee_mandatory": fmt.Sprintf("%t", input.Charge.FeeMandatory),
		},
	}

	start := time.Now()
	res, callErr := o.callWithRetry(ctx, p, input.Gateway, req)
	o.metrics.RecordPayment(string(input.Gateway), callStatus(callErr), time.Since(start))

	if callErr != nil {
		o.failIntent(ctx, intent, callErr)
		return nil, callErr
	}

	disposition, err := Normalize(input.Gateway, res, o.paddleCheckoutBase)
	if err != nil {
		o.logger.Error("gateway returned unrecognized payload",
			zap.String("gateway", string(input.Gateway)),
			zap.Error(err),
		)
		o.failIntent(ctx, intent, err)
		return nil, terminalError(err)
	}

	intent.TransactionID = disposition.TransactionID
	intent.CheckoutURL = disposition.CheckoutURL
	if err := o.repo.UpdateIntent(ctx, intent); err != nil {
		o.logger.Error("failed to update payment intent", zap.Error(err))
	}

	return disposition, nil
}

// callWithRetry runs one gateway call through the circuit breaker and
// retries exactly once when the failure is transient.
func (o *Orchestrator) callWithRetry(ctx context.Context, p provider.Provider, gw gateway.Gateway, req *provider.CreateRequest) (*provider.CreateResult, *Error) {
	breaker := o.getOrCreateBreaker(gw)

	call := func() (*provider.CreateResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
		return p.CreatePayment(callCtx, req)
	}

	res, err := breaker.Execute(call)
	if err == nil {
		return res, nil
	}

	perr := classify(err)
	if !perr.Retryable {
		return nil, perr
	}

	o.metrics.RecordPaymentRetry(string(gw))
	o.logger.Warn("retrying gateway payment call",
		zap.String("gateway", string(gw)),
		zap.Error(err),
	)

	res, err = breaker.Execute(call)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

// VerifyPayment checks with the gateway whether the transaction has
// settled. On success the stored intent is marked succeeded.
func (o *Orchestrator) VerifyPayment(ctx context.Context, transactionID string, gw gateway.Gateway) (bool, error) {
	p, err := o.registry.GetByGateway(gw)
	if err != nil {
		return false, err
	}

	verified, perr := o.verifyWithRetry(ctx, p, gw, transactionID)
	if perr != nil {
		return false, perr
	}
	o.metrics.RecordVerification(string(gw), verified)

	if verified {
		if err := o.MarkSettled(ctx, transactionID); err != nil && !errors.Is(err, ErrPaymentNotFound) {
			o.logger.Error("failed to mark payment settled",
				zap.String("transaction_id", transactionID),
				zap.Error(err),
			)
		}
	}

	return verified, nil
}

// verifyWithRetry runs one verification call against the gateway and
// retries exactly once when the failure is transient.
func (o *Orchestrator) verifyWithRetry(ctx context.Context, p provider.Provider, gw gateway.Gateway, transactionID string) (bool, *Error) {
	call := func() (bool, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
		return p.VerifyPayment(callCtx, transactionID)
	}

	verified, err := call()
	if err == nil {
		return verified, nil
	}

	perr := classify(err)
	if !perr.Retryable {
		return false, perr
	}

	o.metrics.RecordPaymentRetry(string(gw))
	o.logger.Warn("retrying gateway verification call",
		zap.String("gateway", string(gw)),
		zap.String("transaction_id", transactionID),
		zap.Error(err),
	)

	verified, err = call()
	if err != nil {
		return false, classify(err)
	}
	return verified, nil
}

// MarkSettled marks the intent for a gateway transaction as succeeded.
// Already-succeeded intents are left untouched so webhook replays and
// verify calls can race safely.
func (o *Orchestrator) MarkSettled(ctx context.Context, transactionID string) error {
	intent, err := o.repo.GetIntentByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}
	if intent.IsSucceeded() {
		return nil
	}

	now := time.Now()
	intent.Status = StatusSucceeded
	intent.SucceededAt = &now
	return o.repo.UpdateIntent(ctx, intent)
}

// MarkFailed marks the intent for a gateway transaction as failed.
func (o *Orchestrator) MarkFailed(ctx context.Context, transactionID, code, message string) error {
	intent, err := o.repo.GetIntentByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}

	now := time.Now()
	intent.Status = StatusFailed
	intent.FailureCode = &code
	intent.FailureMessage = &message
	intent.FailedAt = &now
	return o.repo.UpdateIntent(ctx, intent)
}

// GetIntent returns a payment intent by ID.
func (o *Orchestrator) GetIntent(ctx context.Context, id uuid.UUID) (*Intent, error) {
	return o.repo.GetIntent(ctx, id)
}

// GetIntentByTransactionID returns a payment intent by gateway
// transaction ID.
func (o *Orchestrator) GetIntentByTransactionID(ctx context.Context, transactionID string) (*Intent, error) {
	return o.repo.GetIntentByTransactionID(ctx, transactionID)
}

// Registry returns the provider registry.
func (o *Orchestrator) Registry() *ProviderRegistry {
	return o.registry
}

func (o *Orchestrator) failIntent(ctx context.Context, intent *Intent, cause error) {
	now := time.Now()
	intent.Status = StatusFailed
	msg := cause.Error()
	intent.FailureMessage = &msg
	intent.FailedAt = &now
	if err := o.repo.UpdateIntent(ctx, intent); err != nil {
		o.logger.Error("failed to update payment intent", zap.Error(err))
	}
}

func (o *Orchestrator) acquireSession(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[sessionID]; busy {
		return false
	}
	o.inFlight[sessionID] = struct{}{}
	return true
}

func (o *Orchestrator) releaseSession(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, sessionID)
}

func (o *Orchestrator) getOrCreateBreaker(gw gateway.Gateway) *gobreaker.CircuitBreaker[*provider.CreateResult] {
	o.breakerMu.Lock()
	defer o.breakerMu.Unlock()

	if breaker, ok := o.breakers[gw]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        string(gw),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			o.metrics.SetBreakerOpen(name, to == gobreaker.StateOpen)
			o.logger.Warn("gateway circuit breaker state changed",
				zap.String("gateway", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[*provider.CreateResult](settings)
	o.breakers[gw] = breaker
	return breaker
}

// classify maps a raw gateway error to a retryability classification.
// Timeouts, network failures, open breakers, and provider 5xx/429
// responses are transient; everything else is a business rejection.
func classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return retryableError(err)
	}
	// Caller-initiated cancellation is not a provider failure.
	if errors.Is(err, context.Canceled) {
		return terminalError(err)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return retryableError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return retryableError(err)
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= 500 || stripeErr.HTTPStatusCode == 429 {
			return retryableError(err)
		}
		return terminalError(err)
	}

	return terminalError(err)
}

func callStatus(err *Error) string {
	if err == nil {
		return "success"
	}
	if err.Retryable {
		return "retryable_failure"
	}
	return "failure"
}
