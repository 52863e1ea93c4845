package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/plan"
	"github.com/votely/server/internal/module/payment/provider"
	"github.com/votely/server/internal/utils/metrics"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

func sharedMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.New("votely_payment_test")
	})
	return testMetrics
}

// fakeProvider scripts CreatePayment responses per call.
type fakeProvider struct {
	name string

	mu            sync.Mutex
	calls         int
	results       []fakeCall
	verifyCalls   int
	verifyResults []fakeVerify

	// block delays CreatePayment until released, to simulate an
	// in-flight gateway call.
	block chan struct{}
}

type fakeCall struct {
	res *provider.CreateResult
	err error
}

type fakeVerify struct {
	verified bool
	err      error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) CreatePayment(ctx context.Context, req *provider.CreateRequest) (*provider.CreateResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.results[f.calls]
	f.calls++
	return call.res, call.err
}

func (f *fakeProvider) VerifyPayment(ctx context.Context, transactionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.verifyResults) == 0 {
		return transactionID == "txn_settled", nil
	}
	call := f.verifyResults[f.verifyCalls]
	f.verifyCalls++
	return call.verified, call.err
}

func (f *fakeProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	return nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) verifyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls
}

// fakeIntentRepo is an in-memory payment repository.
type fakeIntentRepo struct {
	mu      sync.Mutex
	intents map[uuid.UUID]*Intent
	events  map[string]*WebhookEvent
}

func newFakeIntentRepo() *fakeIntentRepo {
	return &fakeIntentRepo{
		intents: make(map[uuid.UUID]*Intent),
		events:  make(map[string]*WebhookEvent),
	}
}

func (r *fakeIntentRepo) CreateIntent(ctx context.Context, intent *Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *intent
	r.intents[intent.ID] = &cp
	return nil
}

func (r *fakeIntentRepo) GetIntent(ctx context.Context, id uuid.UUID) (*Intent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent, ok := r.intents[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *intent
	return &cp, nil
}

func (r *fakeIntentRepo) GetIntentByTransactionID(ctx context.Context, transactionID string) (*Intent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, intent := range r.intents {
		if intent.TransactionID == transactionID {
			cp := *intent
			return &cp, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (r *fakeIntentRepo) UpdateIntent(ctx context.Context, intent *Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *intent
	r.intents[intent.ID] = &cp
	return nil
}

func (r *fakeIntentRepo) ListIntentsBySession(ctx context.Context, sessionID string) ([]*Intent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Intent
	for _, intent := range r.intents {
		if intent.SessionID == sessionID {
			cp := *intent
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeIntentRepo) CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := event.Provider + ":" + event.EventID
	if _, ok := r.events[key]; ok {
		return errors.New("duplicate webhook event")
	}
	r.events[key] = event
	return nil
}

func (r *fakeIntentRepo) WebhookEventExists(ctx context.Context, providerName, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.events[providerName+":"+eventID]
	return ok, nil
}

func (r *fakeIntentRepo) MarkWebhookEventProcessed(ctx context.Context, id uuid.UUID, err error) error {
	return nil
}

func testPlan() *plan.Plan {
	return &plan.Plan{
		ID:           uuid.New(),
		Name:         "Pro",
		Price:        decimal.RequireFromString("29.99"),
		Currency:     "USD",
		DurationDays: 30,
		Active:       true,
	}
}

func testCharge(t *testing.T, p *plan.Plan) plan.Charge {
	t.Helper()
	charge, err := plan.ComputeCharge(p)
	require.NoError(t, err)
	return charge
}

func newTestOrchestrator(repo Repository, providers ...provider.Provider) *Orchestrator {
	registry := NewProviderRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return NewOrchestrator(repo, registry, sharedMetrics(), 5*time.Second, testPaddleBase, zap.NewNop())
}

func successCall(txnID string) fakeCall {
	return fakeCall{res: &provider.CreateResult{
		TransactionID: txnID,
		Data:          map[string]any{"clientSecret": txnID + "_secret"},
	}}
}

func TestCreatePaymentSuccess(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe", results: []fakeCall{successCall("pi_1")}}
	o := newTestOrchestrator(repo, stripe)

	p := testPlan()
	d, err := o.CreatePayment(context.Background(), &CreatePaymentInput{
		SessionID:   "sess-1",
		Plan:        p,
		CountryCode: "US",
		Gateway:     gateway.GatewayStripe,
		Method:      MethodCard,
		Charge:      testCharge(t, p),
	})

	require.NoError(t, err)
	assert.Equal(t, DispositionInApp, d.Type)
	assert.Equal(t, "pi_1_secret", d.ClientSecret)
	assert.Equal(t, 1, stripe.callCount())

	// The stored intent carries the transaction handle.
	intent, err := repo.GetIntentByTransactionID(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, intent.Status)
	assert.Equal(t, int64(2999), intent.AmountCents)
}

func TestCreatePaymentDoubleSubmissionRejectedBeforeNetwork(t *testing.T) {
	repo := newFakeIntentRepo()
	block := make(chan struct{})
	stripe := &fakeProvider{
		name:    "stripe",
		results: []fakeCall{successCall("pi_1"), successCall("pi_2")},
		block:   block,
	}
	o := newTestOrchestrator(repo, stripe)

	p := testPlan()
	input := func() *CreatePaymentInput {
		return &CreatePaymentInput{
			SessionID:   "sess-dup",
			Plan:        p,
			CountryCode: "US",
			Gateway:     gateway.GatewayStripe,
			Method:      MethodCard,
			Charge:      testCharge(t, p),
		}
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := o.CreatePayment(context.Background(), input())
		firstDone <- err
	}()

	// Wait until the first call holds the session slot.
	require.Eventually(t, func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		_, busy := o.inFlight["sess-dup"]
		return busy
	}, time.Second, time.Millisecond)

	_, err := o.CreatePayment(context.Background(), input())
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Retryable)
	assert.ErrorIs(t, err, ErrPaymentInFlight)

	close(block)
	require.NoError(t, <-firstDone)

	// The rejected call never reached the provider.
	assert.Equal(t, 1, stripe.callCount())
}

func TestCreatePaymentRetriesOnceOnTransientFailure(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe", results: []fakeCall{
		{err: context.DeadlineExceeded},
		successCall("pi_retry"),
	}}
	o := newTestOrchestrator(repo, stripe)

	p := testPlan()
	d, err := o.CreatePayment(context.Background(), &CreatePaymentInput{
		SessionID:   "sess-retry",
		Plan:        p,
		CountryCode: "DE",
		Gateway:     gateway.GatewayStripe,
		Method:      MethodCard,
		Charge:      testCharge(t, p),
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_retry_secret", d.ClientSecret)
	assert.Equal(t, 2, stripe.callCount())
}

func TestCreatePaymentTerminalFailureDoesNotRetry(t *testing.T) {
	repo := newFakeIntentRepo()
	bizErr := errors.New("invalid country/plan combination")
	stripe := &fakeProvider{name: "stripe", results: []fakeCall{{err: bizErr}}}
	o := newTestOrchestrator(repo, stripe)

	p := testPlan()
	_, err := o.CreatePayment(context.Background(), &CreatePaymentInput{
		SessionID:   "sess-term",
		Plan:        p,
		CountryCode: "US",
		Gateway:     gateway.GatewayStripe,
		Method:      MethodCard,
		Charge:      testCharge(t, p),
	})

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Retryable)
	assert.Equal(t, 1, stripe.callCount())
}

func TestCreatePaymentTwoTransientFailuresSurfaceRetryable(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe", results: []fakeCall{
		{err: context.DeadlineExceeded},
		{err: context.DeadlineExceeded},
	}}
	o := newTestOrchestrator(repo, stripe)

	p := testPlan()
	_, err := o.CreatePayment(context.Background(), &CreatePaymentInput{
		SessionID:   "sess-timeout",
		Plan:        p,
		CountryCode: "US",
		Gateway:     gateway.GatewayStripe,
		Method:      MethodCard,
		Charge:      testCharge(t, p),
	})

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Retryable)
	assert.Equal(t, 2, stripe.callCount())

	// The attempt is recorded as failed so the session can retry.
	intents, listErr := repo.ListIntentsBySession(context.Background(), "sess-timeout")
	require.NoError(t, listErr)
	require.Len(t, intents, 1)
	assert.Equal(t, StatusFailed, intents[0].Status)
}

func TestCreatePaymentUnrecognizedPayloadFails(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe", results: []fakeCall{
		{res: &provider.CreateResult{TransactionID: "pi_x", Data: map[string]any{"mystery": "field"}}},
	}}
	o := newTestOrchestrator(repo, stripe)

	p := testPlan()
	_, err := o.CreatePayment(context.Background(), &CreatePaymentInput{
		SessionID:   "sess-odd",
		Plan:        p,
		CountryCode: "US",
		Gateway:     gateway.GatewayStripe,
		Method:      MethodCard,
		Charge:      testCharge(t, p),
	})

	require.ErrorIs(t, err, ErrUnrecognizedResponse)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Retryable)
}

func TestCreatePaymentUnknownGateway(t *testing.T) {
	repo := newFakeIntentRepo()
	o := newTestOrchestrator(repo)

	p := testPlan()
	_, err := o.CreatePayment(context.Background(), &CreatePaymentInput{
		SessionID:   "sess-x",
		Plan:        p,
		CountryCode: "US",
		Gateway:     gateway.GatewayStripe,
		Method:      MethodCard,
		Charge:      testCharge(t, p),
	})

	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestVerifyPaymentMarksIntentSettled(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe"}
	o := newTestOrchestrator(repo, stripe)

	intent := &Intent{
		ID:            uuid.New(),
		SessionID:     "sess-v",
		PlanID:        uuid.New(),
		Gateway:       gateway.GatewayStripe,
		Status:        StatusPending,
		TransactionID: "txn_settled",
	}
	require.NoError(t, repo.CreateIntent(context.Background(), intent))

	verified, err := o.VerifyPayment(context.Background(), "txn_settled", gateway.GatewayStripe)
	require.NoError(t, err)
	assert.True(t, verified)

	stored, err := repo.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, stored.Status)
	assert.NotNil(t, stored.SucceededAt)
}

func TestVerifyPaymentUnsettled(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe"}
	o := newTestOrchestrator(repo, stripe)

	verified, err := o.VerifyPayment(context.Background(), "txn_open", gateway.GatewayStripe)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestVerifyPaymentRetriesOnceOnTransientFailure(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe", verifyResults: []fakeVerify{
		{err: context.DeadlineExceeded},
		{verified: true},
	}}
	o := newTestOrchestrator(repo, stripe)

	intent := &Intent{
		ID:            uuid.New(),
		SessionID:     "sess-flaky",
		Gateway:       gateway.GatewayStripe,
		Status:        StatusPending,
		TransactionID: "txn_flaky",
	}
	require.NoError(t, repo.CreateIntent(context.Background(), intent))

	verified, err := o.VerifyPayment(context.Background(), "txn_flaky", gateway.GatewayStripe)
	require.NoError(t, err)
	assert.True(t, verified)
	assert.Equal(t, 2, stripe.verifyCount())

	stored, err := repo.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, stored.Status)
}

func TestVerifyPaymentCanceledNotRetried(t *testing.T) {
	repo := newFakeIntentRepo()
	stripe := &fakeProvider{name: "stripe", verifyResults: []fakeVerify{
		{err: context.Canceled},
		{verified: true},
	}}
	o := newTestOrchestrator(repo, stripe)

	_, err := o.VerifyPayment(context.Background(), "txn_gone", gateway.GatewayStripe)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Retryable)
	assert.Equal(t, 1, stripe.verifyCount())
}

func TestMarkSettledIsIdempotent(t *testing.T) {
	repo := newFakeIntentRepo()
	o := newTestOrchestrator(repo)

	intent := &Intent{
		ID:            uuid.New(),
		TransactionID: "txn_1",
		Status:        StatusPending,
	}
	require.NoError(t, repo.CreateIntent(context.Background(), intent))

	require.NoError(t, o.MarkSettled(context.Background(), "txn_1"))
	first, err := repo.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)

	require.NoError(t, o.MarkSettled(context.Background(), "txn_1"))
	second, err := repo.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)

	assert.Equal(t, first.SucceededAt, second.SucceededAt)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"business rejection", errors.New("card declined"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := classify(tt.err)
			assert.Equal(t, tt.retryable, perr.Retryable)
		})
	}
}
