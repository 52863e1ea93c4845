package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/votely/server/internal/utils/metrics"
)

// SubscriptionActivator activates a subscription once a payment for
// its checkout session settles.
type SubscriptionActivator interface {
	ActivateForSession(ctx context.Context, sessionID string, planID uuid.UUID) error
}

// WebhookHandler handles gateway webhook events.
type WebhookHandler struct {
	orchestrator  *Orchestrator
	repo          Repository
	subscriptions SubscriptionActivator
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(
	orchestrator *Orchestrator,
	repo Repository,
	subscriptions SubscriptionActivator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		orchestrator:  orchestrator,
		repo:          repo,
		subscriptions: subscriptions,
		metrics:       m,
		logger:        logger,
	}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/stripe", h.HandleStripeWebhook)
	r.POST("/paddle", h.HandlePaddleWebhook)
}

// HandleStripeWebhook handles incoming Stripe webhook events.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	p, err := h.orchestrator.Registry().Get("stripe")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stripe not configured"})
		return
	}

	if err := p.VerifyWebhookSignature(payload, c.GetHeader("Stripe-Signature")); err != nil {
		h.logger.Warn("invalid stripe webhook signature", zap.Error(err))
		h.metrics.RecordWebhookEvent("stripe", "unknown", "invalid_signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	h.process(c, "stripe", event.ID, string(event.Type), string(payload), func(ctx context.Context) error {
		switch event.Type {
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				return fmt.Errorf("unmarshal payment intent: %w", err)
			}
			return h.settle(ctx, pi.ID)

		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				return fmt.Errorf("unmarshal payment intent: %w", err)
			}
			var code, msg string
			if pi.LastPaymentError != nil {
				code = string(pi.LastPaymentError.Code)
				msg = pi.LastPaymentError.Msg
			}
			return h.failTransaction(ctx, pi.ID, code, msg)
		}

		h.logger.Debug("unhandled stripe webhook event type", zap.String("type", string(event.Type)))
		return nil
	})
}

// HandlePaddleWebhook handles incoming Paddle webhook events.
func (h *WebhookHandler) HandlePaddleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	p, err := h.orchestrator.Registry().Get("paddle")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "paddle not configured"})
		return
	}

	if err := p.VerifyWebhookSignature(payload, c.GetHeader("Paddle-Signature")); err != nil {
		h.logger.Warn("invalid paddle webhook signature", zap.Error(err))
		h.metrics.RecordWebhookEvent("paddle", "unknown", "invalid_signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event struct {
		EventID   string `json:"event_id"`
		EventType string `json:"event_type"`
		Data      struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	h.process(c, "paddle", event.EventID, event.EventType, string(payload), func(ctx context.Context) error {
		switch event.EventType {
		case "transaction.completed", "transaction.paid":
			return h.settle(ctx, event.Data.ID)
		case "transaction.payment_failed":
			return h.failTransaction(ctx, event.Data.ID, event.Data.Status, "payment failed")
		}

		h.logger.Debug("unhandled paddle webhook event type", zap.String("type", event.EventType))
		return nil
	})
}

// process deduplicates, stores, and runs one webhook event. A replayed
// event ID short-circuits before the handler fn runs.
func (h *WebhookHandler) process(c *gin.Context, providerName, eventID, eventType, payload string, fn func(ctx context.Context) error) {
	ctx := c.Request.Context()

	exists, err := h.repo.WebhookEventExists(ctx, providerName, eventID)
	if err != nil {
		h.logger.Error("failed to check webhook event existence", zap.Error(err))
		// Better to process twice than to drop the event.
	}
	if exists {
		h.metrics.RecordWebhookEvent(providerName, eventType, "duplicate")
		c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
		return
	}

	event := &WebhookEvent{
		ID:        uuid.New(),
		Provider:  providerName,
		EventID:   eventID,
		EventType: eventType,
		Data:      payload,
	}
	if err := h.repo.CreateWebhookEvent(ctx, event); err != nil {
		h.logger.Error("failed to store webhook event", zap.Error(err))
	}

	processErr := fn(ctx)

	if err := h.repo.MarkWebhookEventProcessed(ctx, event.ID, processErr); err != nil {
		h.logger.Error("failed to mark webhook event processed", zap.Error(err))
	}

	if processErr != nil {
		h.logger.Error("failed to process webhook event",
			zap.String("provider", providerName),
			zap.String("event_id", eventID),
			zap.String("type", eventType),
			zap.Error(processErr),
		)
		h.metrics.RecordWebhookEvent(providerName, eventType, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	h.metrics.RecordWebhookEvent(providerName, eventType, "processed")
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

func (h *WebhookHandler) settle(ctx context.Context, transactionID string) error {
	intent, err := h.orchestrator.GetIntentByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			// A settlement for a transaction we never created is worth
			// flagging but not worth a webhook retry storm.
			h.logger.Warn("settlement for unknown transaction",
				zap.String("transaction_id", transactionID),
			)
			return nil
		}
		return err
	}

	if err := h.orchestrator.MarkSettled(ctx, transactionID); err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}

	if err := h.subscriptions.ActivateForSession(ctx, intent.SessionID, intent.PlanID); err != nil {
		return fmt.Errorf("activate subscription: %w", err)
	}
	return nil
}

func (h *WebhookHandler) failTransaction(ctx context.Context, transactionID, code, message string) error {
	err := h.orchestrator.MarkFailed(ctx, transactionID, code, message)
	if errors.Is(err, ErrPaymentNotFound) {
		h.logger.Warn("failure event for unknown transaction",
			zap.String("transaction_id", transactionID),
		)
		return nil
	}
	return err
}
