package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/plan"
	"github.com/votely/server/internal/module/region"
	sharederrors "github.com/votely/server/internal/shared/errors"
)

// SessionHeader carries the checkout session identity so payment
// attempts can be tied back to a flow and double submissions rejected.
const SessionHeader = "X-Checkout-Session"

// Handler handles HTTP requests for payment creation and verification.
type Handler struct {
	orchestrator *Orchestrator
	router       *gateway.Router
	plans        plan.Repository
	resolver     *region.Resolver
	logger       *zap.Logger
}

// NewHandler creates a new payment handler.
func NewHandler(
	orchestrator *Orchestrator,
	router *gateway.Router,
	plans plan.Repository,
	resolver *region.Resolver,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		router:       router,
		plans:        plans,
		resolver:     resolver,
		logger:       logger,
	}
}

// RegisterRoutes registers the payment routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("/create", h.CreatePayment)
		payments.POST("/verify", h.VerifyPayment)
	}
}

// CreatePayment resolves the caller's region, routes to a gateway,
// recomputes the charge server-side, and starts the payment.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error(), false)
		return
	}
	if !req.PaymentMethod.Valid() {
		h.fail(c, http.StatusUnprocessableEntity, "unsupported payment method", false)
		return
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid plan_id", false)
		return
	}

	ctx := c.Request.Context()

	p, err := h.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			h.fail(c, http.StatusNotFound, "plan not found", false)
			return
		}
		h.fail(c, http.StatusInternalServerError, "failed to load plan", true)
		return
	}
	if !p.Active {
		h.fail(c, http.StatusUnprocessableEntity, "plan is not active", false)
		return
	}

	charge, err := plan.ComputeCharge(p)
	if err != nil {
		h.fail(c, http.StatusUnprocessableEntity, err.Error(), false)
		return
	}
	if !charge.Total.Equal(req.Amount) || charge.Currency != req.Currency {
		h.fail(c, http.StatusUnprocessableEntity, "amount does not match the current plan price", false)
		return
	}

	countryCode := h.resolver.NormalizeCountry(req.CountryCode)
	reg := h.resolver.Resolve(countryCode)
	sessionID := sessionFrom(c)

	gw := req.Gateway
	if gw == "" {
		candidates, err := h.router.Route(ctx, reg, planID, sessionID)
		if err != nil {
			h.failRouting(c, err)
			return
		}
		gw = candidates[0].Gateway
	} else if err := h.router.Validate(ctx, reg, planID, sessionID, gw); err != nil {
		if errors.Is(err, gateway.ErrNotCandidate) {
			h.fail(c, http.StatusUnprocessableEntity, "gateway is not available in your region", false)
			return
		}
		h.failRouting(c, err)
		return
	}

	disposition, err := h.orchestrator.CreatePayment(ctx, &CreatePaymentInput{
		SessionID:   sessionID,
		Plan:        p,
		CountryCode: countryCode,
		Gateway:     gw,
		Method:      req.PaymentMethod,
		Charge:      charge,
	})
	if err != nil {
		h.failCreate(c, gw, err)
		return
	}

	c.JSON(http.StatusOK, CreatePaymentResponse{
		Success:     true,
		Gateway:     disposition.Gateway,
		Disposition: disposition.Type,
		PaymentData: &PaymentData{
			ClientSecret:  disposition.ClientSecret,
			CheckoutURL:   disposition.CheckoutURL,
			TransactionID: disposition.TransactionID,
		},
	})
}

// VerifyPayment checks settlement with the gateway.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}
	if !req.Gateway.Valid() {
		c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError("unknown gateway").ToResponse())
		return
	}

	verified, err := h.orchestrator.VerifyPayment(c.Request.Context(), req.PaymentID, req.Gateway)
	if err != nil {
		h.logger.Error("payment verification failed",
			zap.String("payment_id", req.PaymentID),
			zap.String("gateway", string(req.Gateway)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, sharederrors.GatewayResponse("verification failed").ToResponse())
		return
	}

	c.JSON(http.StatusOK, VerifyPaymentResponse{
		Verification: VerificationResult{Verified: verified},
	})
}

func (h *Handler) failCreate(c *gin.Context, gw gateway.Gateway, err error) {
	var perr *Error
	if errors.As(err, &perr) {
		status := http.StatusBadGateway
		switch {
		case errors.Is(perr, ErrPaymentInFlight):
			status = http.StatusConflict
		case errors.Is(perr, ErrUnrecognizedResponse):
			status = http.StatusBadGateway
		case !perr.Retryable:
			status = http.StatusUnprocessableEntity
		}
		h.logger.Warn("payment creation failed",
			zap.String("gateway", string(gw)),
			zap.Bool("retryable", perr.Retryable),
			zap.Error(err),
		)
		h.fail(c, status, perr.Err.Error(), perr.Retryable)
		return
	}
	h.fail(c, http.StatusInternalServerError, "payment creation failed", true)
}

func (h *Handler) failRouting(c *gin.Context, err error) {
	if errors.Is(err, gateway.ErrNoConfig) {
		h.fail(c, http.StatusServiceUnavailable, sharederrors.GatewayConfiguration("").Message, false)
		return
	}
	h.fail(c, http.StatusInternalServerError, "failed to route gateways", true)
}

func (h *Handler) fail(c *gin.Context, status int, message string, retryable bool) {
	c.JSON(status, CreatePaymentResponse{
		Success:   false,
		Error:     message,
		Retryable: retryable,
	})
}

// sessionFrom extracts the checkout session key. Calls made outside a
// checkout flow get a fresh key each time; session identity is never
// shared between unrelated payments.
func sessionFrom(c *gin.Context) string {
	if sid := c.GetHeader(SessionHeader); sid != "" {
		return sid
	}
	return uuid.NewString()
}
