package checkout

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment"
	"github.com/votely/server/internal/module/plan"
	sharederrors "github.com/votely/server/internal/shared/errors"
)

// Handler handles HTTP requests for the checkout flow.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new checkout handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the checkout routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/checkout/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/plan", h.SelectPlan)
		sessions.POST("/:id/gateway", h.SelectGateway)
		sessions.POST("/:id/proceed", h.Proceed)
		sessions.POST("/:id/verify", h.Verify)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/reset", h.Reset)
	}
}

// StartSession creates a new checkout session.
func (h *Handler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}

	session, err := h.service.Start(c.Request.Context(), req.UserKey, req.CountryCode)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Session: session})
}

// GetSession reloads a session mid-flow.
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.service.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: session})
}

// SelectPlan records the plan choice.
func (h *Handler) SelectPlan(c *gin.Context) {
	var req SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest("invalid plan_id").ToResponse())
		return
	}

	session, err := h.service.SelectPlan(c.Request.Context(), c.Param("id"), planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: session})
}

// SelectGateway records the gateway and payment method choice.
func (h *Handler) SelectGateway(c *gin.Context) {
	var req SelectGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}

	session, err := h.service.SelectGateway(c.Request.Context(), c.Param("id"), req.Gateway, req.PaymentMethod)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: session})
}

// Proceed starts the charge for the session's selections.
func (h *Handler) Proceed(c *gin.Context) {
	disposition, session, err := h.service.ProceedToPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		var perr *payment.Error
		if errors.As(err, &perr) {
			c.JSON(http.StatusBadGateway, ProceedResponse{
				Success:   false,
				Session:   session,
				Error:     perr.Err.Error(),
				Retryable: perr.Retryable,
			})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProceedResponse{
		Success:     true,
		Session:     session,
		Gateway:     disposition.Gateway,
		Disposition: disposition.Type,
		PaymentData: &payment.PaymentData{
			ClientSecret:  disposition.ClientSecret,
			CheckoutURL:   disposition.CheckoutURL,
			TransactionID: disposition.TransactionID,
		},
	})
}

// Verify checks settlement and confirms the session when verified.
func (h *Handler) Verify(c *gin.Context) {
	verified, session, err := h.service.VerifyAndConfirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyResponse{
		Verification: payment.VerificationResult{Verified: verified},
		Session:      session,
	})
}

// Back returns to the previous step.
func (h *Handler) Back(c *gin.Context) {
	session, err := h.service.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: session})
}

// Reset returns the session to plan-selection.
func (h *Handler) Reset(c *gin.Context) {
	session, err := h.service.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: session})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, sharederrors.NotFound("checkout session").ToResponse())
	case errors.Is(err, plan.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, sharederrors.NotFound("plan").ToResponse())
	case errors.Is(err, plan.ErrPlanInactive):
		c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError("plan is not active").ToResponse())
	case errors.Is(err, ErrPaymentPending):
		c.JSON(http.StatusConflict, sharederrors.DuplicateSubmission().ToResponse())
	case errors.Is(err, payment.ErrPaymentInFlight):
		c.JSON(http.StatusConflict, sharederrors.DuplicateSubmission().ToResponse())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNoGatewaySelected), errors.Is(err, ErrNoPaymentToVerify):
		c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError(err.Error()).ToResponse())
	case errors.Is(err, gateway.ErrNotCandidate):
		c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError("gateway is not available in your region").ToResponse())
	case errors.Is(err, gateway.ErrNoConfig):
		c.JSON(http.StatusServiceUnavailable, sharederrors.GatewayConfiguration("").ToResponse())
	default:
		h.logger.Error("checkout request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("checkout request failed", err).ToResponse())
	}
}
