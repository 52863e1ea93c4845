package subscription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	sharederrors "github.com/votely/server/internal/shared/errors"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for subscription status.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new subscription handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the subscription routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("/status", h.Status)
		subscriptions.POST("/cancel", h.Cancel)
	}
}

// Status reports the subscription attached to a checkout session.
func (h *Handler) Status(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest("session_id is required").ToResponse())
		return
	}

	sub, err := h.service.GetBySession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			c.JSON(http.StatusOK, StatusResponse{Active: false})
			return
		}
		h.logger.Error("failed to load subscription", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to load subscription", err).ToResponse())
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Active: sub.IsActive(), Subscription: sub})
}

// Cancel cancels the subscription attached to a checkout session.
func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, sharederrors.NotFound("subscription").ToResponse())
			return
		}
		h.logger.Error("failed to cancel subscription", zap.String("session_id", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to cancel subscription", err).ToResponse())
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Active: sub.IsActive(), Subscription: sub})
}
