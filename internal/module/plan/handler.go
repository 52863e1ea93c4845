package plan

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	sharederrors "github.com/votely/server/internal/shared/errors"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for plans and processing fees.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a new plan handler.
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the public plan routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("/plans", h.ListPlans)
	}
}

// RegisterAdminRoutes registers the admin processing-fee routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/processing-fee", h.ListProcessingFees)
	r.POST("/processing-fee", h.UpdateProcessingFee)
}

// ListPlans returns all active plans. Public, no auth.
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list plans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to list plans", err).ToResponse())
		return
	}

	c.JSON(http.StatusOK, ListPlansResponse{Plans: plans})
}

// ListProcessingFees returns the fee configuration of every active plan.
func (h *Handler) ListProcessingFees(c *gin.Context) {
	plans, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list plans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to list plans", err).ToResponse())
		return
	}

	fees := make([]gin.H, 0, len(plans))
	for _, p := range plans {
		fees = append(fees, gin.H{
			"plan_id":   p.ID,
			"plan_name": p.Name,
			"enabled":   p.ProcessingFeeEnabled,
			"type":      p.ProcessingFeeType,
			"amount":    p.ProcessingFeeAmount,
			"mandatory": p.ProcessingFeeMandatory,
		})
	}

	c.JSON(http.StatusOK, gin.H{"processing_fees": fees})
}

// UpdateProcessingFee updates fee settings for a plan.
func (h *Handler) UpdateProcessingFee(c *gin.Context) {
	var req UpdateProcessingFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}

	if req.Enabled {
		if req.Type != FeeTypeFixed && req.Type != FeeTypePercentage {
			c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError("processing fee type must be fixed or percentage").ToResponse())
			return
		}
		if req.Amount.IsNegative() {
			c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError("processing fee amount must not be negative").ToResponse())
			return
		}
	}

	p, err := h.repo.UpdateProcessingFee(c.Request.Context(), req.PlanID, req.ProcessingFeeSettings)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, sharederrors.NotFound("plan").ToResponse())
			return
		}
		h.logger.Error("failed to update processing fee",
			zap.String("plan_id", req.PlanID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to update processing fee", err).ToResponse())
		return
	}

	c.JSON(http.StatusOK, p)
}
