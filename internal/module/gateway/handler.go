package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/votely/server/internal/module/plan"
	"github.com/votely/server/internal/module/region"
	sharederrors "github.com/votely/server/internal/shared/errors"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for gateway recommendations and the
// admin gateway configuration.
type Handler struct {
	router   *Router
	repo     Repository
	plans    plan.Repository
	resolver *region.Resolver
	logger   *zap.Logger
}

// NewHandler creates a new gateway handler.
func NewHandler(router *Router, repo Repository, plans plan.Repository, resolver *region.Resolver, logger *zap.Logger) *Handler {
	return &Handler{
		router:   router,
		repo:     repo,
		plans:    plans,
		resolver: resolver,
		logger:   logger,
	}
}

// RegisterRoutes registers the public recommendation route.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/payments/gateway-recommendation", h.GetRecommendation)
}

// RegisterAdminRoutes registers the admin configuration routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/gateway-config", h.ListConfigs)
	r.GET("/gateway-config/:region", h.GetConfig)
	r.POST("/gateway-config/:region", h.UpsertConfig)
}

// GetRecommendation returns the routed gateway candidates for a
// country and plan.
func (h *Handler) GetRecommendation(c *gin.Context) {
	countryCode := h.resolver.NormalizeCountry(c.Query("country_code"))

	planID, err := uuid.Parse(c.Query("plan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest("invalid plan_id").ToResponse())
		return
	}

	if _, err := h.plans.Get(c.Request.Context(), planID); err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, sharederrors.NotFound("plan").ToResponse())
			return
		}
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to load plan", err).ToResponse())
		return
	}

	reg := h.resolver.Resolve(countryCode)

	// The caller identity keys split-routing stickiness; an anonymous
	// recommendation falls back to the country code.
	userKey := c.GetString("user_key")
	if userKey == "" {
		userKey = countryCode
	}

	candidates, err := h.router.Route(c.Request.Context(), reg, planID, userKey)
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			c.JSON(http.StatusServiceUnavailable, sharederrors.GatewayConfiguration("").ToResponse())
			return
		}
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to route gateways", err).ToResponse())
		return
	}

	reason := ""
	if len(candidates) > 0 {
		reason = candidates[0].Reason
	}

	c.JSON(http.StatusOK, RecommendationResponse{
		Recommendation: Recommendation{
			CountryName:          h.resolver.CountryName(countryCode),
			Region:               reg.DisplayName(),
			RecommendationReason: reason,
			AvailableGateways:    candidates,
		},
	})
}

// ListConfigs returns every region's gateway configuration.
func (h *Handler) ListConfigs(c *gin.Context) {
	configs, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to list gateway configs", err).ToResponse())
		return
	}
	c.JSON(http.StatusOK, gin.H{"gateway_configs": configs})
}

// GetConfig returns one region's gateway configuration.
func (h *Handler) GetConfig(c *gin.Context) {
	reg := region.Region(c.Param("region"))
	if !reg.Valid() {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest("unknown region").ToResponse())
		return
	}

	cfg, err := h.repo.GetByRegion(c.Request.Context(), reg)
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			c.JSON(http.StatusNotFound, sharederrors.NotFound("gateway config").ToResponse())
			return
		}
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to get gateway config", err).ToResponse())
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpsertConfig creates or replaces one region's gateway configuration.
func (h *Handler) UpsertConfig(c *gin.Context) {
	reg := region.Region(c.Param("region"))
	if !reg.Valid() {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest("unknown region").ToResponse())
		return
	}

	var req UpsertConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, sharederrors.BadRequest(err.Error()).ToResponse())
		return
	}

	cfg := req.ToConfig(reg)
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, sharederrors.ValidationError(err.Error()).ToResponse())
		return
	}

	if err := h.repo.Upsert(c.Request.Context(), cfg); err != nil {
		h.logger.Error("failed to upsert gateway config",
			zap.String("region", string(reg)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, sharederrors.Internal("failed to save gateway config", err).ToResponse())
		return
	}

	c.JSON(http.StatusOK, cfg)
}
