package gateway

import (
	"context"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/votely/server/internal/module/region"
	"go.uber.org/zap"
)

// Candidate is one routable gateway for a region, annotated for the UI.
// The recommended candidate is the pre-selected default; the user may
// still override it when more than one is available.
type Candidate struct {
	Gateway         Gateway `json:"gateway"`
	Recommended     bool    `json:"recommended"`
	Reason          string  `json:"reason"`
	SplitPercentage *int    `json:"split_percentage,omitempty"`
}

// Router turns a region's configuration into an ordered candidate list.
type Router struct {
	repo   Repository
	logger *zap.Logger
}

// NewRouter creates a new gateway router.
func NewRouter(repo Repository, logger *zap.Logger) *Router {
	return &Router{repo: repo, logger: logger}
}

// Route returns the ordered gateway candidates for a region. userKey
// keeps split-routing assignment sticky per user and plan across
// retries. A region without configuration fails closed.
func (r *Router) Route(ctx context.Context, reg region.Region, planID uuid.UUID, userKey string) ([]Candidate, error) {
	cfg, err := r.repo.GetByRegion(ctx, reg)
	if err != nil {
		// Routing is a revenue decision; a missing config must be
		// loud enough for an administrator to notice.
		r.logger.Error("gateway routing failed",
			zap.String("region", string(reg)),
			zap.Error(err),
		)
		return nil, err
	}

	switch cfg.GatewayType {
	case TypeStripeOnly:
		return []Candidate{{
			Gateway:     GatewayStripe,
			Recommended: true,
			Reason:      cfg.RecommendationReason,
		}}, nil

	case TypePaddleOnly:
		return []Candidate{{
			Gateway:     GatewayPaddle,
			Recommended: true,
			Reason:      cfg.RecommendationReason,
		}}, nil

	case TypeSplit5050:
		split := cfg.SplitPercentage
		first := splitAssign(userKey, planID, split)
		second := GatewayPaddle
		if first == GatewayPaddle {
			second = GatewayStripe
		}
		return []Candidate{
			{Gateway: first, Recommended: true, Reason: cfg.RecommendationReason, SplitPercentage: &split},
			{Gateway: second, Recommended: false, Reason: cfg.RecommendationReason, SplitPercentage: &split},
		}, nil

	default:
		return nil, ErrInvalidConfig
	}
}

// Validate checks that gw is among the routable candidates for the
// region, for validating a user's gateway selection.
func (r *Router) Validate(ctx context.Context, reg region.Region, planID uuid.UUID, userKey string, gw Gateway) error {
	candidates, err := r.Route(ctx, reg, planID, userKey)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if c.Gateway == gw {
			return nil
		}
	}
	return ErrNotCandidate
}

// splitAssign deterministically assigns a user+plan pair to a gateway
// under split routing. The FNV-1a hash of the pair, taken mod 100, is
// compared against the configured stripe share, so a user retrying a
// payment keeps landing on the same gateway while the population
// distributes according to the split percentage.
func splitAssign(userKey string, planID uuid.UUID, stripeShare int) Gateway {
	h := fnv.New32a()
	h.Write([]byte(userKey))
	h.Write([]byte(planID.String()))
	if int(h.Sum32()%100) < stripeShare {
		return GatewayStripe
	}
	return GatewayPaddle
}
