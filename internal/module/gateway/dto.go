package gateway

import "github.com/votely/server/internal/module/region"

// Recommendation is the gateway-recommendation payload consumed by the
// checkout UI.
type Recommendation struct {
	CountryName          string      `json:"country_name"`
	Region               string      `json:"region"`
	RecommendationReason string      `json:"recommendation_reason"`
	AvailableGateways    []Candidate `json:"available_gateways"`
}

// RecommendationResponse wraps the recommendation payload.
type RecommendationResponse struct {
	Recommendation Recommendation `json:"recommendation"`
}

// UpsertConfigRequest is the admin write payload for one region.
type UpsertConfigRequest struct {
	GatewayType          Type   `json:"gateway_type" binding:"required,oneof=stripe_only paddle_only split_50_50"`
	StripeEnabled        bool   `json:"stripe_enabled"`
	PaddleEnabled        bool   `json:"paddle_enabled"`
	SplitPercentage      *int   `json:"split_percentage"`
	RecommendationReason string `json:"recommendation_reason"`
}

// ToConfig builds a Config for the given region.
func (r *UpsertConfigRequest) ToConfig(reg region.Region) *Config {
	split := 50
	if r.SplitPercentage != nil {
		split = *r.SplitPercentage
	}
	return &Config{
		Region:               reg,
		GatewayType:          r.GatewayType,
		StripeEnabled:        r.StripeEnabled,
		PaddleEnabled:        r.PaddleEnabled,
		SplitPercentage:      split,
		RecommendationReason: r.RecommendationReason,
	}
}
