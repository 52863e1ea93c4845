package gateway

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/votely/server/internal/module/region"
)

// Gateway identifies a payment service provider.
type Gateway string

const (
	GatewayStripe Gateway = "stripe"
	GatewayPaddle Gateway = "paddle"
)

// Valid reports whether g is a known gateway.
func (g Gateway) Valid() bool {
	return g == GatewayStripe || g == GatewayPaddle
}

// Type is the per-region routing policy.
type Type string

const (
	TypeStripeOnly Type = "stripe_only"
	TypePaddleOnly Type = "paddle_only"
	TypeSplit5050  Type = "split_50_50"
)

// Config is the admin-managed gateway routing configuration for one
// region. The checkout core reads it as immutable for the duration of
// a session.
type Config struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Region               region.Region `json:"region" gorm:"uniqueIndex;not null"`
	GatewayType          Type          `json:"gateway_type" gorm:"not null"`
	StripeEnabled        bool          `json:"stripe_enabled"`
	PaddleEnabled        bool          `json:"paddle_enabled"`
	SplitPercentage      int           `json:"split_percentage" gorm:"default:50"`
	RecommendationReason string        `json:"recommendation_reason"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// TableName returns the database table name.
func (Config) TableName() string {
	return "gateway_configs"
}

// Validate enforces the structural invariants: at least one gateway is
// enabled and the type is consistent with the enabled flags.
func (c *Config) Validate() error {
	if !c.Region.Valid() {
		return fmt.Errorf("%w: unknown region %q", ErrInvalidConfig, c.Region)
	}
	if !c.StripeEnabled && !c.PaddleEnabled {
		return fmt.Errorf("%w: at least one gateway must be enabled", ErrInvalidConfig)
	}
	if c.SplitPercentage < 0 || c.SplitPercentage > 100 {
		return fmt.Errorf("%w: split percentage %d out of range", ErrInvalidConfig, c.SplitPercentage)
	}

	switch c.GatewayType {
	case TypeStripeOnly:
		if !c.StripeEnabled || c.PaddleEnabled {
			return fmt.Errorf("%w: stripe_only requires exactly stripe enabled", ErrInvalidConfig)
		}
	case TypePaddleOnly:
		if !c.PaddleEnabled || c.StripeEnabled {
			return fmt.Errorf("%w: paddle_only requires exactly paddle enabled", ErrInvalidConfig)
		}
	case TypeSplit5050:
		if !c.StripeEnabled || !c.PaddleEnabled {
			return fmt.Errorf("%w: split routing requires both gateways enabled", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown gateway type %q", ErrInvalidConfig, c.GatewayType)
	}

	return nil
}
