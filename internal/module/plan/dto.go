package plan

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessingFeeSettings is the admin-managed fee configuration for a plan.
type ProcessingFeeSettings struct {
	Enabled   bool              `json:"enabled"`
	Type      ProcessingFeeType `json:"type" binding:"omitempty,oneof=fixed percentage"`
	Amount    decimal.Decimal   `json:"amount"`
	Mandatory bool              `json:"mandatory"`
}

// UpdateProcessingFeeRequest updates fee settings for one plan.
type UpdateProcessingFeeRequest struct {
	PlanID uuid.UUID `json:"plan_id" binding:"required"`
	ProcessingFeeSettings
}

// ListPlansResponse is the public plans payload.
type ListPlansResponse struct {
	Plans []*Plan `json:"plans"`
}
