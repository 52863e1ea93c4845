package plan

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessingFeeType determines how the processing fee is computed.
type ProcessingFeeType string

const (
	FeeTypeFixed      ProcessingFeeType = "fixed"      // flat dollar amount
	FeeTypePercentage ProcessingFeeType = "percentage" // percentage of the plan price
)

// Limit is an explicit unlimited-or-bounded quota. The database stores
// -1 (or NULL) for unlimited; that sentinel never leaks past this type.
type Limit struct {
	Unlimited bool
	N         int64
}

// Unbounded returns an unlimited Limit.
func Unbounded() Limit {
	return Limit{Unlimited: true}
}

// LimitOf returns a bounded Limit. Negative input is normalized to unlimited.
func LimitOf(n int64) Limit {
	if n < 0 {
		return Unbounded()
	}
	return Limit{N: n}
}

// Scan implements sql.Scanner. NULL and negative values mean unlimited.
func (l *Limit) Scan(src any) error {
	if src == nil {
		*l = Unbounded()
		return nil
	}
	switch v := src.(type) {
	case int64:
		*l = LimitOf(v)
	case int:
		*l = LimitOf(int64(v))
	default:
		return fmt.Errorf("unsupported limit type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (l Limit) Value() (driver.Value, error) {
	if l.Unlimited {
		return int64(-1), nil
	}
	return l.N, nil
}

// MarshalJSON renders unlimited as JSON null.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.Unlimited {
		return []byte("null"), nil
	}
	return json.Marshal(l.N)
}

// UnmarshalJSON accepts null or -1 as unlimited.
func (l *Limit) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Unbounded()
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = LimitOf(n)
	return nil
}

// Allows reports whether n fits within the limit.
func (l Limit) Allows(n int64) bool {
	return l.Unlimited || n <= l.N
}

// Plan represents a subscription plan. Read-only from the checkout
// core's perspective; mutated only by the admin collaborator.
type Plan struct {
	ID                     uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                   string            `json:"name" gorm:"not null"`
	Price                  decimal.Decimal   `json:"price" gorm:"type:numeric(12,2);not null"`
	Currency               string            `json:"currency" gorm:"default:USD"`
	DurationDays           int               `json:"duration_days" gorm:"not null"`
	ProcessingFeeEnabled   bool              `json:"processing_fee_enabled" gorm:"default:false"`
	ProcessingFeeType      ProcessingFeeType `json:"processing_fee_type" gorm:"default:fixed"`
	ProcessingFeeAmount    decimal.Decimal   `json:"processing_fee_amount" gorm:"type:numeric(12,2);default:0"`
	ProcessingFeeMandatory bool              `json:"processing_fee_mandatory" gorm:"default:false"`
	PaddlePriceID          string            `json:"-" gorm:"column:paddle_price_id"`
	MaxElections           Limit             `json:"max_elections" gorm:"type:bigint"`
	MaxVotersPerElection   Limit             `json:"max_voters_per_election" gorm:"type:bigint"`
	Active                 bool              `json:"active" gorm:"default:true;index"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// TableName returns the database table name.
func (Plan) TableName() string {
	return "plans"
}
