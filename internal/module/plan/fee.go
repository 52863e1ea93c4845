package plan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Charge is the priced breakdown of a plan purchase. All amounts carry
// two decimal places, rounded half-up at the cent so the total matches
// what the payment provider will actually charge.
type Charge struct {
	Base         decimal.Decimal `json:"base"`
	Fee          decimal.Decimal `json:"fee"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	FeeMandatory bool            `json:"fee_mandatory"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeCharge computes the processing fee and total charge for a plan.
// Negative price or fee amounts are rejected, never coerced to zero.
func ComputeCharge(p *Plan) (Charge, error) {
	if p.Price.IsNegative() {
		return Charge{}, fmt.Errorf("%w: plan price %s is negative", ErrInvalidFeeConfig, p.Price)
	}

	base := p.Price.Round(2)
	fee := decimal.Zero

	if p.ProcessingFeeEnabled {
		if p.ProcessingFeeAmount.IsNegative() {
			return Charge{}, fmt.Errorf("%w: fee amount %s is negative", ErrInvalidFeeConfig, p.ProcessingFeeAmount)
		}
		switch p.ProcessingFeeType {
		case FeeTypeFixed:
			fee = p.ProcessingFeeAmount
		case FeeTypePercentage:
			fee = base.Mul(p.ProcessingFeeAmount).Div(oneHundred)
		default:
			return Charge{}, fmt.Errorf("%w: unknown fee type %q", ErrInvalidFeeConfig, p.ProcessingFeeType)
		}
	}

	fee = fee.Round(2)

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	return Charge{
		Base:         base,
		Fee:          fee,
		Total:        base.Add(fee).Round(2),
		Currency:     currency,
		FeeMandatory: p.ProcessingFeeMandatory,
	}, nil
}

// AmountInCents returns the total in the smallest currency unit, as the
// providers expect.
func (c Charge) AmountInCents() int64 {
	return c.Total.Mul(oneHundred).IntPart()
}
