package plan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeCharge(t *testing.T) {
	tests := []struct {
		name         string
		plan         Plan
		expectedBase string
		expectedFee  string
		expectedTot  string
	}{
		{
			name: "percentage fee",
			plan: Plan{
				Price:                dec("100"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    FeeTypePercentage,
				ProcessingFeeAmount:  dec("5"),
			},
			expectedBase: "100.00",
			expectedFee:  "5.00",
			expectedTot:  "105.00",
		},
		{
			name: "fixed fee",
			plan: Plan{
				Price:                dec("29.99"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    FeeTypeFixed,
				ProcessingFeeAmount:  dec("1.50"),
			},
			expectedBase: "29.99",
			expectedFee:  "1.50",
			expectedTot:  "31.49",
		},
		{
			name: "fee disabled",
			plan: Plan{
				Price:                dec("49.99"),
				ProcessingFeeEnabled: false,
				ProcessingFeeType:    FeeTypePercentage,
				ProcessingFeeAmount:  dec("10"),
			},
			expectedBase: "49.99",
			expectedFee:  "0.00",
			expectedTot:  "49.99",
		},
		{
			name: "percentage rounds half up at the cent",
			plan: Plan{
				// 2.9% of 9.99 = 0.28971 -> 0.29
				Price:                dec("9.99"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    FeeTypePercentage,
				ProcessingFeeAmount:  dec("2.9"),
			},
			expectedBase: "9.99",
			expectedFee:  "0.29",
			expectedTot:  "10.28",
		},
		{
			name: "half cent rounds up",
			plan: Plan{
				// 5% of 10.10 = 0.505 -> 0.51
				Price:                dec("10.10"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    FeeTypePercentage,
				ProcessingFeeAmount:  dec("5"),
			},
			expectedBase: "10.10",
			expectedFee:  "0.51",
			expectedTot:  "10.61",
		},
		{
			name: "zero price",
			plan: Plan{
				Price:                dec("0"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    FeeTypeFixed,
				ProcessingFeeAmount:  dec("1.00"),
			},
			expectedBase: "0.00",
			expectedFee:  "1.00",
			expectedTot:  "1.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charge, err := ComputeCharge(&tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBase, charge.Base.StringFixed(2))
			assert.Equal(t, tt.expectedFee, charge.Fee.StringFixed(2))
			assert.Equal(t, tt.expectedTot, charge.Total.StringFixed(2))
		})
	}
}

func TestComputeCharge_Invalid(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
	}{
		{
			name: "negative price",
			plan: Plan{Price: dec("-1")},
		},
		{
			name: "negative fee amount",
			plan: Plan{
				Price:                dec("10"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    FeeTypeFixed,
				ProcessingFeeAmount:  dec("-0.50"),
			},
		},
		{
			name: "unknown fee type",
			plan: Plan{
				Price:                dec("10"),
				ProcessingFeeEnabled: true,
				ProcessingFeeType:    ProcessingFeeType("surcharge"),
				ProcessingFeeAmount:  dec("1"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeCharge(&tt.plan)
			assert.ErrorIs(t, err, ErrInvalidFeeConfig)
		})
	}
}

func TestComputeCharge_MandatoryFlagThreadedThrough(t *testing.T) {
	p := Plan{
		Price:                  dec("100"),
		ProcessingFeeEnabled:   true,
		ProcessingFeeType:      FeeTypeFixed,
		ProcessingFeeAmount:    dec("2.00"),
		ProcessingFeeMandatory: true,
	}

	charge, err := ComputeCharge(&p)
	require.NoError(t, err)
	// Mandatory does not change the total, only the audit metadata.
	assert.Equal(t, "102.00", charge.Total.StringFixed(2))
	assert.True(t, charge.FeeMandatory)
}

func TestCharge_AmountInCents(t *testing.T) {
	p := Plan{
		Price:                dec("29.99"),
		ProcessingFeeEnabled: true,
		ProcessingFeeType:    FeeTypeFixed,
		ProcessingFeeAmount:  dec("1.50"),
	}

	charge, err := ComputeCharge(&p)
	require.NoError(t, err)
	assert.Equal(t, int64(3149), charge.AmountInCents())
}
