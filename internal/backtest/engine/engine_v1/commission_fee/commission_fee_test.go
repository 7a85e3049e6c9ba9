package commission_fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroCommissionFee(t *testing.T) {
	fee := NewZeroCommissionFee()

	assert.Equal(t, 0.0, fee.Calculate(10000))
	assert.Equal(t, 0.0, fee.Rate())
}

func TestPercentageCommissionFee(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		notional float64
		expected float64
	}{
		{
			name:     "default rate on 1000 notional",
			rate:     0,
			notional: 1000,
			expected: 1.0,
		},
		{
			name:     "custom rate",
			rate:     0.002,
			notional: 500,
			expected: 1.0,
		},
		{
			name:     "zero notional",
			rate:     0.001,
			notional: 0,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := NewPercentageCommissionFee(tt.rate)
			assert.InDelta(t, tt.expected, fee.Calculate(tt.notional), 1e-9)
		})
	}
}

func TestGetCommissionFeeHandler(t *testing.T) {
	assert.IsType(t, &ZeroCommissionFee{}, GetCommissionFeeHandler(ModelZero, 0))
	assert.IsType(t, &PercentageCommissionFee{}, GetCommissionFeeHandler(ModelPercentage, 0.001))
	assert.IsType(t, &ZeroCommissionFee{}, GetCommissionFeeHandler(Model("unknown"), 0))
}
