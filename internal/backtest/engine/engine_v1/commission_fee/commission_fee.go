package commission_fee

type CommissionFee interface {
	// Calculate returns the commission fee in USD for a fill of the given
	// notional value (price times quantity).
	Calculate(notional float64) float64
	// Rate returns the proportional fee rate applied to each leg.
	Rate() float64
}

type Model string

const (
	ModelZero       Model = "zero"
	ModelPercentage Model = "percentage"
)

var AllModels = []any{
	ModelZero,
	ModelPercentage,
}

// DefaultPercentageRate is the per-leg fee rate used when the configuration
// selects the percentage model without a rate.
const DefaultPercentageRate = 0.001

func GetCommissionFeeHandler(model Model, rate float64) CommissionFee {
	switch model {
	case ModelPercentage:
		return NewPercentageCommissionFee(rate)
	case ModelZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
