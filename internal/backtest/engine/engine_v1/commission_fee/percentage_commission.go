package commission_fee

// PercentageCommissionFee charges a flat percentage of the fill notional on
// every leg, entry and exit alike.
type PercentageCommissionFee struct {
	rate float64
}

// NewPercentageCommissionFee creates a percentage commission fee with the
// given per-leg rate. A non-positive rate falls back to the default.
func NewPercentageCommissionFee(rate float64) CommissionFee {
	if rate <= 0 {
		rate = DefaultPercentageRate
	}

	return &PercentageCommissionFee{rate: rate}
}

// Calculate returns rate times notional.
func (c *PercentageCommissionFee) Calculate(notional float64) float64 {
	return c.rate * notional
}

// Rate returns the per-leg fee rate.
func (c *PercentageCommissionFee) Rate() float64 {
	return c.rate
}
