package commission_fee

// ZeroCommissionFee implements CommissionFee with no fees.
type ZeroCommissionFee struct{}

// NewZeroCommissionFee creates a new zero commission fee.
func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

// Calculate returns 0 for any notional.
func (c *ZeroCommissionFee) Calculate(notional float64) float64 {
	return 0.0
}

// Rate returns 0.
func (c *ZeroCommissionFee) Rate() float64 {
	return 0.0
}
