package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// BollingerBands represents the Bollinger Bands indicator.
type BollingerBands struct {
	period int
	stdDev float64
}

// BollingerBandsResult holds the three aligned band series.
type BollingerBandsResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default
// configuration (20, 2.0).
func NewBollingerBands() *BollingerBands {
	return &BollingerBands{
		period: 20,
		stdDev: 2.0,
	}
}

// Name returns the name of the indicator.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters:
// period (int), stdDev (float64).
func (b *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter,
			"Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "stdDev must be positive, got %f", stdDev)
	}

	b.period = period
	b.stdDev = stdDev

	return nil
}

// MinBars returns the minimum number of bars required.
func (b *BollingerBands) MinBars() int {
	return b.period
}

// Compute returns the upper, middle and lower bands aligned to the input bars.
func (b *BollingerBands) Compute(bars types.BarSeries) BollingerBandsResult {
	closes := bars.Closes()

	middle := SMA(closes, b.period)
	std := RollingStd(closes, b.period)

	upper := nanSlice(len(closes))
	lower := nanSlice(len(closes))

	for i := range closes {
		if AllAvailable(middle[i], std[i]) {
			upper[i] = middle[i] + b.stdDev*std[i]
			lower[i] = middle[i] - b.stdDev*std[i]
		}
	}

	return BollingerBandsResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
	}
}
