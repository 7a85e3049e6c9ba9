package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// ATR represents the Average True Range indicator.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator with the default period of 14.
func NewATR() *ATR {
	return &ATR{
		period: 14,
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATR) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	a.period = period

	return nil
}

// MinBars returns the minimum number of bars required.
func (a *ATR) MinBars() int {
	return a.period
}

// Compute returns the ATR series using Wilder smoothing over the true range.
func (a *ATR) Compute(bars types.BarSeries) []float64 {
	tr := TrueRange(bars.Highs(), bars.Lows(), bars.Closes())

	return WilderSmooth(tr, a.period)
}
