package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// EMAIndicator implements the Exponential Moving Average.
type EMAIndicator struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() *EMAIndicator {
	return &EMAIndicator{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMAIndicator) Config(params ...any) error {
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

	e.period = period

	return nil
}

// MinBars returns the minimum number of bars required.
func (e *EMAIndicator) MinBars() int {
	return e.period
}

// Compute returns the EMA series of close prices aligned to the input bars.
func (e *EMAIndicator) Compute(bars types.BarSeries) []float64 {
	return EMA(bars.Closes(), e.period)
}
