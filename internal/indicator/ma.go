package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() *MA {
	return &MA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config configures the MA indicator. Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		// Try to convert from float first
		periodFloat, okFloat := params[0].(float64)
		if !okFloat {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int or float")
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	m.period = period

	return nil
}

// MinBars returns the minimum number of bars required.
func (m *MA) MinBars() int {
	return m.period
}

// Compute returns the SMA series of close prices aligned to the input bars.
func (m *MA) Compute(bars types.BarSeries) []float64 {
	return SMA(bars.Closes(), m.period)
}

// ComputeVolume returns the SMA series of volumes aligned to the input bars.
func (m *MA) ComputeVolume(bars types.BarSeries) []float64 {
	return SMA(bars.Volumes(), m.period)
}
