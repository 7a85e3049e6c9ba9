package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// StochasticOscillator represents the Stochastic Oscillator indicator.
type StochasticOscillator struct {
	period  int
	smoothD int
}

// StochasticResult holds the %K and %D series aligned to the input bars.
type StochasticResult struct {
	K []float64
	D []float64
}

// NewStochasticOscillator creates a new Stochastic Oscillator with default
// configuration (14, 3).
func NewStochasticOscillator() *StochasticOscillator {
	return &StochasticOscillator{
		period:  14,
		smoothD: 3,
	}
}

// Name returns the name of the indicator.
func (s *StochasticOscillator) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Config configures the Stochastic Oscillator. Expected parameters:
// period (int), smoothD (int).
func (s *StochasticOscillator) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter,
			"Config expects 2 parameters: period (int), smoothD (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	smoothD, ok := params[1].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for smoothD parameter, expected int")
	}

	if smoothD <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "smoothD must be a positive integer, got %d", smoothD)
	}

	s.period = period
	s.smoothD = smoothD

	return nil
}

// MinBars returns the minimum number of bars required.
func (s *StochasticOscillator) MinBars() int {
	return s.period + s.smoothD - 1
}

// Compute returns the %K and %D series. %K measures the close relative to the
// recent high/low range; %D is an SMA of %K. When the range is zero %K is 50.
func (s *StochasticOscillator) Compute(bars types.BarSeries) StochasticResult {
	closes := bars.Closes()
	highs := bars.Highs()
	lows := bars.Lows()

	highest := RollingMax(highs, s.period)
	lowest := RollingMin(lows, s.period)

	k := nanSlice(len(closes))
	for i := range closes {
		if !AllAvailable(highest[i], lowest[i]) {
			continue
		}
		rng := highest[i] - lowest[i]
		if rng == 0 {
			k[i] = 50
			continue
		}
		k[i] = (closes[i] - lowest[i]) / rng * 100
	}

	d := SMA(k, s.smoothD)

	return StochasticResult{K: k, D: d}
}
