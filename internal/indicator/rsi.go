package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() *RSI {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
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

	r.period = period

	return nil
}

// MinBars returns the minimum number of bars required.
func (r *RSI) MinBars() int {
	return r.period + 1
}

// Compute returns the RSI series aligned to the input bars. Uses Wilder's
// smoothing over average gains and losses; values before the warmup are NaN.
func (r *RSI) Compute(bars types.BarSeries) []float64 {
	closes := bars.Closes()
	out := nanSlice(len(closes))

	if len(closes) < r.MinBars() {
		return out
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)

	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := WilderSmooth(gains, r.period)
	avgLoss := WilderSmooth(losses, r.period)

	for i := r.period; i < len(closes); i++ {
		gain := avgGain[i-1]
		loss := avgLoss[i-1]

		if !AllAvailable(gain, loss) {
			continue
		}

		if loss == 0 {
			out[i] = 100

			continue
		}

		rs := gain / loss
		out[i] = 100 - 100/(1+rs)
	}

	return out
}
