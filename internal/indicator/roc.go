package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// ROC represents the Rate of Change indicator, expressed as a percentage.
type ROC struct {
	period int
}

// NewROC creates a new ROC indicator with the default period of 10.
func NewROC() *ROC {
	return &ROC{
		period: 10,
	}
}

// Name returns the name of the indicator.
func (r *ROC) Name() types.IndicatorType {
	return types.IndicatorTypeROC
}

// Config configures the ROC indicator. Expected parameters: period (int).
func (r *ROC) Config(params ...any) error {
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
func (r *ROC) MinBars() int {
	return r.period + 1
}

// Compute returns the percentage change of the close over the lookback period.
// Bars whose lookback close is zero stay NaN.
func (r *ROC) Compute(bars types.BarSeries) []float64 {
	closes := bars.Closes()
	out := nanSlice(len(closes))

	for i := r.period; i < len(closes); i++ {
		ref := closes[i-r.period]
		if ref == 0 {
			continue
		}

		out[i] = (closes[i]/ref - 1) * 100
	}

	return out
}
