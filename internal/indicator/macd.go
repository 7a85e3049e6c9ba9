package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// MACDResult holds the three aligned MACD output series.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// NewMACD creates a new MACD indicator with default configuration (12, 26, 9).
func NewMACD() *MACD {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int),
// slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter,
			"Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	periods := make([]int, 3)

	for i, param := range params {
		period, ok := param.(int)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
		}

		if period <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
		}

		periods[i] = period
	}

	if periods[0] >= periods[1] {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"fast period %d must be smaller than slow period %d", periods[0], periods[1])
	}

	m.fastPeriod = periods[0]
	m.slowPeriod = periods[1]
	m.signalPeriod = periods[2]

	return nil
}

// MinBars returns the minimum number of bars required for the signal line.
func (m *MACD) MinBars() int {
	return m.slowPeriod + m.signalPeriod - 1
}

// Compute returns the MACD line, signal line and histogram aligned to the
// input bars.
func (m *MACD) Compute(bars types.BarSeries) MACDResult {
	closes := bars.Closes()

	fast := EMA(closes, m.fastPeriod)
	slow := EMA(closes, m.slowPeriod)

	line := nanSlice(len(closes))
	for i := range closes {
		if AllAvailable(fast[i], slow[i]) {
			line[i] = fast[i] - slow[i]
		}
	}

	// The signal line is an EMA over the available portion of the MACD line.
	signal := nanSlice(len(closes))

	if len(closes) >= m.slowPeriod {
		available := line[m.slowPeriod-1:]

		smoothed := EMA(available, m.signalPeriod)
		for i, v := range smoothed {
			signal[m.slowPeriod-1+i] = v
		}
	}

	histogram := nanSlice(len(closes))
	for i := range closes {
		if AllAvailable(line[i], signal[i]) {
			histogram[i] = line[i] - signal[i]
		}
	}

	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: histogram,
	}
}
