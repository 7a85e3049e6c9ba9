package indicator

import (
	"math"

	"github.com/algotradehub/algotrade/internal/types"
)

// TrendStrength scores how strongly the market is trending, in [0, 1]. It
// blends three components: close position relative to the 20 and 50 bar SMAs,
// an ADX-like directional strength over 14 bars, and the share of the last 10
// bars moving in one direction. Fewer than 20 bars returns the neutral 0.5.
type TrendStrength struct{}

// NewTrendStrength creates a new trend strength indicator.
func NewTrendStrength() *TrendStrength {
	return &TrendStrength{}
}

// Name returns the name of the indicator.
func (t *TrendStrength) Name() types.IndicatorType {
	return types.IndicatorTypeTrendStrength
}

// Config accepts no parameters.
func (t *TrendStrength) Config(params ...any) error {
	return nil
}

// MinBars returns the minimum number of bars required.
func (t *TrendStrength) MinBars() int {
	return 20
}

// Compute returns the trend strength for the latest bar.
func (t *TrendStrength) Compute(bars types.BarSeries) float64 {
	if len(bars) < 20 {
		return 0.5
	}

	closes := bars.Closes()
	last := len(closes) - 1
	price := closes[last]

	sma20 := SMA(closes, 20)[last]

	sma50 := sma20
	if len(closes) >= 50 {
		sma50 = SMA(closes, 50)[last]
	}

	var maScore float64

	switch {
	case price > sma20 && sma20 > sma50:
		maScore = 1.0
	case price < sma20 && sma20 < sma50:
		maScore = 1.0
	case price > sma20:
		maScore = 0.7
	case price < sma20:
		maScore = 0.7
	default:
		maScore = 0.3
	}

	directional := t.directionalStrength(bars)
	consecutive := t.consecutiveScore(closes)

	strength := maScore*0.4 + directional*0.4 + consecutive*0.2

	return math.Min(1.0, math.Max(0.0, strength))
}

// directionalStrength compares the 14 bar net move against the expected range
// a flat market would cover in the same window.
func (t *TrendStrength) directionalStrength(bars types.BarSeries) float64 {
	closes := bars.Closes()
	last := len(closes) - 1

	if last < 14 {
		return 0
	}

	tr := TrueRange(bars.Highs(), bars.Lows(), closes)
	atr := SMA(tr, 14)[last]
	if !IsAvailable(atr) || atr <= 0 {
		return 0
	}

	change := math.Abs(closes[last] - closes[last-13])

	return math.Min(change/(atr*14), 1.0)
}

func (t *TrendStrength) consecutiveScore(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}

	window := closes
	if len(window) > 10 {
		window = window[len(window)-10:]
	}

	var up, down int

	for i := 1; i < len(window); i++ {
		switch {
		case window[i] > window[i-1]:
			up++
		case window[i] < window[i-1]:
			down++
		}
	}

	switch {
	case up >= 7 || down >= 7:
		return 0.8
	case up >= 5 || down >= 5:
		return 0.6
	default:
		return 0.3
	}
}
