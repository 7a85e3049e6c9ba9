package risk

import (
	"math"

	"github.com/algotradehub/algotrade/internal/types"
)

// AdaptiveStops derives stop loss and take profit levels from volatility and
// trend strength. Strong trends get wider stops and higher targets, weak
// trends tighter ones; the stop distance is always kept between 0.5% and 5%
// of the entry price, and the take profit preserves the multiplier ratio on
// the clamped distance. A non-positive ATR falls back to 2% of entry.
func AdaptiveStops(entryPrice, atr, trendStrength float64, side types.PositionSide) (stopLoss, takeProfit float64) {
	if atr <= 0 {
		atr = entryPrice * 0.02
	}

	stopMultiplier := 2.0
	profitMultiplier := 4.0

	switch {
	case trendStrength > 0.7:
		stopMultiplier = 3.0
		profitMultiplier = 6.0
	case trendStrength < 0.3:
		stopMultiplier = 1.5
		profitMultiplier = 3.0
	}

	volatilityRatio := atr / entryPrice
	switch {
	case volatilityRatio > 0.05:
		stopMultiplier *= 1.5
		profitMultiplier *= 1.2
	case volatilityRatio < 0.01:
		stopMultiplier *= 0.8
		profitMultiplier *= 0.9
	}

	stopDistance := stopMultiplier * atr

	minStop := entryPrice * 0.005
	maxStop := entryPrice * 0.05
	stopDistance = math.Max(minStop, math.Min(stopDistance, maxStop))

	profitDistance := stopDistance * (profitMultiplier / stopMultiplier)

	if side == types.PositionSideSell {
		return entryPrice + stopDistance, entryPrice - profitDistance
	}

	return entryPrice - stopDistance, entryPrice + profitDistance
}
