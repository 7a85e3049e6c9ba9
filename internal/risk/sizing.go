package risk

import (
	"math"

	"go.uber.org/zap"
)

const (
	minQuantity      = 0.001
	fallbackQuantity = 0.1
)

// PositionSize computes the quantity to trade for a new position. The base
// risk fraction is adjusted by recent performance and a capped Kelly
// fraction, the stop distance is derived from volatility, and the result is
// bounded by the maximum position notional and the exchange minimum quantity.
// Invalid inputs fall back to a small fixed quantity rather than failing the
// trade.
func (s *State) PositionSize(balance, price, atr float64) float64 {
	if balance <= 0 || price <= 0 {
		s.logger.Warn("position sizing fallback",
			zap.Float64("balance", balance),
			zap.Float64("price", price))

		return fallbackQuantity
	}

	riskPerTrade := s.adjustRiskForPerformance(s.config.RiskPerTrade)

	if kelly, ok := s.kellyFraction(); ok && kelly < riskPerTrade {
		riskPerTrade = kelly
	}

	stopDistance := s.dynamicStopDistance(price, atr)

	quantity := balance * riskPerTrade / stopDistance

	maxQuantity := balance * s.config.MaxPositionSize / price
	if quantity > maxQuantity {
		quantity = maxQuantity
	}

	if quantity < minQuantity {
		quantity = minQuantity
	}

	return quantity
}

// adjustRiskForPerformance scales the base risk by the Sharpe ratio of the
// last ten trade returns. Strong recent performance raises risk to at most
// 3%, poor performance cuts it to no less than 0.5%. Fewer than five recorded
// trades leave the base risk untouched.
func (s *State) adjustRiskForPerformance(baseRisk float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.recentTrades) < 5 {
		return baseRisk
	}

	window := s.recentTrades
	if len(window) > 10 {
		window = window[len(window)-10:]
	}

	var sum float64
	for _, trade := range window {
		sum += trade.PnLPct
	}

	mean := sum / float64(len(window))

	var variance float64
	for _, trade := range window {
		d := trade.PnLPct - mean
		variance += d * d
	}

	variance /= float64(len(window))

	std := math.Sqrt(variance)
	if std == 0 {
		return baseRisk
	}

	sharpe := mean / std

	switch {
	case sharpe > 1.0:
		return math.Min(baseRisk*1.5, 0.03)
	case sharpe < -0.5:
		return math.Max(baseRisk*0.5, 0.005)
	}

	return baseRisk
}

// kellyFraction computes a simplified Kelly criterion from the last twenty
// trades, capped at 25%. It reports false when fewer than five trades are
// recorded or no losses exist to size against.
func (s *State) kellyFraction() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.recentTrades) < 5 {
		return 0, false
	}

	window := s.recentTrades
	if len(window) > 20 {
		window = window[len(window)-20:]
	}

	var (
		wins      int
		winSum    float64
		lossSum   float64
		lossCount int
	)

	for _, trade := range window {
		switch {
		case trade.PnLPct > 0:
			wins++
			winSum += trade.PnLPct
		case trade.PnLPct < 0:
			lossCount++
			lossSum += math.Abs(trade.PnLPct)
		}
	}

	if wins == 0 || lossCount == 0 {
		return 0, false
	}

	winRate := float64(wins) / float64(len(window))
	avgWin := winSum / float64(wins)
	avgLoss := lossSum / float64(lossCount)

	if avgWin <= 0 || avgLoss <= 0 {
		return 0, false
	}

	kelly := (winRate*avgWin - (1-winRate)*avgLoss) / avgWin
	if kelly < 0 {
		kelly = 0
	}
	if kelly > 0.25 {
		kelly = 0.25
	}

	return kelly, true
}

// dynamicStopDistance derives the stop distance from the ATR, widening the
// multiplier in high volatility regimes and tightening it in quiet ones. The
// result is clamped to between 0.5% and 5% of price. A non-positive ATR
// falls back to a 2% stop.
func (s *State) dynamicStopDistance(price, atr float64) float64 {
	if atr <= 0 {
		return price * 0.02
	}

	multiplier := 2.0

	volatilityRatio := atr / price
	switch {
	case volatilityRatio > 0.05:
		multiplier = 3.0
	case volatilityRatio < 0.01:
		multiplier = 1.5
	}

	stopDistance := multiplier * atr

	minStop := price * 0.005
	maxStop := price * 0.05

	return math.Max(minStop, math.Min(stopDistance, maxStop))
}
