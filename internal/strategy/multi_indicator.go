package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// multiIndicatorStrategy is a consensus of the RSI, MACD and Bollinger
// generators. It signals only when at least two of the three agree on a
// direction; the combined strength is the mean of the agreeing strengths.
type multiIndicatorStrategy struct {
	params    Params
	rsi       *rsiStrategy
	macd      *macdStrategy
	bollinger *bollingerStrategy
}

func newMultiIndicatorStrategy(p Params) *multiIndicatorStrategy {
	return &multiIndicatorStrategy{
		params:    p,
		rsi:       &rsiStrategy{params: p},
		macd:      &macdStrategy{params: p},
		bollinger: &bollingerStrategy{params: p},
	}
}

func (s *multiIndicatorStrategy) Name() Name {
	return NameMultiIndicator
}

func (s *multiIndicatorStrategy) MinBars() int {
	return 26
}

func (s *multiIndicatorStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	votes := []optional.Option[types.Signal]{
		s.rsi.GenerateSignal(set),
		s.macd.GenerateSignal(set),
		s.bollinger.GenerateSignal(set),
	}

	var (
		buyStrengths  []float64
		sellStrengths []float64
	)

	for _, vote := range votes {
		if vote.IsNone() {
			continue
		}

		signal := vote.Unwrap()

		switch signal.Action {
		case types.SignalActionBuy:
			buyStrengths = append(buyStrengths, signal.Strength)
		case types.SignalActionSell:
			sellStrengths = append(sellStrengths, signal.Strength)
		}
	}

	switch {
	case len(buyStrengths) >= 2:
		return optional.Some(buildSignal(set, NameMultiIndicator, types.SignalActionBuy,
			mean(buyStrengths), map[string]float64{
				"indicators_count": float64(len(buyStrengths)),
			}))

	case len(sellStrengths) >= 2:
		return optional.Some(buildSignal(set, NameMultiIndicator, types.SignalActionSell,
			mean(sellStrengths), map[string]float64{
				"indicators_count": float64(len(sellStrengths)),
			}))
	}

	return optional.None[types.Signal]()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
