package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// stochasticStrategy trades %K/%D crossings at the extremes: a bullish cross
// below 20 buys, a bearish cross above 80 sells.
type stochasticStrategy struct {
	params Params
}

func (s *stochasticStrategy) Name() Name {
	return NameStochastic
}

func (s *stochasticStrategy) MinBars() int {
	return 14
}

func (s *stochasticStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	currentK := indicator.Latest(set.Stochastic.K)
	currentD := indicator.Latest(set.Stochastic.D)
	prevK := indicator.Previous(set.Stochastic.K)
	prevD := indicator.Previous(set.Stochastic.D)

	if !indicator.AllAvailable(currentK, currentD, prevK, prevD) {
		return optional.None[types.Signal]()
	}

	values := map[string]float64{
		"stoch_k": currentK,
		"stoch_d": currentD,
	}

	switch {
	case currentK > currentD && prevK <= prevD && currentK < 20:
		strength := (20 - currentK) * 5

		return optional.Some(buildSignal(set, NameStochastic, types.SignalActionBuy, strength, values))

	case currentK < currentD && prevK >= prevD && currentK > 80:
		strength := (currentK - 80) * 5

		return optional.Some(buildSignal(set, NameStochastic, types.SignalActionSell, strength, values))
	}

	return optional.None[types.Signal]()
}
