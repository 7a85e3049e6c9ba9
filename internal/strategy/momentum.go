package strategy

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// momentumStrategy pairs rate of change with an RSI filter: strong positive
// momentum buys unless RSI is already overbought, strong negative momentum
// sells unless RSI is already oversold.
type momentumStrategy struct {
	params Params
}

func (s *momentumStrategy) Name() Name {
	return NameMomentum
}

func (s *momentumStrategy) MinBars() int {
	return 20
}

func (s *momentumStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	roc := indicator.Latest(set.ROC)
	rsi := indicator.Latest(set.RSI)

	if !indicator.AllAvailable(roc, rsi) {
		return optional.None[types.Signal]()
	}

	values := map[string]float64{
		"roc": roc,
		"rsi": rsi,
	}

	switch {
	case roc > 2 && rsi < 70:
		return optional.Some(buildSignal(set, NameMomentum, types.SignalActionBuy, roc*10, values))

	case roc < -2 && rsi > 30:
		return optional.Some(buildSignal(set, NameMomentum, types.SignalActionSell, math.Abs(roc)*10, values))
	}

	return optional.None[types.Signal]()
}
