package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// bollingerStrategy trades band touches: a buy when price bounces back above
// the lower band, a sell when it falls back under the upper band.
type bollingerStrategy struct {
	params Params
}

func (s *bollingerStrategy) Name() Name {
	return NameBollinger
}

func (s *bollingerStrategy) MinBars() int {
	return 20
}

func (s *bollingerStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	upper := indicator.Latest(set.Bollinger.Upper)
	lower := indicator.Latest(set.Bollinger.Lower)
	middle := indicator.Latest(set.Bollinger.Middle)

	if !indicator.AllAvailable(upper, lower, middle) {
		return optional.None[types.Signal]()
	}

	latest, _ := set.Bars.Latest()
	previous, _ := set.Bars.Previous()

	currentPrice := latest.Close
	previousPrice := previous.Close

	bandWidth := upper - lower
	if bandWidth <= 0 {
		return optional.None[types.Signal]()
	}

	values := map[string]float64{
		"bb_position": (currentPrice - lower) / bandWidth,
	}

	switch {
	case previousPrice <= lower &&
		currentPrice > lower &&
		latest.Volume > s.params.VolumeThreshold:

		strength := (middle - currentPrice) / (middle - lower) * 100

		return optional.Some(buildSignal(set, NameBollinger, types.SignalActionBuy, strength, values))

	case previousPrice >= upper &&
		currentPrice < upper:

		strength := (currentPrice - middle) / (upper - middle) * 100

		return optional.Some(buildSignal(set, NameBollinger, types.SignalActionSell, strength, values))
	}

	return optional.None[types.Signal]()
}
