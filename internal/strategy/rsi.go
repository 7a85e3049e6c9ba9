package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// rsiStrategy trades RSI crossings of the oversold and overbought levels.
// A buy requires the bar volume to clear the volume threshold; a sell fires
// on the crossing alone.
type rsiStrategy struct {
	params Params
}

func (s *rsiStrategy) Name() Name {
	return NameRSI
}

func (s *rsiStrategy) MinBars() int {
	return s.params.RSIPeriod + 1
}

func (s *rsiStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	currentRSI := indicator.Latest(set.RSI)
	previousRSI := indicator.Previous(set.RSI)

	if !indicator.AllAvailable(currentRSI, previousRSI) {
		return optional.None[types.Signal]()
	}

	latest, _ := set.Bars.Latest()

	switch {
	case previousRSI <= s.params.RSIOversold &&
		currentRSI > s.params.RSIOversold &&
		latest.Volume > s.params.VolumeThreshold:

		strength := (s.params.RSIOversold - previousRSI) * 2

		return optional.Some(buildSignal(set, NameRSI, types.SignalActionBuy, strength, map[string]float64{
			"rsi": currentRSI,
		}))

	case previousRSI >= s.params.RSIOverbought &&
		currentRSI < s.params.RSIOverbought:

		strength := (previousRSI - s.params.RSIOverbought) * 2

		return optional.Some(buildSignal(set, NameRSI, types.SignalActionSell, strength, map[string]float64{
			"rsi": currentRSI,
		}))
	}

	return optional.None[types.Signal]()
}
