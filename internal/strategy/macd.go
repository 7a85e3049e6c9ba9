package strategy

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// macdStrategy trades MACD line crossings of its signal line. Strength
// scales with the spread between the two at the crossing bar.
type macdStrategy struct {
	params Params
}

func (s *macdStrategy) Name() Name {
	return NameMACD
}

func (s *macdStrategy) MinBars() int {
	return 26
}

func (s *macdStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	currentMACD := indicator.Latest(set.MACD.Line)
	currentSignal := indicator.Latest(set.MACD.Signal)
	previousMACD := indicator.Previous(set.MACD.Line)
	previousSignal := indicator.Previous(set.MACD.Signal)

	if !indicator.AllAvailable(currentMACD, currentSignal) {
		return optional.None[types.Signal]()
	}

	latest, _ := set.Bars.Latest()

	strength := math.Abs(currentMACD-currentSignal) * 100
	values := map[string]float64{
		"macd":        currentMACD,
		"macd_signal": currentSignal,
	}

	switch {
	case previousMACD <= previousSignal &&
		currentMACD > currentSignal &&
		latest.Volume > s.params.VolumeThreshold:

		return optional.Some(buildSignal(set, NameMACD, types.SignalActionBuy, strength, values))

	case previousMACD >= previousSignal &&
		currentMACD < currentSignal:

		return optional.Some(buildSignal(set, NameMACD, types.SignalActionSell, strength, values))
	}

	return optional.None[types.Signal]()
}
