package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// smaCrossoverStrategy trades golden and death crosses of the 10 and 30 bar
// simple moving averages.
type smaCrossoverStrategy struct {
	params Params
}

func (s *smaCrossoverStrategy) Name() Name {
	return NameSMACrossover
}

func (s *smaCrossoverStrategy) MinBars() int {
	return 50
}

func (s *smaCrossoverStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	currentShort := indicator.Latest(set.SMAShort)
	currentLong := indicator.Latest(set.SMALong)
	prevShort := indicator.Previous(set.SMAShort)
	prevLong := indicator.Previous(set.SMALong)

	if !indicator.AllAvailable(currentShort, currentLong, prevShort, prevLong) {
		return optional.None[types.Signal]()
	}

	values := map[string]float64{
		"sma_short": currentShort,
		"sma_long":  currentLong,
	}

	switch {
	case prevShort <= prevLong && currentShort > currentLong:
		strength := (currentShort - currentLong) / currentLong * 100

		return optional.Some(buildSignal(set, NameSMACrossover, types.SignalActionBuy, strength, values))

	case prevShort >= prevLong && currentShort < currentLong:
		strength := (currentLong - currentShort) / currentShort * 100

		return optional.Some(buildSignal(set, NameSMACrossover, types.SignalActionSell, strength, values))
	}

	return optional.None[types.Signal]()
}
