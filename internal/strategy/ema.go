package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// emaStrategy follows trends with stacked 12 and 26 bar EMAs: buy when price
// sits above both in order, sell when it sits below both.
type emaStrategy struct {
	params Params
}

func (s *emaStrategy) Name() Name {
	return NameEMA
}

func (s *emaStrategy) MinBars() int {
	return 26
}

func (s *emaStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	emaFast := indicator.Latest(set.EMAFast)
	emaSlow := indicator.Latest(set.EMASlow)

	if !indicator.AllAvailable(emaFast, emaSlow) {
		return optional.None[types.Signal]()
	}

	latest, _ := set.Bars.Latest()
	price := latest.Close

	values := map[string]float64{
		"ema_fast": emaFast,
		"ema_slow": emaSlow,
	}

	switch {
	case price > emaFast && emaFast > emaSlow:
		strength := (price - emaFast) / emaFast * 100

		return optional.Some(buildSignal(set, NameEMA, types.SignalActionBuy, strength, values))

	case price < emaFast && emaFast < emaSlow:
		strength := (emaFast - price) / price * 100

		return optional.Some(buildSignal(set, NameEMA, types.SignalActionSell, strength, values))
	}

	return optional.None[types.Signal]()
}
