package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
)

// volumeBreakoutStrategy looks for bars trading at least 1.5x the average
// volume while price breaks 2% away from its 20 bar SMA.
type volumeBreakoutStrategy struct {
	params Params
}

func (s *volumeBreakoutStrategy) Name() Name {
	return NameVolumeBreakout
}

func (s *volumeBreakoutStrategy) MinBars() int {
	return 20
}

func (s *volumeBreakoutStrategy) GenerateSignal(set *indicator.Set) optional.Option[types.Signal] {
	if len(set.Bars) < s.MinBars() {
		return optional.None[types.Signal]()
	}

	avgVolume := indicator.Latest(set.VolumeSMA)
	priceSMA := indicator.Latest(set.SMA)

	if !indicator.AllAvailable(avgVolume, priceSMA) || avgVolume <= 0 {
		return optional.None[types.Signal]()
	}

	latest, _ := set.Bars.Latest()
	price := latest.Close
	volume := latest.Volume

	if volume <= 1.5*avgVolume {
		return optional.None[types.Signal]()
	}

	strength := (volume/avgVolume - 1) * 50
	values := map[string]float64{
		"volume_ratio": volume / avgVolume,
		"price_vs_sma": (price - priceSMA) / priceSMA * 100,
	}

	switch {
	case price > priceSMA*1.02:
		return optional.Some(buildSignal(set, NameVolumeBreakout, types.SignalActionBuy, strength, values))

	case price < priceSMA*0.98:
		return optional.Some(buildSignal(set, NameVolumeBreakout, types.SignalActionSell, strength, values))
	}

	return optional.None[types.Signal]()
}
