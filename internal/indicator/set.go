package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// SetConfig selects the periods used when building a Set. Zero values fall
// back to the defaults below.
type SetConfig struct {
	RSIPeriod       int `yaml:"rsi_period" validate:"omitempty,gt=0"`
	SMAPeriod       int `yaml:"sma_period" validate:"omitempty,gt=0"`
	EMAFastPeriod   int `yaml:"ema_fast_period" validate:"omitempty,gt=0"`
	EMASlowPeriod   int `yaml:"ema_slow_period" validate:"omitempty,gt=0"`
	SMAShortPeriod  int `yaml:"sma_short_period" validate:"omitempty,gt=0"`
	SMALongPeriod   int `yaml:"sma_long_period" validate:"omitempty,gt=0"`
	ROCPeriod       int `yaml:"roc_period" validate:"omitempty,gt=0"`
	ATRPeriod       int `yaml:"atr_period" validate:"omitempty,gt=0"`
	VolumeSMAPeriod int `yaml:"volume_sma_period" validate:"omitempty,gt=0"`
}

// DefaultSetConfig returns the standard periods.
func DefaultSetConfig() SetConfig {
	return SetConfig{
		RSIPeriod:       14,
		SMAPeriod:       20,
		EMAFastPeriod:   12,
		EMASlowPeriod:   26,
		SMAShortPeriod:  10,
		SMALongPeriod:   30,
		ROCPeriod:       10,
		ATRPeriod:       14,
		VolumeSMAPeriod: 20,
	}
}

func (c SetConfig) withDefaults() SetConfig {
	def := DefaultSetConfig()

	if c.RSIPeriod == 0 {
		c.RSIPeriod = def.RSIPeriod
	}
	if c.SMAPeriod == 0 {
		c.SMAPeriod = def.SMAPeriod
	}
	if c.EMAFastPeriod == 0 {
		c.EMAFastPeriod = def.EMAFastPeriod
	}
	if c.EMASlowPeriod == 0 {
		c.EMASlowPeriod = def.EMASlowPeriod
	}
	if c.SMAShortPeriod == 0 {
		c.SMAShortPeriod = def.SMAShortPeriod
	}
	if c.SMALongPeriod == 0 {
		c.SMALongPeriod = def.SMALongPeriod
	}
	if c.ROCPeriod == 0 {
		c.ROCPeriod = def.ROCPeriod
	}
	if c.ATRPeriod == 0 {
		c.ATRPeriod = def.ATRPeriod
	}
	if c.VolumeSMAPeriod == 0 {
		c.VolumeSMAPeriod = def.VolumeSMAPeriod
	}

	return c
}

// Set holds every indicator series the strategies read, aligned index for
// index with the bars it was computed from. Building a Set never mutates the
// input bars; positions inside an indicator's warmup window hold NaN.
type Set struct {
	Bars types.BarSeries

	RSI        []float64
	SMA        []float64
	EMA        []float64
	Bollinger  BollingerBandsResult
	MACD       MACDResult
	VolumeSMA  []float64
	Stochastic StochasticResult
	ATR        []float64
	ROC        []float64

	EMAFast  []float64
	EMASlow  []float64
	SMAShort []float64
	SMALong  []float64

	TrendStrength float64
}

// BuildSet computes all indicator series over the given bars. At least two
// bars are required so crossing rules have a previous value to compare with.
func BuildSet(bars types.BarSeries, cfg SetConfig) (*Set, error) {
	if len(bars) < 2 {
		return nil, errors.NewInsufficientDataError(2, len(bars), "", "not enough bars to compute indicators")
	}

	cfg = cfg.withDefaults()

	rsi, err := resolve[*RSI](types.IndicatorTypeRSI, cfg.RSIPeriod)
	if err != nil {
		return nil, err
	}

	sma, err := resolve[*MA](types.IndicatorTypeSMA, cfg.SMAPeriod)
	if err != nil {
		return nil, err
	}

	ema, err := resolve[*EMAIndicator](types.IndicatorTypeEMA, cfg.SMAPeriod)
	if err != nil {
		return nil, err
	}

	emaFast, err := resolve[*EMAIndicator](types.IndicatorTypeEMA, cfg.EMAFastPeriod)
	if err != nil {
		return nil, err
	}

	emaSlow, err := resolve[*EMAIndicator](types.IndicatorTypeEMA, cfg.EMASlowPeriod)
	if err != nil {
		return nil, err
	}

	smaShort, err := resolve[*MA](types.IndicatorTypeSMA, cfg.SMAShortPeriod)
	if err != nil {
		return nil, err
	}

	smaLong, err := resolve[*MA](types.IndicatorTypeSMA, cfg.SMALongPeriod)
	if err != nil {
		return nil, err
	}

	roc, err := resolve[*ROC](types.IndicatorTypeROC, cfg.ROCPeriod)
	if err != nil {
		return nil, err
	}

	atr, err := resolve[*ATR](types.IndicatorTypeATR, cfg.ATRPeriod)
	if err != nil {
		return nil, err
	}

	volumeSMA, err := resolve[*MA](types.IndicatorTypeSMA, cfg.VolumeSMAPeriod)
	if err != nil {
		return nil, err
	}

	bollinger, err := resolve[*BollingerBands](types.IndicatorTypeBollingerBands)
	if err != nil {
		return nil, err
	}

	macd, err := resolve[*MACD](types.IndicatorTypeMACD)
	if err != nil {
		return nil, err
	}

	stochastic, err := resolve[*StochasticOscillator](types.IndicatorTypeStochastic)
	if err != nil {
		return nil, err
	}

	trend, err := resolve[*TrendStrength](types.IndicatorTypeTrendStrength)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Bars:          bars,
		RSI:           rsi.Compute(bars),
		SMA:           sma.Compute(bars),
		EMA:           ema.Compute(bars),
		Bollinger:     bollinger.Compute(bars),
		MACD:          macd.Compute(bars),
		VolumeSMA:     volumeSMA.ComputeVolume(bars),
		Stochastic:    stochastic.Compute(bars),
		ATR:           atr.Compute(bars),
		ROC:           roc.Compute(bars),
		EMAFast:       emaFast.Compute(bars),
		EMASlow:       emaSlow.Compute(bars),
		SMAShort:      smaShort.Compute(bars),
		SMALong:       smaLong.Compute(bars),
		TrendStrength: trend.Compute(bars),
	}

	return set, nil
}

// Latest returns the last value of a series.
func Latest(series []float64) float64 {
	if len(series) == 0 {
		return NaN()
	}

	return series[len(series)-1]
}

// Previous returns the second to last value of a series.
func Previous(series []float64) float64 {
	if len(series) < 2 {
		return NaN()
	}

	return series[len(series)-2]
}
