package types

type IndicatorType string

const (
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeStochastic     IndicatorType = "stochastic_oscillator"
	IndicatorTypeATR            IndicatorType = "atr"
	IndicatorTypeROC            IndicatorType = "roc"
	IndicatorTypeVolumeSMA      IndicatorType = "volume_sma"
	IndicatorTypeTrendStrength  IndicatorType = "trend_strength"
)
