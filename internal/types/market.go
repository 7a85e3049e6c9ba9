package types

import "time"

// MarketData represents a single OHLCV price bar. Bars are immutable once
// fetched; all indicator and signal computation derives from them.
type MarketData struct {
	Symbol string    `csv:"symbol" yaml:"symbol" json:"symbol"`
	Time   time.Time `csv:"time" yaml:"time" json:"time"`
	Open   float64   `csv:"open" yaml:"open" json:"open"`
	High   float64   `csv:"high" yaml:"high" json:"high"`
	Low    float64   `csv:"low" yaml:"low" json:"low"`
	Close  float64   `csv:"close" yaml:"close" json:"close"`
	Volume float64   `csv:"volume" yaml:"volume" json:"volume"`
}

// BarSeries is an ordered sequence of price bars, oldest first.
type BarSeries []MarketData

// Closes returns the close prices of the series, aligned by index.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, bar := range s {
		out[i] = bar.Close
	}

	return out
}

// Highs returns the high prices of the series, aligned by index.
func (s BarSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, bar := range s {
		out[i] = bar.High
	}

	return out
}

// Lows returns the low prices of the series, aligned by index.
func (s BarSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, bar := range s {
		out[i] = bar.Low
	}

	return out
}

// Volumes returns the volumes of the series, aligned by index.
func (s BarSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, bar := range s {
		out[i] = bar.Volume
	}

	return out
}

// Latest returns the most recent bar. The boolean is false for an empty series.
func (s BarSeries) Latest() (MarketData, bool) {
	if len(s) == 0 {
		return MarketData{}, false
	}

	return s[len(s)-1], true
}

// Previous returns the second most recent bar. The boolean is false when the
// series has fewer than two bars.
func (s BarSeries) Previous() (MarketData, bool) {
	if len(s) < 2 {
		return MarketData{}, false
	}

	return s[len(s)-2], true
}
