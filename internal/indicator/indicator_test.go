package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/algotradehub/algotrade/internal/types"
	"github.com/stretchr/testify/suite"
)

// barsFromCloses builds a bar series where highs and lows bracket the close
// by one unit. Good enough for close-driven indicators.
func barsFromCloses(closes ...float64) types.BarSeries {
	bars := make(types.BarSeries, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, c := range closes {
		bars[i] = types.MarketData{
			Symbol: "BTCUSDT",
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestSMAKernel() {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)

	suite.False(IsAvailable(out[0]))
	suite.False(IsAvailable(out[1]))
	suite.InDelta(2.0, out[2], 1e-9)
	suite.InDelta(3.0, out[3], 1e-9)
	suite.InDelta(4.0, out[4], 1e-9)
}

func (suite *IndicatorTestSuite) TestSMAKernelRestartsAfterNaN() {
	out := SMA([]float64{math.NaN(), math.NaN(), 1, 2, 3}, 2)

	suite.False(IsAvailable(out[2]))
	suite.InDelta(1.5, out[3], 1e-9)
	suite.InDelta(2.5, out[4], 1e-9)
}

func (suite *IndicatorTestSuite) TestEMAKernelSeededWithSMA() {
	out := EMA([]float64{1, 2, 3, 4, 5}, 3)

	suite.False(IsAvailable(out[1]))
	suite.InDelta(2.0, out[2], 1e-9)
	suite.InDelta(3.0, out[3], 1e-9)
	suite.InDelta(4.0, out[4], 1e-9)
}

func (suite *IndicatorTestSuite) TestRSIAllGains() {
	rsi := NewRSI()
	suite.Require().NoError(rsi.Config(3))

	out := rsi.Compute(barsFromCloses(1, 2, 3, 4, 5))

	suite.False(IsAvailable(out[2]))
	suite.InDelta(100.0, out[3], 1e-9)
	suite.InDelta(100.0, out[4], 1e-9)
}

func (suite *IndicatorTestSuite) TestRSIMixedMoves() {
	rsi := NewRSI()
	suite.Require().NoError(rsi.Config(2))

	out := rsi.Compute(barsFromCloses(10, 11, 10.5, 11.5))

	// avgGain 0.5, avgLoss 0.25 at the seed bar
	suite.InDelta(100.0-100.0/3.0, out[2], 1e-9)
	// next bar: avgGain 0.75, avgLoss 0.125
	suite.InDelta(100.0-100.0/7.0, out[3], 1e-9)
}

func (suite *IndicatorTestSuite) TestRSIConfigRejectsBadPeriod() {
	rsi := NewRSI()
	suite.Error(rsi.Config(0))
	suite.Error(rsi.Config(-5))
	suite.Error(rsi.Config("14"))
}

func (suite *IndicatorTestSuite) TestBollingerBands() {
	bb := NewBollingerBands()
	suite.Require().NoError(bb.Config(3, 2.0))

	out := bb.Compute(barsFromCloses(1, 2, 3, 4, 5))

	suite.False(IsAvailable(out.Middle[1]))

	std := math.Sqrt(2.0 / 3.0)
	suite.InDelta(2.0, out.Middle[2], 1e-9)
	suite.InDelta(2.0+2*std, out.Upper[2], 1e-9)
	suite.InDelta(2.0-2*std, out.Lower[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestMACDFlatSpread() {
	macd := NewMACD()
	suite.Require().NoError(macd.Config(2, 3, 2))

	out := macd.Compute(barsFromCloses(1, 2, 3, 4, 5))

	suite.False(IsAvailable(out.Line[1]))
	suite.InDelta(0.5, out.Line[2], 1e-9)
	suite.InDelta(0.5, out.Line[4], 1e-9)

	suite.False(IsAvailable(out.Signal[2]))
	suite.InDelta(0.5, out.Signal[3], 1e-9)
	suite.InDelta(0.0, out.Histogram[4], 1e-9)
}

func (suite *IndicatorTestSuite) TestStochasticOscillator() {
	stoch := NewStochasticOscillator()
	suite.Require().NoError(stoch.Config(3, 1))

	out := stoch.Compute(barsFromCloses(5, 6, 7))

	// range is lows[0]=4 to highs[2]=8, close 7
	suite.InDelta(75.0, out.K[2], 1e-9)
	suite.InDelta(75.0, out.D[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestStochasticFlatRange() {
	stoch := NewStochasticOscillator()
	suite.Require().NoError(stoch.Config(3, 1))

	bars := barsFromCloses(5, 5, 5)
	for i := range bars {
		bars[i].High = 5
		bars[i].Low = 5
	}

	out := stoch.Compute(bars)
	suite.InDelta(50.0, out.K[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestATRConstantRange() {
	atr := NewATR()
	suite.Require().NoError(atr.Config(2))

	bars := types.BarSeries{
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
		{High: 14, Low: 12, Close: 13},
	}

	out := atr.Compute(bars)

	suite.False(IsAvailable(out[0]))
	suite.InDelta(2.0, out[1], 1e-9)
	suite.InDelta(2.0, out[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestROC() {
	roc := NewROC()
	suite.Require().NoError(roc.Config(2))

	out := roc.Compute(barsFromCloses(100, 110, 121, 133.1))

	suite.False(IsAvailable(out[1]))
	suite.InDelta(21.0, out[2], 1e-9)
	suite.InDelta(21.0, out[3], 1e-9)
}

func (suite *IndicatorTestSuite) TestTrendStrengthNeutralOnShortHistory() {
	ts := NewTrendStrength()
	suite.InDelta(0.5, ts.Compute(barsFromCloses(1, 2, 3)), 1e-9)
}

func (suite *IndicatorTestSuite) TestTrendStrengthStrongUptrend() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	strength := NewTrendStrength().Compute(barsFromCloses(closes...))
	suite.GreaterOrEqual(strength, 0.7)
	suite.LessOrEqual(strength, 1.0)
}

func (suite *IndicatorTestSuite) TestTrendStrengthSideways() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i))
	}

	strength := NewTrendStrength().Compute(barsFromCloses(closes...))
	suite.Less(strength, 0.7)
}
