package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/algotradehub/algotrade/internal/types"
)

type MetricsTestSuite struct {
	suite.Suite
	calc *Calculator
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.calc = NewCalculator()
}

func closedTrade(entry, exit, qty float64, side types.PositionSide, holdHours int) types.Position {
	entryTime := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	p := types.Position{
		Exchange:   "binance",
		Symbol:     "BTC/USDT",
		Side:       side,
		EntryPrice: entry,
		Quantity:   qty,
		EntryTime:  entryTime,
		Status:     types.PositionStatusOpen,
	}

	_ = p.Close(exit, entryTime.Add(time.Duration(holdHours)*time.Hour), 0.001)

	return p
}

func (suite *MetricsTestSuite) TestCalculateEmptyEquity() {
	out := suite.calc.Calculate([]float64{100}, nil, nil)
	suite.NotContains(out, KeyTotalReturnPct)
	suite.InDelta(0.0, out[KeyNumTrades], 1e-9)
}

func (suite *MetricsTestSuite) TestTotalReturn() {
	out := suite.calc.Calculate([]float64{100, 105, 110, 120}, nil, nil)
	suite.InDelta(20.0, out[KeyTotalReturnPct], 1e-9)
	suite.InDelta(120.0, out[KeyEquityFinal], 1e-9)
	suite.InDelta(120.0, out[KeyEquityPeak], 1e-9)
}

func (suite *MetricsTestSuite) TestMonotoneCurveHasZeroDrawdown() {
	out := suite.calc.Calculate([]float64{100, 101, 102, 105, 110}, nil, nil)
	suite.InDelta(0.0, out[KeyMaxDrawdownPct], 1e-9)
	suite.InDelta(0.0, out[KeyAvgDrawdownPct], 1e-9)
	suite.InDelta(0.0, out[KeyMaxDrawdownBars], 1e-9)
}

func (suite *MetricsTestSuite) TestDrawdownDepthAndDuration() {
	// one dip of 10% lasting a single bar
	out := suite.calc.Calculate([]float64{100, 110, 99, 110}, nil, nil)
	suite.InDelta(-10.0, out[KeyMaxDrawdownPct], 1e-9)
	suite.InDelta(-10.0, out[KeyAvgDrawdownPct], 1e-9)
	suite.InDelta(1.0, out[KeyMaxDrawdownBars], 1e-9)
	suite.InDelta(1.0, out[KeyAvgDrawdownBars], 1e-9)
}

func (suite *MetricsTestSuite) TestDrawdownMultiplePeriods() {
	equity := []float64{100, 90, 95, 100, 110, 100, 95, 105, 120}
	out := suite.calc.Calculate(equity, nil, nil)

	// dips of 2 bars and 3 bars; the deepest point is 95 against the 110 peak
	suite.InDelta(3.0, out[KeyMaxDrawdownBars], 1e-9)
	suite.InDelta(2.5, out[KeyAvgDrawdownBars], 1e-9)
	suite.InDelta((95.0-110.0)/110.0*100.0, out[KeyMaxDrawdownPct], 1e-9)
}

func (suite *MetricsTestSuite) TestAnnualizedReturnOneYear() {
	// 252 daily returns spanning exactly one year
	equity := make([]float64, 253)
	for i := range equity {
		equity[i] = 100 * math.Pow(1.10, float64(i)/252)
	}

	out := suite.calc.Calculate(equity, nil, nil)
	suite.InDelta(10.0, out[KeyAnnualizedReturnPct], 1e-6)
}

func (suite *MetricsTestSuite) TestSharpeRatioFlatCurve() {
	out := suite.calc.Calculate([]float64{100, 100, 100, 100}, nil, nil)
	suite.InDelta(0.0, out[KeySharpeRatio], 1e-9)
	suite.InDelta(0.0, out[KeyVolatilityPct], 1e-9)
}

func (suite *MetricsTestSuite) TestSortinoZeroWithoutDownside() {
	out := suite.calc.Calculate([]float64{100, 101, 102, 103}, nil, nil)
	suite.InDelta(0.0, out[KeySortinoRatio], 1e-9)
}

func (suite *MetricsTestSuite) TestCalmarZeroWithoutDrawdown() {
	out := suite.calc.Calculate([]float64{100, 101, 102, 103}, nil, nil)
	suite.InDelta(0.0, out[KeyCalmarRatio], 1e-9)
}

func (suite *MetricsTestSuite) TestBenchmarkBeta() {
	equity := []float64{100, 110, 105, 115, 120}

	out := suite.calc.Calculate(equity, equity, nil)

	// sample covariance over population variance for identical series
	suite.InDelta(4.0/3.0, out[KeyBeta], 1e-9)
	suite.InDelta(20.0, out[KeyBuyHoldReturnPct], 1e-9)
}

func (suite *MetricsTestSuite) TestBenchmarkSkippedOnLengthMismatch() {
	out := suite.calc.Calculate([]float64{100, 110, 120}, []float64{100, 105}, nil)
	suite.NotContains(out, KeyBeta)
}

func (suite *MetricsTestSuite) TestTradeMetricsCommissionAdjusted() {
	// entry 100, exit 110, qty 10, 0.1% per leg: gross 100, commission 2.1
	trade := closedTrade(100, 110, 10, types.PositionSideBuy, 24)

	out := suite.calc.Calculate([]float64{10000, 10097.9}, nil, []types.Position{trade})

	suite.InDelta(1.0, out[KeyNumTrades], 1e-9)
	suite.InDelta(100.0, out[KeyWinRatePct], 1e-9)
	suite.InDelta(97.9, out[KeyNetProfit], 1e-9)
	suite.InDelta(97.9/1000.0*100.0, out[KeyAvgTradePct], 1e-9)
	suite.InDelta(24.0, out[KeyAvgTradeDurationHrs], 1e-9)
	suite.InDelta(profitFactorCap, out[KeyProfitFactor], 1e-9)
}

func (suite *MetricsTestSuite) TestTradeMetricsMixedOutcomes() {
	trades := []types.Position{
		closedTrade(100, 110, 1, types.PositionSideBuy, 10), // +9.79
		closedTrade(100, 95, 1, types.PositionSideBuy, 30),  // -5.195
		closedTrade(100, 90, 1, types.PositionSideSell, 20), // +9.81
	}

	out := suite.calc.Calculate([]float64{1000, 1010}, nil, trades)

	suite.InDelta(3.0, out[KeyNumTrades], 1e-9)
	suite.InDelta(2.0/3.0*100.0, out[KeyWinRatePct], 1e-9)
	suite.InDelta(30.0, out[KeyMaxTradeDurationHrs], 1e-9)
	suite.InDelta(20.0, out[KeyAvgTradeDurationHrs], 1e-9)

	grossProfit := 9.79 + 9.81
	grossLoss := 5.195
	suite.InDelta(grossProfit/grossLoss, out[KeyProfitFactor], 1e-6)
	suite.InDelta(grossProfit-grossLoss, out[KeyNetProfit], 1e-6)
}

func (suite *MetricsTestSuite) TestTradeMetricsIgnoresOpenPositions() {
	open := types.Position{
		EntryPrice: 100,
		Quantity:   1,
		Status:     types.PositionStatusOpen,
	}

	out := suite.calc.Calculate([]float64{1000, 1010}, nil, []types.Position{open})
	suite.InDelta(0.0, out[KeyNumTrades], 1e-9)
	suite.InDelta(0.0, out[KeyProfitFactor], 1e-9)
}

func (suite *MetricsTestSuite) TestTradeResultSummary() {
	trades := []types.Position{
		closedTrade(100, 110, 1, types.PositionSideBuy, 10),
		closedTrade(100, 95, 1, types.PositionSideBuy, 10),
	}

	result := suite.calc.TradeResult([]float64{100, 110, 99, 110}, trades)
	suite.Equal(2, result.NumberOfTrades)
	suite.Equal(1, result.NumberOfWinningTrades)
	suite.Equal(1, result.NumberOfLosingTrades)
	suite.InDelta(50.0, result.WinRate, 1e-9)
	suite.InDelta(10.0, result.MaxDrawdown, 1e-9)
}

func (suite *MetricsTestSuite) TestExposureTime() {
	trades := []types.Position{
		closedTrade(100, 110, 1, types.PositionSideBuy, 50),
		closedTrade(100, 95, 1, types.PositionSideBuy, 30),
	}

	suite.InDelta(80.0, suite.calc.ExposureTime(trades, 100), 1e-9)
	suite.InDelta(100.0, suite.calc.ExposureTime(trades, 60), 1e-9)
	suite.InDelta(0.0, suite.calc.ExposureTime(trades, 0), 1e-9)
}

func (suite *MetricsTestSuite) TestVaRAndCVaR() {
	returns := []float64{-0.05, 0.01, -0.02, 0.03}

	suite.InDelta(-4.55, VaR(returns, 0.05), 1e-9)
	suite.InDelta(-5.0, CVaR(returns, 0.05), 1e-9)
}

func (suite *MetricsTestSuite) TestCalculateIncludesTailRisk() {
	out := suite.calc.Calculate([]float64{100, 95, 97}, nil, nil)

	// returns are -5% and +2.105%; the 5th percentile interpolates between
	// them and only the -5% return sits below it
	suite.InDelta(-4.644736842105263, out[KeyVaR95Pct], 1e-9)
	suite.InDelta(-5.0, out[KeyCVaR95Pct], 1e-9)
}

func (suite *MetricsTestSuite) TestVaRHandlesEmpty() {
	suite.InDelta(0.0, VaR(nil, 0.05), 1e-9)
	suite.InDelta(0.0, CVaR(nil, 0.05), 1e-9)
}

func (suite *MetricsTestSuite) TestHourlyAnnualization() {
	calc := NewCalculatorWithPeriods(252 * 24)
	suite.NotNil(calc)

	equity := []float64{100, 101, 100.5, 102}
	out := calc.Calculate(equity, nil, nil)
	suite.Greater(out[KeyVolatilityPct], 0.0)
}
