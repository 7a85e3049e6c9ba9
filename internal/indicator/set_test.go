package indicator

import (
	"math"
	"testing"

	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SetTestSuite struct {
	suite.Suite
}

func TestSetSuite(t *testing.T) {
	suite.Run(t, new(SetTestSuite))
}

func (suite *SetTestSuite) trendingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i) + 3*math.Sin(float64(i)/4)
	}

	return closes
}

func (suite *SetTestSuite) TestBuildSetAligned() {
	bars := barsFromCloses(suite.trendingCloses(80)...)

	set, err := BuildSet(bars, SetConfig{})
	suite.Require().NoError(err)

	n := len(bars)
	suite.Len(set.RSI, n)
	suite.Len(set.SMA, n)
	suite.Len(set.EMA, n)
	suite.Len(set.Bollinger.Upper, n)
	suite.Len(set.Bollinger.Middle, n)
	suite.Len(set.Bollinger.Lower, n)
	suite.Len(set.MACD.Line, n)
	suite.Len(set.MACD.Signal, n)
	suite.Len(set.MACD.Histogram, n)
	suite.Len(set.VolumeSMA, n)
	suite.Len(set.Stochastic.K, n)
	suite.Len(set.Stochastic.D, n)
	suite.Len(set.ATR, n)
	suite.Len(set.ROC, n)
	suite.Len(set.SMAShort, n)
	suite.Len(set.SMALong, n)

	// every series must be computed at the latest bar with 80 bars of history
	suite.True(AllAvailable(
		Latest(set.RSI), Latest(set.SMA), Latest(set.EMA),
		Latest(set.Bollinger.Upper), Latest(set.MACD.Line), Latest(set.MACD.Signal),
		Latest(set.VolumeSMA), Latest(set.Stochastic.K), Latest(set.Stochastic.D),
		Latest(set.ATR), Latest(set.ROC), Latest(set.SMAShort), Latest(set.SMALong),
	))

	suite.GreaterOrEqual(set.TrendStrength, 0.0)
	suite.LessOrEqual(set.TrendStrength, 1.0)
}

func (suite *SetTestSuite) TestBuildSetDeterministic() {
	bars := barsFromCloses(suite.trendingCloses(80)...)

	first, err := BuildSet(bars, SetConfig{})
	suite.Require().NoError(err)

	second, err := BuildSet(bars, SetConfig{})
	suite.Require().NoError(err)

	for i := range bars {
		suite.equalOrBothNaN(first.RSI[i], second.RSI[i])
		suite.equalOrBothNaN(first.MACD.Line[i], second.MACD.Line[i])
		suite.equalOrBothNaN(first.Stochastic.K[i], second.Stochastic.K[i])
		suite.equalOrBothNaN(first.ATR[i], second.ATR[i])
	}

	suite.Equal(first.TrendStrength, second.TrendStrength)
}

func (suite *SetTestSuite) TestBuildSetDoesNotMutateBars() {
	bars := barsFromCloses(suite.trendingCloses(40)...)

	before := make([]float64, len(bars))
	copy(before, bars.Closes())

	_, err := BuildSet(bars, SetConfig{})
	suite.Require().NoError(err)

	suite.Equal(before, bars.Closes())
}

func (suite *SetTestSuite) TestBuildSetInsufficientData() {
	_, err := BuildSet(barsFromCloses(100), SetConfig{})
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *SetTestSuite) TestBuildSetCustomPeriods() {
	bars := barsFromCloses(suite.trendingCloses(40)...)

	set, err := BuildSet(bars, SetConfig{RSIPeriod: 5, SMAPeriod: 10})
	suite.Require().NoError(err)

	// RSI(5) becomes available at bar index 5
	suite.False(IsAvailable(set.RSI[4]))
	suite.True(IsAvailable(set.RSI[5]))

	// SMA(10) becomes available at bar index 9
	suite.False(IsAvailable(set.SMA[8]))
	suite.True(IsAvailable(set.SMA[9]))
}

func (suite *SetTestSuite) equalOrBothNaN(a, b float64) {
	if math.IsNaN(a) && math.IsNaN(b) {
		return
	}

	suite.Equal(a, b)
}
