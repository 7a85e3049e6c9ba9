package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestBarSeriesAccessors() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := BarSeries{
		{Symbol: "BTC/USDT", Time: base, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Symbol: "BTC/USDT", Time: base.Add(time.Hour), Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 200},
	}

	suite.Equal([]float64{1.5, 2.5}, series.Closes())
	suite.Equal([]float64{2, 3}, series.Highs())
	suite.Equal([]float64{0.5, 1}, series.Lows())
	suite.Equal([]float64{100, 200}, series.Volumes())
}

func (suite *MarketTestSuite) TestLatestAndPrevious() {
	series := BarSeries{
		{Close: 10},
		{Close: 20},
	}

	latest, ok := series.Latest()
	suite.True(ok)
	suite.Equal(20.0, latest.Close)

	previous, ok := series.Previous()
	suite.True(ok)
	suite.Equal(10.0, previous.Close)
}

func (suite *MarketTestSuite) TestLatestEmptySeries() {
	var series BarSeries

	_, ok := series.Latest()
	suite.False(ok)

	_, ok = series.Previous()
	suite.False(ok)
}

func (suite *MarketTestSuite) TestPreviousSingleBar() {
	series := BarSeries{{Close: 10}}

	_, ok := series.Previous()
	suite.False(ok)
}
