package provider

import (
	"testing"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type BinanceIntervalTestSuite struct {
	suite.Suite
}

func TestBinanceIntervalSuite(t *testing.T) {
	suite.Run(t, new(BinanceIntervalTestSuite))
}

func (suite *BinanceIntervalTestSuite) TestConvertTimespan() {
	tests := []struct {
		name       string
		timespan   models.Timespan
		multiplier int
		expected   string
	}{
		{"one_minute", models.Minute, 1, "1m"},
		{"fifteen_minutes", models.Minute, 15, "15m"},
		{"one_hour", models.Hour, 1, "1h"},
		{"four_hours", models.Hour, 4, "4h"},
		{"one_day", models.Day, 1, "1d"},
		{"three_days", models.Day, 3, "3d"},
		{"one_week", models.Week, 1, "1w"},
		{"one_month", models.Month, 1, "1M"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			interval, err := convertTimespanToBinanceInterval(tc.timespan, tc.multiplier)
			suite.Require().NoError(err)
			suite.Equal(tc.expected, interval)
		})
	}
}

func (suite *BinanceIntervalTestSuite) TestConvertTimespanUnsupported() {
	_, err := convertTimespanToBinanceInterval(models.Week, 2)
	suite.Error(err)

	_, err = convertTimespanToBinanceInterval(models.Month, 3)
	suite.Error(err)

	_, err = convertTimespanToBinanceInterval(models.Second, 1)
	suite.Error(err)
}
