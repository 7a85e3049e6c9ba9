package marketdata

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/algotradehub/algotrade/pkg/marketdata/provider"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) TestNewClient() {
	client, err := NewClient(DownloadConfig{
		Provider:   provider.ProviderBinance,
		Ticker:     "BTCUSDT",
		StartDate:  "2024-01-01T00:00:00Z",
		EndDate:    "2024-02-01T00:00:00Z",
		Interval:   TimespanOneHour,
		OutputPath: "data/BTCUSDT_1h.csv",
	})
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestNewClientInvalidConfig() {
	_, err := NewClient(DownloadConfig{
		Provider: provider.ProviderBinance,
	})
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *ClientTestSuite) TestNewClientPolygonWithoutKey() {
	_, err := NewClient(DownloadConfig{
		Provider:   provider.ProviderPolygon,
		Ticker:     "AAPL",
		StartDate:  "2024-01-01T00:00:00Z",
		EndDate:    "2024-02-01T00:00:00Z",
		Interval:   TimespanOneDay,
		OutputPath: "data/AAPL_1d.csv",
	})
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidProvider, errors.GetCode(err))
}
