package marketdata

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/algotradehub/algotrade/pkg/errors"
)

type ProviderRegistryTestSuite struct {
	suite.Suite
}

func TestProviderRegistrySuite(t *testing.T) {
	suite.Run(t, new(ProviderRegistryTestSuite))
}

func (suite *ProviderRegistryTestSuite) TestGetSupportedProviders() {
	providers := GetSupportedProviders()
	suite.Len(providers, 2)
	suite.Contains(providers, "polygon")
	suite.Contains(providers, "binance")
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo() {
	polygonInfo, err := GetProviderInfo("polygon")
	suite.Require().NoError(err)
	suite.Equal("Polygon.io", polygonInfo.DisplayName)
	suite.True(polygonInfo.RequiresAuth)

	binanceInfo, err := GetProviderInfo("binance")
	suite.Require().NoError(err)
	suite.False(binanceInfo.RequiresAuth)
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfoUnknown() {
	_, err := GetProviderInfo("yahoo")
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidProvider, errors.GetCode(err))
}
