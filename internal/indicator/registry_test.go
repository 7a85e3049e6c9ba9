package indicator

import (
	"testing"

	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) TestNewIndicatorRegistryHasBuiltins() {
	registry := NewIndicatorRegistry()
	suite.NotNil(registry)

	names := registry.ListIndicators()
	suite.Contains(names, types.IndicatorTypeRSI)
	suite.Contains(names, types.IndicatorTypeSMA)
	suite.Contains(names, types.IndicatorTypeEMA)
	suite.Contains(names, types.IndicatorTypeMACD)
	suite.Contains(names, types.IndicatorTypeBollingerBands)
	suite.Contains(names, types.IndicatorTypeStochastic)
	suite.Contains(names, types.IndicatorTypeATR)
	suite.Contains(names, types.IndicatorTypeROC)
	suite.Contains(names, types.IndicatorTypeTrendStrength)
}

func (suite *RegistryTestSuite) TestGetIndicator() {
	registry := NewIndicatorRegistry()

	ind, err := registry.GetIndicator(types.IndicatorTypeRSI)
	suite.NoError(err)
	suite.Equal(types.IndicatorTypeRSI, ind.Name())
}

func (suite *RegistryTestSuite) TestGetIndicatorReturnsFreshInstances() {
	registry := NewIndicatorRegistry()

	first, err := registry.GetIndicator(types.IndicatorTypeRSI)
	suite.Require().NoError(err)
	suite.Require().NoError(first.Config(5))

	second, err := registry.GetIndicator(types.IndicatorTypeRSI)
	suite.Require().NoError(err)
	suite.NotSame(first, second)

	// configuring the first instance must not leak into the second
	suite.Equal(NewRSI().MinBars(), second.MinBars())
}

func (suite *RegistryTestSuite) TestRegisterIndicatorDuplicate() {
	registry := NewIndicatorRegistry()

	err := registry.RegisterIndicator(func() Indicator { return NewRSI() })
	suite.Error(err)
	suite.Contains(err.Error(), "already registered")
}

func (suite *RegistryTestSuite) TestRemoveIndicator() {
	registry := NewIndicatorRegistry()

	err := registry.RemoveIndicator(types.IndicatorTypeROC)
	suite.NoError(err)

	_, err = registry.GetIndicator(types.IndicatorTypeROC)
	suite.Error(err)
	suite.Contains(err.Error(), "not found")

	// re-registering after removal works
	suite.NoError(registry.RegisterIndicator(func() Indicator { return NewROC() }))
}

func (suite *RegistryTestSuite) TestRemoveIndicatorNotFound() {
	registry := NewIndicatorRegistry()

	suite.Require().NoError(registry.RemoveIndicator(types.IndicatorTypeROC))
	suite.Error(registry.RemoveIndicator(types.IndicatorTypeROC))
}

func (suite *RegistryTestSuite) TestBuildSetResolvesThroughDefaultRegistry() {
	bars := barsFromCloses(100, 101, 102, 103, 104)

	suite.Require().NoError(defaultRegistry.RemoveIndicator(types.IndicatorTypeROC))

	_, err := BuildSet(bars, SetConfig{})
	suite.Error(err)
	suite.Equal(errors.ErrCodeIndicatorNotFound, errors.GetCode(err))

	suite.Require().NoError(defaultRegistry.RegisterIndicator(func() Indicator { return NewROC() }))

	_, err = BuildSet(bars, SetConfig{})
	suite.NoError(err)
}
