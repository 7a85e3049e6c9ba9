package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestClampStrength() {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "negative clamps to zero", input: -5, expected: 0},
		{name: "zero stays zero", input: 0, expected: 0},
		{name: "in range unchanged", input: 42.5, expected: 42.5},
		{name: "hundred stays hundred", input: 100, expected: 100},
		{name: "above hundred clamps", input: 250, expected: 100},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, ClampStrength(tc.input))
		})
	}
}

func (suite *SignalTestSuite) TestValidateValidSignal() {
	signal := Signal{
		Action:   SignalActionBuy,
		Price:    50000.0,
		Time:     time.Now(),
		Strength: 75.0,
		Strategy: "rsi",
		Symbol:   "BTC/USDT",
		Exchange: "binance",
	}

	suite.NoError(signal.Validate())
}

func (suite *SignalTestSuite) TestValidateInvalidAction() {
	signal := Signal{
		Action:   SignalAction("HOLD"),
		Price:    50000.0,
		Time:     time.Now(),
		Strength: 75.0,
	}

	suite.Error(signal.Validate())
}

func (suite *SignalTestSuite) TestValidateStrengthOutOfRange() {
	signal := Signal{
		Action:   SignalActionSell,
		Price:    50000.0,
		Time:     time.Now(),
		Strength: 101.0,
	}

	suite.Error(signal.Validate())
}

func (suite *SignalTestSuite) TestValidateMissingPrice() {
	signal := Signal{
		Action:   SignalActionBuy,
		Time:     time.Now(),
		Strength: 10.0,
	}

	suite.Error(signal.Validate())
}
