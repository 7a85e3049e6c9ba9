package types

import (
	"testing"
	"time"

	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PositionTestSuite struct {
	suite.Suite
}

func TestPositionSuite(t *testing.T) {
	suite.Run(t, new(PositionTestSuite))
}

func (suite *PositionTestSuite) TestPositionKey() {
	pos := Position{
		Exchange: "binance",
		Symbol:   "BTC/USDT",
		Side:     PositionSideBuy,
	}

	suite.Equal("binance_BTC/USDT_BUY", pos.Key())
	suite.Equal(pos.Key(), PositionKey("binance", "BTC/USDT", PositionSideBuy))
}

func (suite *PositionTestSuite) TestValidateLevels() {
	tests := []struct {
		name       string
		side       PositionSide
		entry      float64
		stopLoss   float64
		takeProfit float64
		wantErr    bool
	}{
		{name: "buy levels straddle entry", side: PositionSideBuy, entry: 100, stopLoss: 95, takeProfit: 110, wantErr: false},
		{name: "buy stop above entry", side: PositionSideBuy, entry: 100, stopLoss: 105, takeProfit: 110, wantErr: true},
		{name: "buy take profit below entry", side: PositionSideBuy, entry: 100, stopLoss: 95, takeProfit: 99, wantErr: true},
		{name: "sell levels straddle entry", side: PositionSideSell, entry: 100, stopLoss: 105, takeProfit: 90, wantErr: false},
		{name: "sell stop below entry", side: PositionSideSell, entry: 100, stopLoss: 95, takeProfit: 90, wantErr: true},
		{name: "sell take profit above entry", side: PositionSideSell, entry: 100, stopLoss: 105, takeProfit: 110, wantErr: true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			pos := Position{
				Side:       tc.side,
				EntryPrice: tc.entry,
				StopLoss:   tc.stopLoss,
				TakeProfit: tc.takeProfit,
			}

			err := pos.ValidateLevels()
			if tc.wantErr {
				suite.Error(err)
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *PositionTestSuite) TestCloseBuyPositionWithCommission() {
	pos := Position{
		Exchange:   "binance",
		Symbol:     "BTC/USDT",
		Side:       PositionSideBuy,
		EntryPrice: 100.0,
		Quantity:   10.0,
		EntryTime:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     PositionStatusOpen,
	}

	err := pos.Close(110.0, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 0.001)
	suite.NoError(err)

	// (110-100)*10 - (100*10*0.001 + 110*10*0.001) = 100 - 2.1 = 97.9
	suite.InDelta(97.9, pos.PnL, 1e-9)
	suite.InDelta(2.1, pos.Commission, 1e-9)
	suite.Equal(PositionStatusClosed, pos.Status)
	suite.True(pos.ExitPrice.IsSome())
	suite.Equal(110.0, pos.ExitPrice.Unwrap())
	suite.True(pos.ExitTime.IsSome())
}

func (suite *PositionTestSuite) TestCloseSellPosition() {
	pos := Position{
		Side:       PositionSideSell,
		EntryPrice: 200.0,
		Quantity:   5.0,
		Status:     PositionStatusOpen,
	}

	err := pos.Close(190.0, time.Now(), 0)
	suite.NoError(err)
	suite.InDelta(50.0, pos.PnL, 1e-9)
	suite.InDelta(5.0, pos.PnLPercentage, 1e-9)
}

func (suite *PositionTestSuite) TestCloseIsImmutable() {
	pos := Position{
		Side:       PositionSideBuy,
		EntryPrice: 100.0,
		Quantity:   1.0,
		Status:     PositionStatusOpen,
	}

	suite.NoError(pos.Close(105.0, time.Now(), 0))

	err := pos.Close(120.0, time.Now(), 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePositionNotFound))
	// Values from the first close are retained.
	suite.Equal(105.0, pos.ExitPrice.Unwrap())
}

func (suite *PositionTestSuite) TestMarkPrice() {
	pos := Position{
		Side:       PositionSideBuy,
		EntryPrice: 100.0,
		Quantity:   2.0,
		Status:     PositionStatusOpen,
	}

	pos.MarkPrice(105.0)
	suite.InDelta(10.0, pos.PnL, 1e-9)
	suite.InDelta(5.0, pos.PnLPercentage, 1e-9)

	pos.MarkPrice(95.0)
	suite.InDelta(-10.0, pos.PnL, 1e-9)
}

func (suite *PositionTestSuite) TestMarkPriceClosedIsNoop() {
	pos := Position{
		Side:       PositionSideBuy,
		EntryPrice: 100.0,
		Quantity:   1.0,
		Status:     PositionStatusOpen,
	}

	suite.NoError(pos.Close(110.0, time.Now(), 0))
	closedPnl := pos.PnL

	pos.MarkPrice(50.0)
	suite.Equal(closedPnl, pos.PnL)
}

func (suite *PositionTestSuite) TestRiskToStop() {
	tests := []struct {
		name     string
		side     PositionSide
		entry    float64
		stop     float64
		quantity float64
		expected float64
	}{
		{name: "buy risk", side: PositionSideBuy, entry: 100, stop: 95, quantity: 2, expected: 10},
		{name: "sell risk", side: PositionSideSell, entry: 100, stop: 104, quantity: 3, expected: 12},
		{name: "inverted stop contributes zero", side: PositionSideBuy, entry: 100, stop: 110, quantity: 2, expected: 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			pos := Position{Side: tc.side, EntryPrice: tc.entry, StopLoss: tc.stop, Quantity: tc.quantity}
			suite.InDelta(tc.expected, pos.RiskToStop(), 1e-9)
		})
	}
}
