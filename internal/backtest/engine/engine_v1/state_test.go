package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/algotradehub/algotrade/internal/types"
)

type BacktestStateTestSuite struct {
	suite.Suite
	state *BacktestState
}

func TestBacktestStateSuite(t *testing.T) {
	suite.Run(t, new(BacktestStateTestSuite))
}

func (suite *BacktestStateTestSuite) SetupTest() {
	state, err := NewBacktestState(nil)
	suite.Require().NoError(err)
	suite.Require().NoError(state.Initialize())
	suite.state = state
}

func (suite *BacktestStateTestSuite) TearDownTest() {
	suite.Require().NoError(suite.state.Close())
}

func (suite *BacktestStateTestSuite) closedPosition(id string, entry, exit float64, entryTime time.Time, held time.Duration) types.Position {
	position := types.Position{
		ID:         id,
		Exchange:   "backtest",
		Symbol:     "BTCUSDT",
		Side:       types.PositionSideBuy,
		EntryPrice: entry,
		Quantity:   10,
		EntryTime:  entryTime,
		StopLoss:   entry * 0.96,
		TakeProfit: entry * 1.08,
		Status:     types.PositionStatusOpen,
		Strategy:   "rsi_strategy",
	}

	suite.Require().NoError(position.Close(exit, entryTime.Add(held), 0.001))

	return position
}

func (suite *BacktestStateTestSuite) TestRecordOrderAssignsID() {
	order, err := suite.state.RecordOrder(types.Order{
		Symbol:   "BTCUSDT",
		Side:     types.PositionSideBuy,
		Quantity: 10,
		Price:    100,
		Time:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Strategy: "rsi_strategy",
		Reason:   types.OrderReasonSignal,
	})
	suite.Require().NoError(err)
	suite.NotEmpty(order.ID)

	orders, err := suite.state.AllOrders()
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(order.ID, orders[0].ID)
	suite.Equal(types.OrderReasonSignal, orders[0].Reason)
}

func (suite *BacktestStateTestSuite) TestRecordTradeRoundtrip() {
	entryTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	position := suite.closedPosition("pos-1", 100, 110, entryTime, 2*time.Hour)

	suite.Require().NoError(suite.state.RecordTrade(position))

	trades, err := suite.state.AllTrades()
	suite.Require().NoError(err)
	suite.Require().Len(trades, 1)

	got := trades[0]
	suite.Equal("pos-1", got.ID)
	suite.Equal(types.PositionStatusClosed, got.Status)
	suite.InDelta(97.9, got.PnL, 1e-9)
	suite.InDelta(2.1, got.Commission, 1e-9)
	suite.Require().True(got.ExitPrice.IsSome())
	suite.Equal(110.0, got.ExitPrice.Unwrap())
	suite.Require().True(got.ExitTime.IsSome())
	suite.Equal(entryTime.Add(2*time.Hour), got.ExitTime.Unwrap().UTC())
}

func (suite *BacktestStateTestSuite) TestTotalFees() {
	entryTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.state.RecordTrade(suite.closedPosition("pos-1", 100, 110, entryTime, time.Hour)))
	suite.Require().NoError(suite.state.RecordTrade(suite.closedPosition("pos-2", 100, 95, entryTime.Add(3*time.Hour), time.Hour)))

	totalFees, err := suite.state.TotalFees()
	suite.Require().NoError(err)
	// 2.1 from the winner, 1.95 from the loser
	suite.InDelta(4.05, totalFees, 1e-9)
}

func (suite *BacktestStateTestSuite) TestTotalFeesEmpty() {
	totalFees, err := suite.state.TotalFees()
	suite.Require().NoError(err)
	suite.Equal(0.0, totalFees)
}

func (suite *BacktestStateTestSuite) TestHoldingTime() {
	entryTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.state.RecordTrade(suite.closedPosition("pos-1", 100, 110, entryTime, time.Hour)))
	suite.Require().NoError(suite.state.RecordTrade(suite.closedPosition("pos-2", 100, 95, entryTime.Add(6*time.Hour), 3*time.Hour)))

	min, max, avg, err := suite.state.HoldingTime()
	suite.Require().NoError(err)
	suite.Equal(time.Hour, min)
	suite.Equal(3*time.Hour, max)
	suite.Equal(2*time.Hour, avg)
}

func (suite *BacktestStateTestSuite) TestExportCSV() {
	entryTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.state.RecordTrade(suite.closedPosition("pos-1", 100, 110, entryTime, time.Hour)))

	_, err := suite.state.RecordOrder(types.Order{
		Symbol:   "BTCUSDT",
		Side:     types.PositionSideBuy,
		Quantity: 10,
		Price:    100,
		Time:     entryTime,
		Reason:   types.OrderReasonSignal,
	})
	suite.Require().NoError(err)

	dir := suite.T().TempDir()

	tradesPath, ordersPath, err := suite.state.ExportCSV(dir)
	suite.Require().NoError(err)
	suite.Equal(filepath.Join(dir, "trades.csv"), tradesPath)
	suite.Equal(filepath.Join(dir, "orders.csv"), ordersPath)

	tradesContent, err := os.ReadFile(tradesPath)
	suite.Require().NoError(err)
	suite.Contains(string(tradesContent), "pos-1")

	ordersContent, err := os.ReadFile(ordersPath)
	suite.Require().NoError(err)
	suite.Contains(string(ordersContent), "BTCUSDT")
}

func (suite *BacktestStateTestSuite) TestCleanup() {
	entryTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.state.RecordTrade(suite.closedPosition("pos-1", 100, 110, entryTime, time.Hour)))

	suite.Require().NoError(suite.state.Cleanup())

	trades, err := suite.state.AllTrades()
	suite.Require().NoError(err)
	suite.Empty(trades)
}
