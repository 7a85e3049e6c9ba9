package engine

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/algotradehub/algotrade/internal/logger"
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// BacktestState persists the orders and closed trades of a run in an
// in-memory DuckDB database, so result artifacts are a single COPY away.
type BacktestState struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewBacktestState(l *logger.Logger) (*BacktestState, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to open state database", err)
	}

	if l == nil {
		l = logger.NewNopLogger()
	}

	return &BacktestState{
		db:     db,
		logger: l,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the tables for tracking orders and closed trades.
func (b *BacktestState) Initialize() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			symbol TEXT,
			side TEXT,
			quantity DOUBLE,
			price DOUBLE,
			timestamp TIMESTAMP,
			fee DOUBLE,
			strategy_name TEXT,
			reason TEXT,
			message TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create orders table", err)
	}

	_, err = b.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			position_id TEXT PRIMARY KEY,
			exchange TEXT,
			symbol TEXT,
			side TEXT,
			entry_price DOUBLE,
			quantity DOUBLE,
			entry_time TIMESTAMP,
			stop_loss DOUBLE,
			take_profit DOUBLE,
			exit_price DOUBLE,
			exit_time TIMESTAMP,
			status TEXT,
			pnl DOUBLE,
			pnl_percentage DOUBLE,
			commission DOUBLE,
			strategy_name TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create trades table", err)
	}

	return nil
}

// RecordOrder inserts an order, assigning an ID when the caller left it
// empty, and returns the stored order.
func (b *BacktestState) RecordOrder(order types.Order) (types.Order, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	insert := b.sq.
		Insert("orders").
		Columns(
			"order_id", "symbol", "side", "quantity", "price", "timestamp",
			"fee", "strategy_name", "reason", "message",
		).
		Values(
			order.ID, order.Symbol, order.Side, order.Quantity, order.Price,
			order.Time, order.Fee, order.Strategy, order.Reason, order.Message,
		).
		RunWith(b.db)

	if _, err := insert.Exec(); err != nil {
		return types.Order{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert order", err)
	}

	return order, nil
}

// RecordTrade inserts a closed position into the trades table.
func (b *BacktestState) RecordTrade(position types.Position) error {
	var (
		exitPrice interface{}
		exitTime  interface{}
	)

	if position.ExitPrice.IsSome() {
		exitPrice = position.ExitPrice.Unwrap()
	}

	if position.ExitTime.IsSome() {
		exitTime = position.ExitTime.Unwrap()
	}

	insert := b.sq.
		Insert("trades").
		Columns(
			"position_id", "exchange", "symbol", "side", "entry_price", "quantity",
			"entry_time", "stop_loss", "take_profit", "exit_price", "exit_time",
			"status", "pnl", "pnl_percentage", "commission", "strategy_name",
		).
		Values(
			position.ID, position.Exchange, position.Symbol, position.Side,
			position.EntryPrice, position.Quantity, position.EntryTime,
			position.StopLoss, position.TakeProfit, exitPrice, exitTime,
			position.Status, position.PnL, position.PnLPercentage,
			position.Commission, position.Strategy,
		).
		RunWith(b.db)

	if _, err := insert.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert trade", err)
	}

	return nil
}

// AllTrades returns every recorded trade in entry time order.
func (b *BacktestState) AllTrades() ([]types.Position, error) {
	selectQuery := b.sq.
		Select(
			"position_id", "exchange", "symbol", "side", "entry_price", "quantity",
			"entry_time", "stop_loss", "take_profit", "exit_price", "exit_time",
			"status", "pnl", "pnl_percentage", "commission", "strategy_name",
		).
		From("trades").
		OrderBy("entry_time ASC").
		RunWith(b.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.Position

	for rows.Next() {
		var (
			position  types.Position
			exitPrice sql.NullFloat64
			exitTime  sql.NullTime
		)

		err := rows.Scan(
			&position.ID,
			&position.Exchange,
			&position.Symbol,
			&position.Side,
			&position.EntryPrice,
			&position.Quantity,
			&position.EntryTime,
			&position.StopLoss,
			&position.TakeProfit,
			&exitPrice,
			&exitTime,
			&position.Status,
			&position.PnL,
			&position.PnLPercentage,
			&position.Commission,
			&position.Strategy,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		if exitPrice.Valid {
			position.ExitPrice = optional.Some(exitPrice.Float64)
		}

		if exitTime.Valid {
			position.ExitTime = optional.Some(exitTime.Time)
		}

		trades = append(trades, position)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

// AllOrders returns every recorded order in time order.
func (b *BacktestState) AllOrders() ([]types.Order, error) {
	selectQuery := b.sq.
		Select(
			"order_id", "symbol", "side", "quantity", "price", "timestamp",
			"fee", "strategy_name", "reason", "message",
		).
		From("orders").
		OrderBy("timestamp ASC").
		RunWith(b.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query orders", err)
	}
	defer rows.Close()

	var orders []types.Order

	for rows.Next() {
		var order types.Order

		err := rows.Scan(
			&order.ID,
			&order.Symbol,
			&order.Side,
			&order.Quantity,
			&order.Price,
			&order.Time,
			&order.Fee,
			&order.Strategy,
			&order.Reason,
			&order.Message,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan order", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating orders", err)
	}

	return orders, nil
}

// TotalFees returns the commission paid across all recorded trades.
func (b *BacktestState) TotalFees() (float64, error) {
	query := b.sq.
		Select("COALESCE(SUM(commission), 0)").
		From("trades").
		RunWith(b.db)

	var totalFees float64
	if err := query.QueryRow().Scan(&totalFees); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to sum fees", err)
	}

	return totalFees, nil
}

// HoldingTime returns the min, max and average holding duration of the
// recorded trades. Open trades are excluded.
func (b *BacktestState) HoldingTime() (min, max, avg time.Duration, err error) {
	query := `
		SELECT
			COALESCE(MIN(EXTRACT(EPOCH FROM (exit_time - entry_time))), 0),
			COALESCE(MAX(EXTRACT(EPOCH FROM (exit_time - entry_time))), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (exit_time - entry_time))), 0)
		FROM trades
		WHERE exit_time IS NOT NULL
	`

	var minSec, maxSec, avgSec float64
	if scanErr := b.db.QueryRow(query).Scan(&minSec, &maxSec, &avgSec); scanErr != nil {
		return 0, 0, 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to compute holding time", scanErr)
	}

	return time.Duration(minSec) * time.Second,
		time.Duration(maxSec) * time.Second,
		time.Duration(avgSec) * time.Second,
		nil
}

// ExportCSV copies the trades and orders tables to CSV files in the given
// directory and returns their paths.
func (b *BacktestState) ExportCSV(dir string) (tradesPath, ordersPath string, err error) {
	tradesPath = filepath.Join(dir, "trades.csv")
	ordersPath = filepath.Join(dir, "orders.csv")

	// COPY has no placeholder support, the paths are interpolated.
	_, err = b.db.Exec(fmt.Sprintf(`COPY trades TO '%s' (FORMAT CSV, HEADER)`, tradesPath))
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to export trades", err)
	}

	_, err = b.db.Exec(fmt.Sprintf(`COPY orders TO '%s' (FORMAT CSV, HEADER)`, ordersPath))
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to export orders", err)
	}

	b.logger.Debug("Exported backtest results",
		zap.String("trades", tradesPath),
		zap.String("orders", ordersPath),
	)

	return tradesPath, ordersPath, nil
}

// Cleanup drops and recreates the tables so the state can be reused for the
// next run.
func (b *BacktestState) Cleanup() error {
	_, err := b.db.Exec(`
		DROP TABLE IF EXISTS trades;
		DROP TABLE IF EXISTS orders;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop tables", err)
	}

	return b.Initialize()
}

// Close releases the underlying database.
func (b *BacktestState) Close() error {
	return b.db.Close()
}
