package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/algotradehub/algotrade/internal/backtest/engine"
	"github.com/algotradehub/algotrade/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/algotradehub/algotrade/internal/backtest/engine/engine_v1/datasource"
	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/logger"
	"github.com/algotradehub/algotrade/internal/metrics"
	"github.com/algotradehub/algotrade/internal/risk"
	"github.com/algotradehub/algotrade/internal/strategy"
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// BacktestEngineV1 replays historical bars chronologically against a single
// strategy. Signals only ever see bars up to the current one; exits via stop
// or take profit are evaluated one bar after entry at the earliest.
type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	indicatorCfg  indicator.SetConfig
	strategy      strategy.Strategy
	commission    commission_fee.CommissionFee
	log           *logger.Logger
	state         *BacktestState
	datasource    datasource.DataSource
	dataPaths     []string
	resultsFolder string
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config: EmptyConfig(),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest configuration", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	var err error

	b.log, err = logger.NewLogger()
	if err != nil {
		return err
	}

	b.log.Debug("Backtest engine initialized",
		zap.String("strategy", string(b.config.Strategy.Name)),
		zap.Float64("initial_capital", b.config.InitialCapital),
	)

	b.strategy, err = strategy.New(b.config.Strategy.Name, b.config.Strategy.Params)
	if err != nil {
		return err
	}

	b.indicatorCfg = b.config.Strategy.Params.IndicatorConfig()
	b.commission = commission_fee.GetCommissionFeeHandler(b.config.CommissionModel, b.config.CommissionRate)

	b.state, err = NewBacktestState(b.log)
	if err != nil {
		return err
	}

	return b.state.Initialize()
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	files, err := filepath.Glob(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestNoData, err, "invalid data path pattern %s", path)
	}

	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestNoData, err, "failed to resolve data path %s", file)
		}

		absolutePaths[i] = absPath
	}

	b.dataPaths = absolutePaths

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	b.datasource = dataSource

	return nil
}

// Run implements engine.Engine. Each data file is backtested independently
// with a fresh risk state and a fresh balance.
func (b *BacktestEngineV1) Run(ctx context.Context, onProcessData optional.Option[engine.OnProcessDataCallback]) error {
	if err := b.preRunCheck(); err != nil {
		return err
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestNoResultsDir, "failed to create results folder", err)
	}

	for _, dataPath := range b.dataPaths {
		if err := b.datasource.Initialize(dataPath); err != nil {
			return err
		}

		bars, err := b.loadBars()
		if err != nil {
			return err
		}

		if len(bars) == 0 {
			return errors.Newf(errors.ErrCodeBacktestNoData, "no bars in %s within the configured window", dataPath)
		}

		b.log.Info("Running backtest",
			zap.String("data", dataPath),
			zap.String("strategy", string(b.strategy.Name())),
			zap.Int("bars", len(bars)),
		)

		run := newBacktestRun(b)

		summary, err := run.process(ctx, bars, onProcessData)
		if err != nil {
			return err
		}

		summary.DataPath = dataPath

		if err := b.writeResults(dataPath, summary); err != nil {
			return err
		}

		if err := b.state.Cleanup(); err != nil {
			return err
		}
	}

	return nil
}

func (b *BacktestEngineV1) loadBars() (types.BarSeries, error) {
	var bars types.BarSeries

	for bar, err := range b.datasource.ReadAll(b.config.StartTime, b.config.EndTime) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

func (b *BacktestEngineV1) writeResults(dataPath string, summary types.BacktestSummary) error {
	base := strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
	folder := filepath.Join(b.resultsFolder, fmt.Sprintf("%s_%s", base, b.strategy.Name()))

	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestNoResultsDir, "failed to create result folder", err)
	}

	tradesPath, ordersPath, err := b.state.ExportCSV(folder)
	if err != nil {
		return err
	}

	summary.TradesFilePath = tradesPath
	summary.OrdersFilePath = ordersPath

	if err := types.WriteBacktestSummary(filepath.Join(folder, "summary.yaml"), summary); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestNoResultsDir, "failed to write summary", err)
	}

	b.log.Info("Backtest results written",
		zap.String("folder", folder),
		zap.Float64("final_equity", summary.FinalEquity),
		zap.Int("trades", summary.TradeResult.NumberOfTrades),
	)

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.state == nil {
		return errors.New(errors.ErrCodeBacktestStateNil, "engine is not initialized")
	}

	if b.strategy == nil {
		return errors.New(errors.ErrCodeBacktestConfigError, "no strategy configured")
	}

	if b.datasource == nil {
		return errors.New(errors.ErrCodeBacktestNoData, "no datasource set")
	}

	if len(b.dataPaths) == 0 {
		return errors.New(errors.ErrCodeBacktestNoData, "no data paths set")
	}

	if b.resultsFolder == "" {
		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	return nil
}

// backtestRun carries the mutable state of a single data file replay.
type backtestRun struct {
	engine    *BacktestEngineV1
	riskState *risk.State
	cash      float64
	equity    []float64
	trades    []types.Position
	rejected  map[string]int
	barErrors int
}

func newBacktestRun(b *BacktestEngineV1) *backtestRun {
	return &backtestRun{
		engine:    b,
		riskState: risk.NewState(b.config.Risk, b.log),
		cash:      b.config.InitialCapital,
		rejected:  make(map[string]int),
	}
}

func (r *backtestRun) process(ctx context.Context, bars types.BarSeries, onProcessData optional.Option[engine.OnProcessDataCallback]) (types.BacktestSummary, error) {
	minBars := r.engine.strategy.MinBars()
	if minBars < 2 {
		minBars = 2
	}

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return types.BacktestSummary{}, err
		}

		if err := r.processBar(bars, i, minBars); err != nil {
			// A single bad bar does not abort the run.
			r.barErrors++
			r.engine.log.Warn("bar processing failed",
				zap.Time("time", bar.Time),
				zap.Error(err),
			)
		}

		equityNow := r.markEquity(bar.Close)
		r.equity = append(r.equity, equityNow)
		r.riskState.UpdatePortfolioValue(equityNow)

		if onProcessData.IsSome() {
			onProcessData.Unwrap()(i+1, len(bars))
		}
	}

	// Liquidate whatever is still open against the final bar.
	last, _ := bars.Latest()
	for _, position := range r.riskState.OpenPositions() {
		if err := r.closePositionAt(position, last.Close, last.Time, types.OrderReasonEndOfData); err != nil {
			return types.BacktestSummary{}, err
		}
	}

	if len(r.equity) > 0 {
		r.equity[len(r.equity)-1] = r.cash
	}

	return r.summarize(bars)
}

func (r *backtestRun) processBar(bars types.BarSeries, i, minBars int) error {
	bar := bars[i]

	if err := r.checkExits(bar); err != nil {
		return err
	}

	if i+1 < minBars {
		return nil
	}

	set, err := indicator.BuildSet(bars[:i+1], r.engine.indicatorCfg)
	if err != nil {
		return err
	}

	result := r.engine.strategy.GenerateSignal(set)
	if result.IsNone() {
		return nil
	}

	signal := result.Unwrap()
	signal.Exchange = r.engine.config.Exchange

	switch signal.Action {
	case types.SignalActionBuy:
		return r.openFromSignal(signal, set, bar)
	case types.SignalActionSell:
		return r.closeFromSignal(signal, bar)
	}

	return nil
}

// checkExits closes open positions whose stop loss or take profit level was
// touched by this bar. Positions opened on this same bar are skipped; the
// stop is checked before the target.
func (r *backtestRun) checkExits(bar types.MarketData) error {
	for _, position := range r.riskState.OpenPositions() {
		if !position.EntryTime.Before(bar.Time) {
			continue
		}

		if position.Side != types.PositionSideBuy {
			continue
		}

		switch {
		case bar.Low <= position.StopLoss:
			if err := r.closePositionAt(position, position.StopLoss, bar.Time, types.OrderReasonStopLoss); err != nil {
				return err
			}
		case bar.High >= position.TakeProfit:
			if err := r.closePositionAt(position, position.TakeProfit, bar.Time, types.OrderReasonTakeProfit); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *backtestRun) openFromSignal(signal types.Signal, set *indicator.Set, bar types.MarketData) error {
	atr := indicator.Latest(set.ATR)
	quantity := r.riskState.PositionSize(r.cash, bar.Close, atr)

	equityNow := r.markEquity(bar.Close)
	if r.riskState.ShouldReduceRisk(equityNow) {
		r.engine.log.Warn("Sizing down near the drawdown limit",
			zap.String("symbol", bar.Symbol),
			zap.Float64("equity", equityNow))
	}

	quantity = r.riskState.RiskAdjustedSize(quantity, equityNow)

	stopLoss, takeProfit := risk.AdaptiveStops(bar.Close, atr, set.TrendStrength, types.PositionSideBuy)

	verdict := r.riskState.ValidateTrade(risk.TradeRequest{
		Exchange:   signal.Exchange,
		Symbol:     bar.Symbol,
		Side:       types.PositionSideBuy,
		Quantity:   quantity,
		Price:      bar.Close,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Balance:    r.cash,
	})
	if !verdict.OK {
		r.rejected[string(verdict.Reason)]++

		return nil
	}

	notional := quantity * bar.Close
	if notional > r.cash {
		r.rejected[string(risk.RejectPositionSize)]++

		return nil
	}

	position := types.Position{
		ID:         uuid.New().String(),
		Exchange:   signal.Exchange,
		Symbol:     bar.Symbol,
		Side:       types.PositionSideBuy,
		EntryPrice: bar.Close,
		Quantity:   quantity,
		EntryTime:  bar.Time,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Status:     types.PositionStatusOpen,
		Strategy:   signal.Strategy,
	}

	if err := position.ValidateLevels(); err != nil {
		return err
	}

	if err := r.riskState.OpenPosition(position); err != nil {
		return err
	}

	r.cash -= notional

	_, err := r.engine.state.RecordOrder(types.Order{
		Symbol:   bar.Symbol,
		Side:     types.PositionSideBuy,
		Quantity: quantity,
		Price:    bar.Close,
		Time:     bar.Time,
		Fee:      r.engine.commission.Calculate(notional),
		Strategy: signal.Strategy,
		Reason:   types.OrderReasonSignal,
		Message:  fmt.Sprintf("strength %.1f", signal.Strength),
	})

	return err
}

// closeFromSignal closes the open long for the signal's symbol at the bar
// close. A sell signal without an open position is a no-op.
func (r *backtestRun) closeFromSignal(signal types.Signal, bar types.MarketData) error {
	key := types.PositionKey(signal.Exchange, bar.Symbol, types.PositionSideBuy)

	position, ok := r.riskState.Position(key)
	if !ok {
		return nil
	}

	return r.closePositionAt(position, bar.Close, bar.Time, types.OrderReasonSignal)
}

func (r *backtestRun) closePositionAt(position types.Position, price float64, at time.Time, reason types.OrderReason) error {
	closed, err := r.riskState.ClosePosition(position.Key())
	if err != nil {
		return err
	}

	if err := closed.Close(price, at, r.engine.commission.Rate()); err != nil {
		return err
	}

	// Proceeds return the entry notional plus the commission-adjusted PnL.
	r.cash += closed.EntryPrice*closed.Quantity + closed.PnL

	r.riskState.AddTrade(risk.TradeOutcome{
		PnL:    closed.PnL,
		PnLPct: closed.PnLPercentage,
	})

	r.trades = append(r.trades, closed)

	if _, err := r.engine.state.RecordOrder(types.Order{
		Symbol:   closed.Symbol,
		Side:     types.PositionSideSell,
		Quantity: closed.Quantity,
		Price:    price,
		Time:     at,
		Fee:      r.engine.commission.Calculate(price * closed.Quantity),
		Strategy: closed.Strategy,
		Reason:   reason,
	}); err != nil {
		return err
	}

	return r.engine.state.RecordTrade(closed)
}

// markEquity values the account at the given price: cash plus every open
// position marked to market.
func (r *backtestRun) markEquity(price float64) float64 {
	equity := r.cash

	for _, position := range r.riskState.OpenPositions() {
		position.MarkPrice(price)
		equity += position.Notional() + position.PnL
	}

	return equity
}

func (r *backtestRun) summarize(bars types.BarSeries) (types.BacktestSummary, error) {
	calculator := metrics.NewCalculator()

	totalFees, err := r.engine.state.TotalFees()
	if err != nil {
		return types.BacktestSummary{}, err
	}

	first := bars[0]
	last := bars[len(bars)-1]

	allMetrics := calculator.Calculate(r.equity, nil, r.trades)
	allMetrics[metrics.KeyExposureTimePct] = calculator.ExposureTime(r.trades, last.Time.Sub(first.Time).Hours())

	return types.BacktestSummary{
		ID:              uuid.New().String(),
		Timestamp:       time.Now(),
		Symbol:          first.Symbol,
		Strategy:        string(r.engine.strategy.Name()),
		InitialCapital:  r.engine.config.InitialCapital,
		FinalEquity:     r.cash,
		TradeResult:     calculator.TradeResult(r.equity, r.trades),
		TotalFees:       totalFees,
		Metrics:         allMetrics,
		RejectedSignals: r.rejected,
		BarErrors:       r.barErrors,
	}, nil
}
