package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeResult struct {
	// Count of all closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of winning trades that have positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of losing trades that have negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate in percent.
	WinRate float64 `yaml:"win_rate"`
	// Maximum drawdown in percent.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

// BacktestSummary is the per-run result record written alongside the trade
// and order files.
type BacktestSummary struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the trading pair.
	Symbol string `yaml:"symbol"`
	// Strategy is the identifier of the strategy that produced the signals.
	Strategy string `yaml:"strategy"`
	// InitialCapital is the starting account balance.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalEquity is the account value at the end of the run.
	FinalEquity float64 `yaml:"final_equity"`
	// Result of all trades.
	TradeResult TradeResult `yaml:"trade_result"`
	// Total commission paid across both legs of all trades.
	TotalFees float64 `yaml:"total_fees"`
	// Metrics is the full performance metrics mapping (metric name -> value).
	Metrics map[string]float64 `yaml:"metrics"`
	// RejectedSignals counts signals refused by risk checks, keyed by reason.
	RejectedSignals map[string]int `yaml:"rejected_signals"`
	// BarErrors counts bars whose processing failed and was skipped.
	BarErrors int `yaml:"bar_errors"`
	// TradesFilePath is the path to the trades CSV file.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
	// OrdersFilePath is the path to the orders CSV file.
	OrdersFilePath string `yaml:"orders_file_path" json:"orders_file_path"`
	// DataPath is the path to the market data file used for this backtest.
	DataPath string `yaml:"data_path" json:"data_path"`
}

func WriteBacktestSummary(path string, summary BacktestSummary) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest summary to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest summary to file: %w", err)
	}

	return nil
}
