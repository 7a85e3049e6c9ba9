package engine

import (
	"context"

	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/backtest/engine/engine_v1/datasource"
)

// OnProcessDataCallback is called for each bar processed, with the current
// position and the total bar count.
type OnProcessDataCallback func(current int, total int)

type Engine interface {
	// Initialize the engine with the given YAML configuration content.
	Initialize(config string) error
	// SetDataPath sets the path to the market data files. Accepts glob
	// patterns for batch runs (e.g. "data/*.csv"); each matched file is
	// backtested independently.
	SetDataPath(path string) error
	// SetResultsFolder sets the output directory for the run artifacts.
	// Each data file produces a subfolder with a summary, trades and
	// orders.
	SetResultsFolder(folder string) error
	// SetDataSource sets the data source used to read market data.
	SetDataSource(dataSource datasource.DataSource) error
	// Run executes the backtest over every configured data file. The
	// context cancels a run in progress.
	Run(ctx context.Context, onProcessData optional.Option[OnProcessDataCallback]) error
}
