package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/algotradehub/algotrade/internal/backtest/engine"
	engine_v1 "github.com/algotradehub/algotrade/internal/backtest/engine/engine_v1"
	"github.com/algotradehub/algotrade/internal/backtest/engine/engine_v1/datasource"
	"github.com/algotradehub/algotrade/internal/logger"
)

// backtestAction reads the engine configuration, wires the CSV datasource and
// runs the backtest with a terminal progress bar.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPattern := cmd.String("data")
	outputFolder := cmd.String("output")

	config, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	backtester := engine_v1.NewBacktestEngineV1()
	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	source, err := datasource.NewCSVDataSource(l)
	if err != nil {
		return fmt.Errorf("failed to create datasource: %w", err)
	}

	if err := backtester.SetDataSource(source); err != nil {
		return err
	}

	if err := backtester.SetDataPath(dataPattern); err != nil {
		return err
	}

	if err := backtester.SetResultsFolder(outputFolder); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onProgress := optional.Some[engine.OnProcessDataCallback](func(current int, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total))
		}

		_ = bar.Set(current)
	})

	if err := backtester.Run(ctx, onProgress); err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	log.Printf("Backtest completed, results written to %s", outputFolder)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a strategy backtest over historical CSV market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the backtest YAML configuration",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Glob pattern of CSV data files to backtest",
				Value:   "data/*.csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Folder the results are written to",
				Value:   "results",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
