package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/algotradehub/algotrade/pkg/marketdata"
	"github.com/algotradehub/algotrade/pkg/marketdata/provider"
)

// downloadAction parses the flags into a download configuration and runs the
// download with a terminal progress bar.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	interval := marketdata.Timespan(cmd.String("interval"))

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = filepath.Join("data", fmt.Sprintf("%s_%s.csv", cmd.String("ticker"), interval))
	}

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("POLYGON_API_KEY")
	}

	config := marketdata.DownloadConfig{
		Provider:   provider.ProviderType(cmd.String("provider")),
		Ticker:     cmd.String("ticker"),
		StartDate:  cmd.String("start"),
		EndDate:    cmd.String("end"),
		Interval:   interval,
		APIKey:     apiKey,
		OutputPath: outputPath,
	}

	client, err := marketdata.NewClient(config)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", config.Ticker)),
		progressbar.OptionShowCount())

	path, err := client.Download(ctx, func(current float64, total float64, message string) {
		if total > 0 {
			_ = bar.Set(int(current / total * 100))
		}
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	_ = bar.Finish()
	log.Printf("Downloaded %s to %s", config.Ticker, path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical market data to CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker or trading pair symbol",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in RFC3339 format, e.g. 2024-01-01T00:00:00Z",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "end",
				Aliases:  []string{"e"},
				Usage:    "End date in RFC3339 format",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s, %s)", provider.ProviderBinance, provider.ProviderPolygon),
				Value:   string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval, e.g. 1m, 1h, 1d",
				Value:   string(marketdata.TimespanOneHour),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path, defaults to data/<ticker>_<interval>.csv",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Aliases: []string{"k"},
				Usage:   "Provider API key, falls back to the POLYGON_API_KEY environment variable",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
