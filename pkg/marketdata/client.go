package marketdata

import (
	"context"
	"os"
	"path/filepath"

	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/algotradehub/algotrade/pkg/marketdata/provider"
	"github.com/algotradehub/algotrade/pkg/marketdata/writer"
)

// Client downloads market data from a provider and stores it through a writer.
type Client struct {
	provider provider.Provider
	config   DownloadConfig
}

// NewClient creates a market data client for the given download configuration.
func NewClient(config DownloadConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	marketProvider, err := provider.NewMarketDataProvider(config.Provider, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: marketProvider,
		config:   config,
	}, nil
}

// Download runs the configured download and returns the path of the written
// CSV file. The context cancels an in-flight download.
func (c *Client) Download(ctx context.Context, onProgress provider.OnDownloadProgress) (string, error) {
	params, err := c.config.ToDownloadParams()
	if err != nil {
		return "", err
	}

	outputDir := filepath.Dir(c.config.OutputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create output directory %s", outputDir)
	}

	// The provider initializes and closes the writer around the download.
	c.provider.ConfigWriter(writer.NewCSVWriter(c.config.OutputPath))

	path, err := c.provider.Download(
		ctx,
		params.Ticker,
		params.StartDate,
		params.EndDate,
		params.Multiplier,
		params.Timespan,
		onProgress,
	)
	if err != nil {
		return "", err
	}

	return path, nil
}
