package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/algotradehub/algotrade/pkg/marketdata/writer"
)

type PolygonClient struct {
	client *polygon.Client
	writer writer.MarketDataWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download fetches aggregates through the polygon iterator and writes each
// bar out.
func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}
	defer c.writer.Close()

	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)

	totalMillis := float64(endDate.Sub(startDate).Milliseconds())
	processed := 0

	for iter.Next() {
		agg := iter.Item()

		bar := types.MarketData{
			Symbol: ticker,
			Time:   time.Time(agg.Timestamp),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		}

		if err := c.writer.Write(bar); err != nil {
			return "", err
		}

		processed++

		if onProgress != nil && processed%1000 == 0 {
			elapsed := float64(time.Time(agg.Timestamp).Sub(startDate).Milliseconds())
			onProgress(elapsed, totalMillis, "downloading "+ticker)
		}
	}

	if iter.Err() != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, iter.Err(), "failed to fetch %s aggregates from polygon", ticker)
	}

	return c.writer.Finalize()
}
