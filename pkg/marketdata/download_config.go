package marketdata

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/algotradehub/algotrade/pkg/errors"
	"github.com/algotradehub/algotrade/pkg/marketdata/provider"
)

// DownloadConfig describes one market data download: which provider, which
// ticker, the date range and interval, and where the CSV goes.
type DownloadConfig struct {
	Provider   provider.ProviderType `yaml:"provider" validate:"required,oneof=polygon binance"`
	Ticker     string                `yaml:"ticker" validate:"required"`
	StartDate  string                `yaml:"start_date" validate:"required"`
	EndDate    string                `yaml:"end_date" validate:"required"`
	Interval   Timespan              `yaml:"interval" validate:"required"`
	APIKey     string                `yaml:"api_key"`
	OutputPath string                `yaml:"output_path" validate:"required"`
}

// DownloadParams is the provider-level form of a download request.
type DownloadParams struct {
	Ticker     string
	StartDate  time.Time
	EndDate    time.Time
	Multiplier int
	Timespan   models.Timespan
}

// Validate checks the configuration, including date formats and the
// provider's authentication requirements.
func (c *DownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid download configuration", err)
	}

	if err := c.Interval.Validate(); err != nil {
		return err
	}

	if _, err := time.Parse(time.RFC3339, c.StartDate); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid start_date, expected RFC3339", err)
	}

	if _, err := time.Parse(time.RFC3339, c.EndDate); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid end_date, expected RFC3339", err)
	}

	if info, err := GetProviderInfo(string(c.Provider)); err == nil && info.RequiresAuth && c.APIKey == "" {
		return errors.Newf(errors.ErrCodeInvalidProvider, "provider %s requires an API key", c.Provider)
	}

	return nil
}

// ToDownloadParams converts the configuration to provider-level parameters.
func (c *DownloadConfig) ToDownloadParams() (DownloadParams, error) {
	startDate, err := time.Parse(time.RFC3339, c.StartDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse start_date", err)
	}

	endDate, err := time.Parse(time.RFC3339, c.EndDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse end_date", err)
	}

	if !endDate.After(startDate) {
		return DownloadParams{}, errors.New(errors.ErrCodeInvalidParameter, "end_date must be after start_date")
	}

	return DownloadParams{
		Ticker:     c.Ticker,
		StartDate:  startDate,
		EndDate:    endDate,
		Multiplier: c.Interval.Multiplier(),
		Timespan:   c.Interval.Timespan(),
	}, nil
}
