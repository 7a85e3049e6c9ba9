package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

var csvHeader = []string{"symbol", "time", "open", "high", "low", "close", "volume"}

// CSVWriter writes bars to a CSV file in the layout the backtest datasource
// reads: a header row followed by one bar per line, timestamps in RFC3339.
type CSVWriter struct {
	outputPath string
	file       *os.File
	csv        *csv.Writer
}

// NewCSVWriter creates a CSV writer targeting the given output path.
func NewCSVWriter(outputPath string) *CSVWriter {
	return &CSVWriter{
		outputPath: outputPath,
	}
}

// Initialize implements MarketDataWriter.
func (w *CSVWriter) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create output directory", err)
	}

	file, err := os.Create(w.outputPath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", w.outputPath)
	}

	w.file = file
	w.csv = csv.NewWriter(file)

	if err := w.csv.Write(csvHeader); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write header", err)
	}

	return nil
}

// Write implements MarketDataWriter.
func (w *CSVWriter) Write(data types.MarketData) error {
	if w.csv == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not initialized")
	}

	record := []string{
		data.Symbol,
		data.Time.UTC().Format(time.RFC3339),
		strconv.FormatFloat(data.Open, 'f', -1, 64),
		strconv.FormatFloat(data.High, 'f', -1, 64),
		strconv.FormatFloat(data.Low, 'f', -1, 64),
		strconv.FormatFloat(data.Close, 'f', -1, 64),
		strconv.FormatFloat(data.Volume, 'f', -1, 64),
	}

	if err := w.csv.Write(record); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
	}

	return nil
}

// Finalize implements MarketDataWriter.
func (w *CSVWriter) Finalize() (string, error) {
	if w.csv == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not initialized")
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to flush writer", err)
	}

	return w.outputPath, nil
}

// Close implements MarketDataWriter.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	w.csv = nil

	return err
}

// GetOutputPath implements MarketDataWriter.
func (w *CSVWriter) GetOutputPath() string {
	return w.outputPath
}
