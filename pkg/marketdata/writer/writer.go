package writer

import (
	"github.com/algotradehub/algotrade/internal/types"
)

// MarketDataWriter defines the interface for writing market data to a
// destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, creating files as needed.
	Initialize() error
	// Write persists a single bar.
	Write(data types.MarketData) error
	// Finalize completes the writing process and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
