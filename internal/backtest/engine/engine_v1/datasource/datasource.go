package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/types"
)

type DataSource interface {
	// Initialize loads the market data at the given path into the source.
	Initialize(path string) error
	// ReadAll reads bars in chronological order and yields them to the
	// caller, restricted to the optional [start, end] window.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.MarketData, error) bool)
	// ReadLastData returns the most recent bar for a symbol.
	ReadLastData(symbol string) (types.MarketData, error)
	// Count returns the number of bars within the optional time window.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases the underlying resources.
	Close() error
}
