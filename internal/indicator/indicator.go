package indicator

import (
	"github.com/algotradehub/algotrade/internal/types"
)

// Indicator is a pure computation over a bar series. Implementations hold
// only configuration; Compute never mutates the input series, performs no
// I/O, and identical input always yields identical output.
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Config configures the indicator parameters.
	Config(params ...any) error
	// MinBars returns the minimum number of bars required before the
	// indicator produces its first value.
	MinBars() int
}
