package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/algotradehub/algotrade/pkg/errors"
)

// SignalAction is the discrete trading decision carried by a Signal.
type SignalAction string

const (
	// SignalActionBuy tells the caller to open (or add to) a long exposure.
	SignalActionBuy SignalAction = "BUY"
	// SignalActionSell tells the caller to reduce or reverse exposure.
	SignalActionSell SignalAction = "SELL"
)

// Signal is the output of a single signal generator invocation. It is
// ephemeral: consumed immediately by position sizing or discarded.
type Signal struct {
	// Action is the trading decision.
	Action SignalAction `yaml:"action" json:"action" validate:"required,oneof=BUY SELL"`
	// Price is the close price of the bar that produced the signal.
	Price float64 `yaml:"price" json:"price" validate:"required,gt=0"`
	// Time is the timestamp of the bar that produced the signal.
	Time time.Time `yaml:"time" json:"time" validate:"required"`
	// Strength is a confidence proxy in [0,100], not a probability.
	Strength float64 `yaml:"strength" json:"strength" validate:"gte=0,lte=100"`
	// Strategy is the identifier of the generator that produced the signal.
	Strategy string `yaml:"strategy" json:"strategy"`
	// Symbol is the trading pair the signal applies to.
	Symbol string `yaml:"symbol" json:"symbol"`
	// Exchange is the venue the bars were sourced from.
	Exchange string `yaml:"exchange" json:"exchange"`
	// Volume is the volume of the bar that produced the signal.
	Volume float64 `yaml:"volume" json:"volume"`
	// Values carries strategy-specific numeric fields (e.g. rsi, macd).
	Values map[string]float64 `yaml:"values" json:"values"`
}

// ClampStrength bounds a raw strength score to [0, 100].
func ClampStrength(strength float64) float64 {
	if strength < 0 {
		return 0
	}

	if strength > 100 {
		return 100
	}

	return strength
}

// Validate validates the Signal struct.
func (s *Signal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	return nil
}
