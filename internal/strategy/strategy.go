package strategy

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/indicator"
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// Name identifies a built-in signal generator.
type Name string

const (
	NameRSI            Name = "rsi_strategy"
	NameMACD           Name = "macd_strategy"
	NameBollinger      Name = "bollinger_strategy"
	NameMultiIndicator Name = "multi_indicator_strategy"
	NameSMACrossover   Name = "sma_crossover_strategy"
	NameEMA            Name = "ema_strategy"
	NameMomentum       Name = "momentum_strategy"
	NameVolumeBreakout Name = "volume_breakout_strategy"
	NameStochastic     Name = "stochastic_strategy"
)

// Params holds the tunables shared across the signal generators. Zero values
// fall back to the defaults from DefaultParams.
type Params struct {
	RSIPeriod       int     `yaml:"rsi_period" validate:"omitempty,gt=0"`
	RSIOversold     float64 `yaml:"rsi_oversold" validate:"omitempty,gt=0,lt=100"`
	RSIOverbought   float64 `yaml:"rsi_overbought" validate:"omitempty,gt=0,lt=100"`
	SMAPeriod       int     `yaml:"sma_period" validate:"omitempty,gt=0"`
	VolumeThreshold float64 `yaml:"volume_threshold" validate:"omitempty,gte=0"`
}

// DefaultParams returns the standard strategy parameters.
func DefaultParams() Params {
	return Params{
		RSIPeriod:       14,
		RSIOversold:     30,
		RSIOverbought:   70,
		SMAPeriod:       20,
		VolumeThreshold: 1000000,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()

	if p.RSIPeriod == 0 {
		p.RSIPeriod = def.RSIPeriod
	}
	if p.RSIOversold == 0 {
		p.RSIOversold = def.RSIOversold
	}
	if p.RSIOverbought == 0 {
		p.RSIOverbought = def.RSIOverbought
	}
	if p.SMAPeriod == 0 {
		p.SMAPeriod = def.SMAPeriod
	}
	if p.VolumeThreshold == 0 {
		p.VolumeThreshold = def.VolumeThreshold
	}

	return p
}

// Validate checks the parameters for internal consistency.
func (p Params) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy parameters", err)
	}

	eff := p.withDefaults()
	if eff.RSIOversold >= eff.RSIOverbought {
		return errors.Newf(errors.ErrCodeStrategyConfigError,
			"rsi_oversold (%.1f) must be below rsi_overbought (%.1f)", eff.RSIOversold, eff.RSIOverbought)
	}

	return nil
}

// IndicatorConfig returns the indicator periods this parameter set implies.
func (p Params) IndicatorConfig() indicator.SetConfig {
	eff := p.withDefaults()

	cfg := indicator.DefaultSetConfig()
	cfg.RSIPeriod = eff.RSIPeriod
	cfg.SMAPeriod = eff.SMAPeriod

	return cfg
}

// Strategy turns a computed indicator set into at most one trading signal.
// Generators are pure: the same indicator set always yields the same result.
type Strategy interface {
	Name() Name
	MinBars() int
	GenerateSignal(set *indicator.Set) optional.Option[types.Signal]
}

type constructor func(Params) Strategy

// table is the dispatch surface for built-in strategies. Names are validated
// against it when a strategy is constructed, not at signal time.
var table = map[Name]constructor{
	NameRSI:            func(p Params) Strategy { return &rsiStrategy{params: p} },
	NameMACD:           func(p Params) Strategy { return &macdStrategy{params: p} },
	NameBollinger:      func(p Params) Strategy { return &bollingerStrategy{params: p} },
	NameMultiIndicator: func(p Params) Strategy { return newMultiIndicatorStrategy(p) },
	NameSMACrossover:   func(p Params) Strategy { return &smaCrossoverStrategy{params: p} },
	NameEMA:            func(p Params) Strategy { return &emaStrategy{params: p} },
	NameMomentum:       func(p Params) Strategy { return &momentumStrategy{params: p} },
	NameVolumeBreakout: func(p Params) Strategy { return &volumeBreakoutStrategy{params: p} },
	NameStochastic:     func(p Params) Strategy { return &stochasticStrategy{params: p} },
}

// New constructs a built-in strategy by name. Unknown names and inconsistent
// parameters fail here so a backtest never starts with a broken setup.
func New(name Name, params Params) (Strategy, error) {
	build, ok := table[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "unknown strategy %q", name)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return build(params.withDefaults()), nil
}

// List returns the names of every built-in strategy.
func List() []Name {
	names := make([]Name, 0, len(table))
	for name := range table {
		names = append(names, name)
	}

	return names
}

// buildSignal assembles a signal from the latest bar of the set the
// generator just read.
func buildSignal(set *indicator.Set, name Name, action types.SignalAction, strength float64, values map[string]float64) types.Signal {
	latest, _ := set.Bars.Latest()

	return types.Signal{
		Action:   action,
		Price:    latest.Close,
		Time:     latest.Time,
		Strength: types.ClampStrength(strength),
		Strategy: string(name),
		Symbol:   latest.Symbol,
		Volume:   latest.Volume,
		Values:   values,
	}
}
