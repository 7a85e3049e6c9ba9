package engine

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/algotradehub/algotrade/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/algotradehub/algotrade/internal/risk"
	"github.com/algotradehub/algotrade/internal/strategy"
	"github.com/algotradehub/algotrade/pkg/errors"
)

// StrategyConfig selects one of the built-in strategies and its parameters.
type StrategyConfig struct {
	Name   strategy.Name   `yaml:"name" json:"name" validate:"required"`
	Params strategy.Params `yaml:"params" json:"params"`
}

type BacktestEngineV1Config struct {
	InitialCapital  float64                    `yaml:"initial_capital" json:"initial_capital" validate:"required,gt=0"`
	CommissionModel commission_fee.Model       `yaml:"commission_model" json:"commission_model" validate:"omitempty,oneof=zero percentage"`
	CommissionRate  float64                    `yaml:"commission_rate" json:"commission_rate" validate:"omitempty,gte=0,lt=1"`
	Exchange        string                     `yaml:"exchange" json:"exchange"`
	Strategy        StrategyConfig             `yaml:"strategy" json:"strategy"`
	Risk            risk.Config                `yaml:"risk" json:"risk"`
	StartTime       optional.Option[time.Time] `yaml:"start_time" json:"start_time"`
	EndTime         optional.Option[time.Time] `yaml:"end_time" json:"end_time"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config so
// absent start and end times decode to None.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital  float64              `yaml:"initial_capital"`
		CommissionModel commission_fee.Model `yaml:"commission_model"`
		CommissionRate  float64              `yaml:"commission_rate"`
		Exchange        string               `yaml:"exchange"`
		Strategy        StrategyConfig       `yaml:"strategy"`
		Risk            risk.Config          `yaml:"risk"`
		StartTime       *time.Time           `yaml:"start_time"`
		EndTime         *time.Time           `yaml:"end_time"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.CommissionModel = config.CommissionModel
	c.CommissionRate = config.CommissionRate
	c.Exchange = config.Exchange
	c.Strategy = config.Strategy
	c.Risk = config.Risk

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	} else {
		c.StartTime = optional.None[time.Time]()
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	} else {
		c.EndTime = optional.None[time.Time]()
	}

	return nil
}

// Validate checks the configuration, including that the named strategy
// exists and its parameters are consistent. A backtest never starts with a
// broken setup.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest configuration", err)
	}

	if _, err := strategy.New(c.Strategy.Name, c.Strategy.Params); err != nil {
		return err
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time is before start_time")
	}

	return nil
}

// EmptyConfig returns a BacktestEngineV1Config with default values.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:  0,
		CommissionModel: commission_fee.ModelPercentage,
		CommissionRate:  commission_fee.DefaultPercentageRate,
		Exchange:        "backtest",
		Strategy:        StrategyConfig{},
		Risk:            risk.DefaultConfig(),
		StartTime:       optional.None[time.Time](),
		EndTime:         optional.None[time.Time](),
	}
}

// TestConfig returns a runnable configuration for tests.
func TestConfig(name strategy.Name) BacktestEngineV1Config {
	config := EmptyConfig()
	config.InitialCapital = 10000
	config.Strategy = StrategyConfig{Name: name, Params: strategy.DefaultParams()}

	return config
}
