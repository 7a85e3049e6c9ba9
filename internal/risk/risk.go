package risk

import (
	"sync"

	"go.uber.org/zap"

	"github.com/algotradehub/algotrade/internal/logger"
	"github.com/algotradehub/algotrade/internal/types"
	"github.com/algotradehub/algotrade/pkg/errors"
)

const (
	maxRecentTrades    = 100
	maxPortfolioValues = 1000
)

// Config holds the risk limits. Zero values fall back to the defaults from
// DefaultConfig.
type Config struct {
	// RiskPerTrade is the base fraction of the balance risked per trade.
	RiskPerTrade float64 `yaml:"risk_per_trade" validate:"omitempty,gt=0,lte=0.1"`
	// MaxPortfolioRisk caps the combined open risk across all positions.
	MaxPortfolioRisk float64 `yaml:"max_portfolio_risk" validate:"omitempty,gt=0,lte=1"`
	// MaxPositionSize caps a single position's notional as a balance fraction.
	MaxPositionSize float64 `yaml:"max_position_size" validate:"omitempty,gt=0,lte=1"`
	// MaxCorrelation rejects new positions too correlated with open ones.
	MaxCorrelation float64 `yaml:"max_correlation" validate:"omitempty,gt=0,lte=1"`
	// MaxDrawdownLimit is the drawdown fraction that triggers risk reduction.
	MaxDrawdownLimit float64 `yaml:"max_drawdown_limit" validate:"omitempty,gt=0,lte=1"`
	// MaxPositions caps the number of simultaneously open positions.
	MaxPositions int `yaml:"max_positions" validate:"omitempty,gt=0"`
}

// DefaultConfig returns the standard risk limits.
func DefaultConfig() Config {
	return Config{
		RiskPerTrade:     0.01,
		MaxPortfolioRisk: 0.06,
		MaxPositionSize:  0.1,
		MaxCorrelation:   0.7,
		MaxDrawdownLimit: 0.15,
		MaxPositions:     5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()

	if c.RiskPerTrade == 0 {
		c.RiskPerTrade = def.RiskPerTrade
	}
	if c.MaxPortfolioRisk == 0 {
		c.MaxPortfolioRisk = def.MaxPortfolioRisk
	}
	if c.MaxPositionSize == 0 {
		c.MaxPositionSize = def.MaxPositionSize
	}
	if c.MaxCorrelation == 0 {
		c.MaxCorrelation = def.MaxCorrelation
	}
	if c.MaxDrawdownLimit == 0 {
		c.MaxDrawdownLimit = def.MaxDrawdownLimit
	}
	if c.MaxPositions == 0 {
		c.MaxPositions = def.MaxPositions
	}

	return c
}

// TradeOutcome is the realized result of a closed trade, as the risk state
// tracks it for performance-adjusted sizing.
type TradeOutcome struct {
	PnL    float64
	PnLPct float64
}

// State tracks everything sizing and validation depend on: recent trade
// outcomes, the portfolio value history and the open position book. All
// methods are safe for concurrent use.
type State struct {
	mu sync.Mutex

	config          Config
	recentTrades    []TradeOutcome
	portfolioValues []float64
	openPositions   map[string]types.Position

	logger *logger.Logger
}

// NewState creates a risk state with the given limits.
func NewState(config Config, l *logger.Logger) *State {
	if l == nil {
		l = logger.NewNopLogger()
	}

	return &State{
		config:        config.withDefaults(),
		openPositions: make(map[string]types.Position),
		logger:        l,
	}
}

// Config returns the effective limits.
func (s *State) Config() Config {
	return s.config
}

// AddTrade records a closed trade outcome. Only the most recent trades are
// kept.
func (s *State) AddTrade(outcome TradeOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recentTrades = append(s.recentTrades, outcome)
	if len(s.recentTrades) > maxRecentTrades {
		s.recentTrades = s.recentTrades[len(s.recentTrades)-maxRecentTrades:]
	}
}

// UpdatePortfolioValue appends a portfolio valuation to the history used for
// drawdown tracking. Only the most recent values are kept.
func (s *State) UpdatePortfolioValue(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.portfolioValues = append(s.portfolioValues, value)
	if len(s.portfolioValues) > maxPortfolioValues {
		s.portfolioValues = s.portfolioValues[len(s.portfolioValues)-maxPortfolioValues:]
	}
}

// OpenPosition registers a new open position. A second open position for the
// same (exchange, symbol, side) key is rejected.
func (s *State) OpenPosition(position types.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := position.Key()
	if _, exists := s.openPositions[key]; exists {
		return errors.Newf(errors.ErrCodePositionDuplicate,
			"position already open for %s", key)
	}

	s.openPositions[key] = position
	s.logger.Debug("position opened",
		zap.String("key", key),
		zap.Float64("entry", position.EntryPrice),
		zap.Float64("quantity", position.Quantity))

	return nil
}

// ClosePosition removes the open position for the key and returns it.
func (s *State) ClosePosition(key string) (types.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, exists := s.openPositions[key]
	if !exists {
		return types.Position{}, errors.Newf(errors.ErrCodePositionNotFound,
			"no open position for %s", key)
	}

	delete(s.openPositions, key)

	return position, nil
}

// Position returns the open position for the key, if any.
func (s *State) Position(key string) (types.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, exists := s.openPositions[key]

	return position, exists
}

// OpenPositions returns a snapshot of the open position book.
func (s *State) OpenPositions() []types.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make([]types.Position, 0, len(s.openPositions))
	for _, position := range s.openPositions {
		positions = append(positions, position)
	}

	return positions
}

// CurrentDrawdown returns the fractional drawdown of the given value from the
// tracked portfolio peak. An empty history reports zero.
func (s *State) CurrentDrawdown(currentValue float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentDrawdownLocked(currentValue)
}

func (s *State) currentDrawdownLocked(currentValue float64) float64 {
	if len(s.portfolioValues) == 0 {
		return 0
	}

	peak := s.portfolioValues[0]
	for _, v := range s.portfolioValues[1:] {
		if v > peak {
			peak = v
		}
	}

	if peak <= 0 {
		return 0
	}

	drawdown := (peak - currentValue) / peak
	if drawdown < 0 {
		return 0
	}

	return drawdown
}

// ShouldReduceRisk reports whether the portfolio is close enough to the
// drawdown limit that position sizes should shrink.
func (s *State) ShouldReduceRisk(currentValue float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shouldReduceRiskLocked(currentValue)
}

func (s *State) shouldReduceRiskLocked(currentValue float64) bool {
	return s.currentDrawdownLocked(currentValue) > s.config.MaxDrawdownLimit*0.8
}

// RiskAdjustedSize scales a base position size down under drawdown pressure
// and when the position book is nearly full.
func (s *State) RiskAdjustedSize(baseSize, currentValue float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	adjusted := baseSize

	if s.shouldReduceRiskLocked(currentValue) {
		drawdown := s.currentDrawdownLocked(currentValue)
		reduction := 1.0 - drawdown/s.config.MaxDrawdownLimit
		if reduction < 0.1 {
			reduction = 0.1
		}

		adjusted *= reduction
	}

	numPositions := len(s.openPositions)
	if float64(numPositions) >= float64(s.config.MaxPositions)*0.8 {
		adjusted *= float64(s.config.MaxPositions) / float64(numPositions+1)
	}

	return adjusted
}
