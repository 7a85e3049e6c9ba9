package risk

// Snapshot is a point-in-time view of the risk state, expressed in the same
// percentage units the stats output uses.
type Snapshot struct {
	CurrentDrawdownPct    float64 `yaml:"current_drawdown_pct"`
	MaxDrawdownLimitPct   float64 `yaml:"max_drawdown_limit_pct"`
	PortfolioHeatPct      float64 `yaml:"portfolio_heat_pct"`
	MaxPortfolioRiskPct   float64 `yaml:"max_portfolio_risk_pct"`
	OpenPositions         int     `yaml:"open_positions"`
	MaxPositions          int     `yaml:"max_positions"`
	PeakPortfolioValue    float64 `yaml:"peak_portfolio_value"`
	CurrentPortfolioValue float64 `yaml:"current_portfolio_value"`
}

// TakeSnapshot captures the current drawdown, heat and position usage
// against the given account balance. An empty portfolio history yields a
// zero snapshot with the configured limits filled in.
func (s *State) TakeSnapshot(balance float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		MaxDrawdownLimitPct: s.config.MaxDrawdownLimit * 100,
		MaxPortfolioRiskPct: s.config.MaxPortfolioRisk * 100,
		OpenPositions:       len(s.openPositions),
		MaxPositions:        s.config.MaxPositions,
	}

	if len(s.portfolioValues) == 0 {
		return snapshot
	}

	current := s.portfolioValues[len(s.portfolioValues)-1]

	peak := s.portfolioValues[0]
	for _, v := range s.portfolioValues[1:] {
		if v > peak {
			peak = v
		}
	}

	snapshot.CurrentPortfolioValue = current
	snapshot.PeakPortfolioValue = peak
	snapshot.CurrentDrawdownPct = s.currentDrawdownLocked(current) * 100

	if balance > 0 {
		var totalRisk float64
		for _, position := range s.openPositions {
			totalRisk += position.RiskToStop()
		}

		snapshot.PortfolioHeatPct = totalRisk / balance * 100
	}

	return snapshot
}
