package risk

import (
	"strings"

	"go.uber.org/zap"

	"github.com/algotradehub/algotrade/internal/types"
)

// RejectReason classifies why a proposed trade was turned down. Rejections
// are expected outcomes of validation, not errors.
type RejectReason string

const (
	RejectNone              RejectReason = ""
	RejectPortfolioRisk     RejectReason = "portfolio_risk_limit"
	RejectCorrelation       RejectReason = "correlated_position"
	RejectPositionSize      RejectReason = "position_size_limit"
	RejectRiskReward        RejectReason = "risk_reward_too_low"
	RejectDuplicatePosition RejectReason = "duplicate_position"
	RejectMaxPositions      RejectReason = "max_positions"
)

// Verdict is the outcome of trade validation.
type Verdict struct {
	OK     bool
	Reason RejectReason
}

func accepted() Verdict {
	return Verdict{OK: true}
}

func rejected(reason RejectReason) Verdict {
	return Verdict{Reason: reason}
}

// TradeRequest describes a proposed trade for validation.
type TradeRequest struct {
	Exchange   string
	Symbol     string
	Side       types.PositionSide
	Quantity   float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Balance    float64
}

// ValidateTrade checks a proposed trade against every risk limit: the open
// slot for the key, position count, portfolio heat, correlation with open
// positions, the notional cap and the minimum risk/reward ratio.
func (s *State) ValidateTrade(req TradeRequest) Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := types.PositionKey(req.Exchange, req.Symbol, req.Side)
	if _, exists := s.openPositions[key]; exists {
		return s.logRejection(req, RejectDuplicatePosition)
	}

	if len(s.openPositions) >= s.config.MaxPositions {
		return s.logRejection(req, RejectMaxPositions)
	}

	var riskPerUnit float64
	if req.Side == types.PositionSideBuy {
		riskPerUnit = req.Price - req.StopLoss
	} else {
		riskPerUnit = req.StopLoss - req.Price
	}

	tradeRisk := riskPerUnit * req.Quantity

	if !s.portfolioHeatOKLocked(tradeRisk, req.Balance) {
		return s.logRejection(req, RejectPortfolioRisk)
	}

	if !s.correlationOKLocked(req.Symbol) {
		return s.logRejection(req, RejectCorrelation)
	}

	// The tolerance absorbs rounding noise when sizing capped the
	// quantity at exactly this limit.
	if req.Quantity*req.Price > req.Balance*s.config.MaxPositionSize*(1+1e-9) {
		return s.logRejection(req, RejectPositionSize)
	}

	var rewardPerUnit float64
	if req.Side == types.PositionSideBuy {
		rewardPerUnit = req.TakeProfit - req.Price
	} else {
		rewardPerUnit = req.Price - req.TakeProfit
	}

	if riskPerUnit > 0 && rewardPerUnit/riskPerUnit < 1.5 {
		return s.logRejection(req, RejectRiskReward)
	}

	return accepted()
}

func (s *State) logRejection(req TradeRequest, reason RejectReason) Verdict {
	s.logger.Debug("trade rejected",
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.String("reason", string(reason)))

	return rejected(reason)
}

// portfolioHeatOKLocked checks that the combined risk-to-stop of all open
// positions plus the new trade stays within the portfolio risk limit.
func (s *State) portfolioHeatOKLocked(newTradeRisk, balance float64) bool {
	if balance <= 0 {
		return true
	}

	totalRisk := newTradeRisk
	for _, position := range s.openPositions {
		totalRisk += position.RiskToStop()
	}

	return totalRisk <= balance*s.config.MaxPortfolioRisk
}

// correlationOKLocked checks the new symbol against every open position.
func (s *State) correlationOKLocked(symbol string) bool {
	for _, position := range s.openPositions {
		if SymbolCorrelation(symbol, position.Symbol) > s.config.MaxCorrelation {
			return false
		}
	}

	return true
}

// highCorrelationPairs are base-asset pairs that historically move together.
var highCorrelationPairs = map[[2]string]struct{}{
	{"BTC", "ETH"}: {},
	{"ETH", "BTC"}: {},
	{"BTC", "LTC"}: {},
	{"LTC", "BTC"}: {},
	{"ETH", "ETC"}: {},
	{"ETC", "ETH"}: {},
}

// SymbolCorrelation estimates the correlation between two trading pairs
// using a symbol heuristic: identical symbols are 1.0, known co-moving base
// assets 0.8, a shared quote currency 0.4, anything else 0.1.
func SymbolCorrelation(symbol1, symbol2 string) float64 {
	if symbol1 == symbol2 {
		return 1.0
	}

	base1, quote1 := splitSymbol(symbol1)
	base2, quote2 := splitSymbol(symbol2)

	if _, ok := highCorrelationPairs[[2]string{base1, base2}]; ok {
		return 0.8
	}

	if quote1 == quote2 {
		return 0.4
	}

	return 0.1
}

func splitSymbol(symbol string) (base, quote string) {
	if idx := strings.Index(symbol, "/"); idx >= 0 {
		return symbol[:idx], symbol[idx+1:]
	}

	if len(symbol) > 3 {
		return symbol[:3], symbol[3:]
	}

	return symbol, "USD"
}
