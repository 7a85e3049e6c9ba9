package types

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/algotradehub/algotrade/pkg/errors"
)

// PositionSide is the direction of a position. A BUY position profits when
// price rises, a SELL position when price falls.
type PositionSide string

const (
	PositionSideBuy  PositionSide = "BUY"
	PositionSideSell PositionSide = "SELL"
)

// PositionStatus is the lifecycle state of a position.
type PositionStatus string

const (
	PositionStatusOpen      PositionStatus = "OPEN"
	PositionStatusClosed    PositionStatus = "CLOSED"
	PositionStatusPartial   PositionStatus = "PARTIAL"
	PositionStatusCancelled PositionStatus = "CANCELLED"
)

// Position represents a single open or closed trade. At most one position may
// exist per (exchange, symbol, side) key at a time; callers must reject a
// second open request for the same key.
type Position struct {
	ID         string       `yaml:"id" json:"id" csv:"id"`
	Exchange   string       `yaml:"exchange" json:"exchange" csv:"exchange"`
	Symbol     string       `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side       PositionSide `yaml:"side" json:"side" csv:"side"`
	EntryPrice float64      `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	Quantity   float64      `yaml:"quantity" json:"quantity" csv:"quantity"`
	EntryTime  time.Time    `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	StopLoss   float64      `yaml:"stop_loss" json:"stop_loss" csv:"stop_loss"`
	TakeProfit float64      `yaml:"take_profit" json:"take_profit" csv:"take_profit"`
	// ExitPrice is set when the position is closed.
	ExitPrice optional.Option[float64] `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	// ExitTime is set when the position is closed.
	ExitTime optional.Option[time.Time] `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	Status   PositionStatus             `yaml:"status" json:"status" csv:"status"`
	// PnL is unrealized while the position is open, realized
	// (commission-adjusted) once closed.
	PnL           float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
	PnLPercentage float64 `yaml:"pnl_percentage" json:"pnl_percentage" csv:"pnl_percentage"`
	Commission    float64 `yaml:"commission" json:"commission" csv:"commission"`
	Strategy      string  `yaml:"strategy" json:"strategy" csv:"strategy"`
}

// PositionKey identifies a position slot. One open position per key.
func PositionKey(exchange, symbol string, side PositionSide) string {
	return fmt.Sprintf("%s_%s_%s", exchange, symbol, side)
}

// Key returns the position's (exchange, symbol, side) key.
func (p *Position) Key() string {
	return PositionKey(p.Exchange, p.Symbol, p.Side)
}

// Notional returns the entry notional value of the position.
func (p *Position) Notional() float64 {
	return p.EntryPrice * p.Quantity
}

// RiskToStop returns the amount at risk between entry and stop loss. A
// position with a stop on the wrong side of entry contributes zero.
func (p *Position) RiskToStop() float64 {
	var riskPerUnit float64

	switch p.Side {
	case PositionSideBuy:
		riskPerUnit = p.EntryPrice - p.StopLoss
	case PositionSideSell:
		riskPerUnit = p.StopLoss - p.EntryPrice
	}

	if riskPerUnit < 0 {
		return 0
	}

	return riskPerUnit * p.Quantity
}

// ValidateLevels checks that stop loss and take profit straddle the entry
// price in the direction implied by the side.
func (p *Position) ValidateLevels() error {
	switch p.Side {
	case PositionSideBuy:
		if p.StopLoss >= p.EntryPrice {
			return errors.Newf(errors.ErrCodeInvalidStopLoss,
				"stop loss %f must be below entry %f for BUY", p.StopLoss, p.EntryPrice)
		}

		if p.TakeProfit <= p.EntryPrice {
			return errors.Newf(errors.ErrCodeInvalidTakeProfit,
				"take profit %f must be above entry %f for BUY", p.TakeProfit, p.EntryPrice)
		}
	case PositionSideSell:
		if p.StopLoss <= p.EntryPrice {
			return errors.Newf(errors.ErrCodeInvalidStopLoss,
				"stop loss %f must be above entry %f for SELL", p.StopLoss, p.EntryPrice)
		}

		if p.TakeProfit >= p.EntryPrice {
			return errors.Newf(errors.ErrCodeInvalidTakeProfit,
				"take profit %f must be below entry %f for SELL", p.TakeProfit, p.EntryPrice)
		}
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown position side %q", p.Side)
	}

	return nil
}

// MarkPrice updates the unrealized PnL of an open position against the given
// market price. Closed positions are immutable and are left untouched.
func (p *Position) MarkPrice(price float64) {
	if p.Status != PositionStatusOpen {
		return
	}

	var pnl float64

	switch p.Side {
	case PositionSideBuy:
		pnl = (price - p.EntryPrice) * p.Quantity
	case PositionSideSell:
		pnl = (p.EntryPrice - price) * p.Quantity
	}

	p.PnL = pnl

	if notional := p.Notional(); notional > 0 {
		p.PnLPercentage = pnl / notional * 100
	}
}

// Close realizes the position at the given exit price, deducting commission
// on both the entry and exit notional. Closing an already closed position is
// an error; closed positions are immutable.
func (p *Position) Close(exitPrice float64, exitTime time.Time, commissionRate float64) error {
	if p.Status != PositionStatusOpen {
		return errors.Newf(errors.ErrCodePositionNotFound,
			"position %s is not open (status %s)", p.Key(), p.Status)
	}

	entry := decimal.NewFromFloat(p.EntryPrice)
	exit := decimal.NewFromFloat(exitPrice)
	qty := decimal.NewFromFloat(p.Quantity)
	rate := decimal.NewFromFloat(commissionRate)

	var gross decimal.Decimal

	switch p.Side {
	case PositionSideBuy:
		gross = exit.Sub(entry).Mul(qty)
	case PositionSideSell:
		gross = entry.Sub(exit).Mul(qty)
	}

	// Commission is charged symmetrically on entry and exit notional.
	commission := entry.Mul(qty).Mul(rate).Add(exit.Mul(qty).Mul(rate))
	net := gross.Sub(commission)

	p.Commission, _ = commission.Float64()
	p.PnL, _ = net.Float64()

	if notional := entry.Mul(qty); notional.IsPositive() {
		pct, _ := net.Div(notional).Mul(decimal.NewFromInt(100)).Float64()
		p.PnLPercentage = pct
	}

	p.ExitPrice = optional.Some(exitPrice)
	p.ExitTime = optional.Some(exitTime)
	p.Status = PositionStatusClosed

	return nil
}
