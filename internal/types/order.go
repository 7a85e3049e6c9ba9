package types

import "time"

// OrderReason explains why the backtest placed an order.
type OrderReason string

const (
	// OrderReasonSignal marks orders triggered by a strategy signal.
	OrderReasonSignal OrderReason = "signal"
	// OrderReasonStopLoss marks exits triggered by the stop loss level.
	OrderReasonStopLoss OrderReason = "stop_loss"
	// OrderReasonTakeProfit marks exits triggered by the take profit level.
	OrderReasonTakeProfit OrderReason = "take_profit"
	// OrderReasonEndOfData marks forced liquidation at the end of a run.
	OrderReasonEndOfData OrderReason = "end_of_data"
)

// Order is a single fill recorded by the backtest. Every position open and
// close produces exactly one order.
type Order struct {
	ID       string       `yaml:"id" json:"id" csv:"id"`
	Symbol   string       `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side     PositionSide `yaml:"side" json:"side" csv:"side"`
	Quantity float64      `yaml:"quantity" json:"quantity" csv:"quantity"`
	Price    float64      `yaml:"price" json:"price" csv:"price"`
	Time     time.Time    `yaml:"time" json:"time" csv:"time"`
	Fee      float64      `yaml:"fee" json:"fee" csv:"fee"`
	Strategy string       `yaml:"strategy" json:"strategy" csv:"strategy"`
	Reason   OrderReason  `yaml:"reason" json:"reason" csv:"reason"`
	Message  string       `yaml:"message" json:"message" csv:"message"`
}
