package types

// Action is the direction of a signal or an open position.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

// Directional reports whether the action calls for an order.
func (a Action) Directional() bool { return a == Buy || a == Sell }

// Series holds aligned OHLC history, oldest first. The last index is the
// current bar. Closes, Highs and Lows always have equal length.
type Series struct {
	Closes []float64
	Highs  []float64
	Lows   []float64
}

// Len returns the number of bars in the series.
func (s Series) Len() int { return len(s.Closes) }

// Signal is the decision for the most recent bar. Stop and Target are only
// meaningful when Action is directional.
type Signal struct {
	Action Action
	Stop   float64
	Target float64
}

// Position mirrors an open position held by the terminal.
type Position struct {
	Ticket     int64
	Symbol     string
	Side       Action
	Volume     float64
	StopLoss   float64
	TakeProfit float64
	Magic      int64
}

// Quote is the latest bid/ask for a symbol.
type Quote struct {
	Bid float64
	Ask float64
}

// OrderRequest describes a market order. The terminal resolves the fill
// price from the current quote (ask for BUY, bid for SELL).
type OrderRequest struct {
	Symbol     string
	Side       Action
	Volume     float64
	StopLoss   float64
	TakeProfit float64
	Magic      int64
	Comment    string
}
