// Package terminal defines the boundary to the market-data/execution
// terminal and provides a WebSocket bridge client implementation. The
// agent only ever talks to the Terminal interface, so tests substitute an
// in-memory fake.
package terminal

import "github.com/evdnx/gofx/types"

// Terminal is the external collaborator that supplies price history,
// account state and quotes, and accepts order requests. All calls are
// synchronous; submission and modification failures surface as errors and
// are never retried by the caller within the same cycle.
type Terminal interface {
	// Bars returns up to count recent bars for the symbol, oldest first.
	Bars(symbol, timeframe string, count int) (types.Series, error)

	// AccountBalance returns the current account balance.
	AccountBalance() (float64, error)

	// Positions lists the open positions for a symbol, all owners included.
	Positions(symbol string) ([]types.Position, error)

	// Quote returns the latest bid/ask for a symbol.
	Quote(symbol string) (types.Quote, error)

	// SubmitOrder places a market order with attached stop and target.
	SubmitOrder(req types.OrderRequest) error

	// ModifyStop moves the stop of an open position, leaving the
	// take-profit untouched.
	ModifyStop(ticket int64, stop, takeProfit float64) error
}
