package strategy

import (
	"fmt"
	"math"

	"github.com/evdnx/gofx/config"
	"github.com/evdnx/gofx/logger"
	"github.com/evdnx/gofx/metrics"
	"github.com/evdnx/gofx/terminal"
	"github.com/evdnx/gofx/types"
)

// TrailingStop tightens the stops of this agent's open positions using the
// latest volatility estimate. It only ever moves a stop toward the price in
// the position's favor.
type TrailingStop struct {
	term terminal.Terminal
	cfg  config.Config
	log  logger.Logger
}

// NewTrailingStop wires the manager to the terminal.
func NewTrailingStop(term terminal.Terminal, cfg config.Config, log logger.Logger) *TrailingStop {
	return &TrailingStop{term: term, cfg: cfg, log: log}
}

// Apply inspects the open positions for a symbol and issues one stop
// modification per position whose candidate stop improves on the current
// one. A failed modification is logged and left for the next cycle; it is
// never retried here.
func (t *TrailingStop) Apply(symbol string, atr float64) error {
	positions, err := t.term.Positions(symbol)
	if err != nil {
		return fmt.Errorf("trailing %s: %w", symbol, err)
	}
	if len(positions) == 0 {
		return nil
	}
	quote, err := t.term.Quote(symbol)
	if err != nil {
		return fmt.Errorf("trailing %s: %w", symbol, err)
	}

	distance := t.cfg.TrailingStopATR * atr
	for _, p := range positions {
		if p.Magic != t.cfg.MagicNumber {
			continue
		}
		var candidate float64
		if p.Side == types.Buy {
			candidate = math.Max(p.StopLoss, quote.Bid-distance)
		} else {
			candidate = math.Min(p.StopLoss, quote.Ask+distance)
		}
		if candidate == p.StopLoss {
			continue
		}
		if err := t.term.ModifyStop(p.Ticket, candidate, p.TakeProfit); err != nil {
			t.log.Warn("trailing_modify_failed",
				logger.String("symbol", symbol),
				logger.Int64("ticket", p.Ticket),
				logger.Float64("stop", candidate),
				logger.Err(err),
			)
			continue
		}
		metrics.TrailingModifications.Inc()
		t.log.Info("trailing_stop_moved",
			logger.String("symbol", symbol),
			logger.Int64("ticket", p.Ticket),
			logger.Float64("from", p.StopLoss),
			logger.Float64("to", candidate),
		)
	}
	return nil
}
