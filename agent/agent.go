// Package agent runs the polling loop: per symbol it fetches history, asks
// the decision engine for a signal, maintains trailing stops, sizes the
// trade and either submits the order or reports what it would have done.
package agent

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/evdnx/gofx/config"
	"github.com/evdnx/gofx/indicator"
	"github.com/evdnx/gofx/logger"
	"github.com/evdnx/gofx/metrics"
	"github.com/evdnx/gofx/risk"
	"github.com/evdnx/gofx/strategy"
	"github.com/evdnx/gofx/terminal"
	"github.com/evdnx/gofx/types"
)

const (
	// BarWindow is how much history each cycle fetches per symbol.
	BarWindow = 800

	// MinPoll floors the inter-cycle sleep.
	MinPoll = 5 * time.Second

	// pipFactor converts a price distance into pips for the sizer.
	pipFactor = 10000.0

	orderComment = "gofx-agent"
)

// PollInterval converts the poll-seconds flag into a duration, enforcing
// the floor.
func PollInterval(seconds int) time.Duration {
	d := time.Duration(seconds) * time.Second
	if d < MinPoll {
		return MinPoll
	}
	return d
}

// Agent is the orchestrator. It holds no cross-cycle state beyond the
// sizer's startup balance snapshot; everything else lives in the terminal.
type Agent struct {
	cfg   config.Config
	term  terminal.Terminal
	sizer *risk.PositionSizer
	trail *strategy.TrailingStop
	log   logger.Logger
	poll  time.Duration
}

// New validates connectivity to the account and builds the agent. An
// unreachable account is a fatal condition for the caller.
func New(cfg config.Config, term terminal.Terminal, log logger.Logger, poll time.Duration) (*Agent, error) {
	balance, err := term.AccountBalance()
	if err != nil {
		return nil, fmt.Errorf("agent: account unavailable: %w", err)
	}
	metrics.AccountBalance.Set(balance)
	log.Info("agent_ready",
		logger.Float64("balance", balance),
		logger.Int("symbols", len(cfg.Symbols)),
		logger.Bool("live", cfg.LiveTrading),
		logger.Float64("daily_loss_limit_pct", cfg.DailyLossLimitPct),
		logger.Float64("max_drawdown_pct", cfg.MaxDrawdownPct),
	)
	return &Agent{
		cfg:   cfg,
		term:  term,
		sizer: risk.NewPositionSizer(balance, cfg.RiskPerTradePct),
		trail: strategy.NewTrailingStop(term, cfg, log),
		log:   log,
		poll:  poll,
	}, nil
}

// Run cycles until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	for {
		a.Cycle()
		metrics.CyclesTotal.Inc()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.poll):
		}
	}
}

// Cycle processes every configured symbol once. A failure in one symbol is
// logged and never touches the others.
func (a *Agent) Cycle() {
	for _, symbol := range a.cfg.Symbols {
		if err := a.processSymbol(symbol); err != nil {
			metrics.SymbolErrors.WithLabelValues(symbol).Inc()
			a.log.Error("symbol_error",
				logger.String("symbol", symbol),
				logger.Err(err),
			)
		}
	}
}

func (a *Agent) processSymbol(symbol string) error {
	series, err := a.term.Bars(symbol, a.cfg.Timeframe, BarWindow)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}
	if series.Len() == 0 {
		return fmt.Errorf("fetch bars: empty series")
	}

	sig := strategy.Decide(series, a.cfg)
	metrics.SignalsTotal.WithLabelValues(string(sig.Action)).Inc()

	atr := indicator.ATR(series.Highs, series.Lows, series.Closes, a.cfg.ATRPeriod)
	if err := a.trail.Apply(symbol, atr[len(atr)-1]); err != nil {
		return err
	}

	if !sig.Action.Directional() {
		return nil
	}

	positions, err := a.term.Positions(symbol)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}
	owned := 0
	for _, p := range positions {
		if p.Magic == a.cfg.MagicNumber {
			owned++
		}
	}
	if owned >= a.cfg.MaxOpenPositions {
		a.log.Info("position_limit_reached",
			logger.String("symbol", symbol),
			logger.Int("open", owned),
			logger.Int("max", a.cfg.MaxOpenPositions),
		)
		return nil
	}

	close := series.Closes[series.Len()-1]
	stopPips := math.Abs(close-sig.Stop) * pipFactor
	lots := a.sizer.LotSize(stopPips)

	if !a.cfg.LiveTrading {
		a.log.Info("dry_run_decision",
			logger.String("symbol", symbol),
			logger.String("action", string(sig.Action)),
			logger.Float64("lots", lots),
			logger.Float64("stop", sig.Stop),
			logger.Float64("target", sig.Target),
			logger.String("outcome", "dry_run"),
		)
		return nil
	}

	// A rejected order is an outcome, not an error: it is reported and the
	// next cycle re-evaluates the same condition from scratch.
	submitErr := a.term.SubmitOrder(types.OrderRequest{
		Symbol:     symbol,
		Side:       sig.Action,
		Volume:     lots,
		StopLoss:   sig.Stop,
		TakeProfit: sig.Target,
		Magic:      a.cfg.MagicNumber,
		Comment:    orderComment,
	})
	outcome := "ok"
	if submitErr != nil {
		outcome = "fail"
	}
	metrics.OrdersSubmitted.WithLabelValues(symbol, outcome).Inc()
	fields := []logger.Field{
		logger.String("symbol", symbol),
		logger.String("action", string(sig.Action)),
		logger.Float64("lots", lots),
		logger.Float64("stop", sig.Stop),
		logger.Float64("target", sig.Target),
		logger.String("outcome", outcome),
	}
	if submitErr != nil {
		a.log.Error("order_rejected", append(fields, logger.Err(submitErr))...)
	} else {
		a.log.Info("order_submitted", fields...)
	}
	return nil
}
