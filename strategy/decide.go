// Package strategy holds the signal decision rule and the trailing stop
// manager. Decide is pure; TrailingStop talks to the terminal.
package strategy

import (
	"github.com/evdnx/gofx/config"
	"github.com/evdnx/gofx/indicator"
	"github.com/evdnx/gofx/types"
)

// RSI entry thresholds. Fixed alongside the rest of the rule set.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Decide classifies the most recent bar of the series: a BUY when the fast
// EMA sits above the slow one while RSI reads oversold, a SELL in the
// mirrored case, HOLD otherwise. Stops sit an ATR multiple away from the
// close and the target is an R-multiple of the stop distance.
//
// Short series are not rejected; the indicator windows simply have not
// grown to full size yet, so callers should supply a few hundred bars of
// history for readings worth acting on.
func Decide(s types.Series, cfg config.Config) types.Signal {
	emaFast := indicator.EMA(s.Closes, cfg.EMAFast)
	emaSlow := indicator.EMA(s.Closes, cfg.EMASlow)
	rsi := indicator.RSI(s.Closes, cfg.RSIPeriod)
	atr := indicator.ATR(s.Highs, s.Lows, s.Closes, cfg.ATRPeriod)

	i := s.Len() - 1
	biasUp := emaFast[i] > emaSlow[i]
	biasDown := emaFast[i] < emaSlow[i]
	oversold := rsi[i] < rsiOversold
	overbought := rsi[i] > rsiOverbought

	close := s.Closes[i]
	switch {
	case biasUp && oversold:
		stop := close - atr[i]*cfg.ATRStopMultiplier
		return types.Signal{
			Action: types.Buy,
			Stop:   stop,
			Target: close + (close-stop)*cfg.TakeProfitRMultiple,
		}
	case biasDown && overbought:
		stop := close + atr[i]*cfg.ATRStopMultiplier
		return types.Signal{
			Action: types.Sell,
			Stop:   stop,
			Target: close - (stop-close)*cfg.TakeProfitRMultiple,
		}
	}
	return types.Signal{Action: types.Hold}
}
