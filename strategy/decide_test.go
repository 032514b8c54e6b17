package strategy

import (
	"math"
	"testing"

	"github.com/evdnx/gofx/config"
	"github.com/evdnx/gofx/indicator"
	"github.com/evdnx/gofx/types"
)

func testConfig() config.Config {
	return config.Config{
		Symbols:             []string{"EURUSD"},
		Timeframe:           "M15",
		RiskPerTradePct:     1.0,
		MaxOpenPositions:    2,
		EMAFast:             5,
		EMASlow:             20,
		RSIPeriod:           14,
		ATRPeriod:           14,
		ATRStopMultiplier:   1.5,
		TakeProfitRMultiple: 2.0,
		TrailingStopATR:     1.0,
		LiveTrading:         false,
		MagicNumber:         990017,
	}
}

// seriesAround builds a series whose highs and lows hug the closes.
func seriesAround(closes []float64) types.Series {
	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	for i, c := range closes {
		highs[i] = c + 0.2
		lows[i] = c - 0.2
	}
	return types.Series{Closes: closes, Highs: highs, Lows: lows}
}

// rampThenDip rises by 1 per bar, adds one small gain, then bleeds off in
// small steps. The fast EMA stays above the slow one from the long ramp
// while the recent losses drag RSI deep below 30.
func rampThenDip() types.Series {
	closes := make([]float64, 0, 54)
	for i := 0; i < 40; i++ {
		closes = append(closes, 100+float64(i))
	}
	closes = append(closes, closes[len(closes)-1]+0.5)
	for i := 0; i < 13; i++ {
		closes = append(closes, closes[len(closes)-1]-0.3)
	}
	return seriesAround(closes)
}

// dropThenBounce mirrors rampThenDip for the short side.
func dropThenBounce() types.Series {
	closes := make([]float64, 0, 54)
	for i := 0; i < 40; i++ {
		closes = append(closes, 200-float64(i))
	}
	closes = append(closes, closes[len(closes)-1]-0.5)
	for i := 0; i < 13; i++ {
		closes = append(closes, closes[len(closes)-1]+0.3)
	}
	return seriesAround(closes)
}

func TestDecideFlatSeriesHolds(t *testing.T) {
	flat := []float64{1, 1, 1, 1, 1}
	s := types.Series{Closes: flat, Highs: flat, Lows: flat}
	sig := Decide(s, testConfig())
	if sig.Action != types.Hold {
		t.Fatalf("flat series must HOLD, got %s", sig.Action)
	}
	if sig.Stop != 0 || sig.Target != 0 {
		t.Fatalf("HOLD must carry no levels, got stop=%v target=%v", sig.Stop, sig.Target)
	}
}

// A monotonic ramp keeps the trend bias up, but RSI never reads oversold,
// so the bias alone must not trigger an entry.
func TestDecideRisingSeriesHolds(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	sig := Decide(seriesAround(closes), testConfig())
	if sig.Action != types.Hold {
		t.Fatalf("rising series must HOLD, got %s", sig.Action)
	}
}

func TestDecideBuy(t *testing.T) {
	cfg := testConfig()
	s := rampThenDip()
	sig := Decide(s, cfg)
	if sig.Action != types.Buy {
		t.Fatalf("expected BUY, got %s", sig.Action)
	}

	i := s.Len() - 1
	close := s.Closes[i]
	atr := indicator.ATR(s.Highs, s.Lows, s.Closes, cfg.ATRPeriod)[i]
	wantStop := close - atr*cfg.ATRStopMultiplier
	wantTarget := close + (close-wantStop)*cfg.TakeProfitRMultiple
	if math.Abs(sig.Stop-wantStop) > 1e-9 || math.Abs(sig.Target-wantTarget) > 1e-9 {
		t.Fatalf("levels mismatch: stop=%v want %v, target=%v want %v",
			sig.Stop, wantStop, sig.Target, wantTarget)
	}
	if !(sig.Stop < close && close < sig.Target) {
		t.Fatalf("BUY levels must bracket the close: stop=%v close=%v target=%v",
			sig.Stop, close, sig.Target)
	}
}

func TestDecideSell(t *testing.T) {
	cfg := testConfig()
	s := dropThenBounce()
	sig := Decide(s, cfg)
	if sig.Action != types.Sell {
		t.Fatalf("expected SELL, got %s", sig.Action)
	}
	close := s.Closes[s.Len()-1]
	if !(sig.Target < close && close < sig.Stop) {
		t.Fatalf("SELL levels must bracket the close: target=%v close=%v stop=%v",
			sig.Target, close, sig.Stop)
	}
}

func TestDecideIsPure(t *testing.T) {
	cfg := testConfig()
	s := rampThenDip()
	first := Decide(s, cfg)
	second := Decide(s, cfg)
	if first != second {
		t.Fatalf("identical inputs produced different signals: %+v vs %+v", first, second)
	}
}

// When both EMAs land on exactly the same value neither bias holds.
func TestDecideEqualEMAsHold(t *testing.T) {
	flat := []float64{3, 3, 3, 3, 3, 3, 3, 3}
	s := types.Series{Closes: flat, Highs: flat, Lows: flat}
	if sig := Decide(s, testConfig()); sig.Action != types.Hold {
		t.Fatalf("equal EMAs must HOLD, got %s", sig.Action)
	}
}

func TestDecideShortSeriesNotRejected(t *testing.T) {
	one := []float64{1.5}
	s := types.Series{Closes: one, Highs: one, Lows: one}
	if sig := Decide(s, testConfig()); sig.Action != types.Hold {
		t.Fatalf("single-bar series should HOLD, got %s", sig.Action)
	}
}
