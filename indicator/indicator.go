// Package indicator provides the technical indicator math used by the
// signal engine: EMA, RSI, True Range and ATR. All functions are pure and
// operate over full price slices, oldest bar first, returning a slice of
// the same length as the input.
package indicator

import "math"

// EMA computes an exponential moving average with smoothing 2/(period+1).
// The first output equals the first input value.
func EMA(values []float64, period int) []float64 {
	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values))
	var prev float64
	for i, v := range values {
		if i == 0 {
			prev = v
		} else {
			prev = (v-prev)*k + prev
		}
		out = append(out, prev)
	}
	return out
}

// RSI computes the relative strength index using simple averages of gains
// and losses over a trailing window. The window grows from one bar until
// `period` bars have accumulated, then slides.
//
// When the average loss is zero the ratio rs is defined as 0 and the
// output is a neutral 50, even if the window saw gains. This conflates
// "no losses yet" with "no momentum" but it is what the signal rules are
// tuned against, so it stays.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gains[i] = math.Max(change, 0)
		losses[i] = math.Max(-change, 0)
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		avgGain := windowMean(gains, period, i)
		avgLoss := windowMean(losses, period, i)
		rs := 0.0
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		if rs == 0 {
			out = append(out, 50.0)
		} else {
			out = append(out, 100.0-100.0/(1.0+rs))
		}
	}
	return out
}

// TrueRange is the largest of the bar range and the two gaps against the
// previous close.
func TrueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if v := math.Abs(high - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(low - prevClose); v > tr {
		tr = v
	}
	return tr
}

// ATR computes the average true range as a simple moving average of
// TrueRange over a trailing window of at most `period` bars. The first bar
// uses its own close as the previous close, so ATR[0] is high-low.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(highs)
	trs := make([]float64, n)
	for i := 0; i < n; i++ {
		prevClose := closes[i]
		if i > 0 {
			prevClose = closes[i-1]
		}
		trs[i] = TrueRange(highs[i], lows[i], prevClose)
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, windowMean(trs, period, i))
	}
	return out
}

// windowMean averages vals over [max(0, idx-period+1), idx].
func windowMean(vals []float64, period, idx int) float64 {
	start := idx - period + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range vals[start : idx+1] {
		sum += v
	}
	return sum / float64(idx+1-start)
}
