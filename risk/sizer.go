// Package risk converts account risk tolerance into trade volume.
package risk

import "math"

const (
	// MinLot and MaxLot bound every sized order.
	MinLot = 0.01
	MaxLot = 5.0

	// pipValuePerLot assumes roughly $10 per pip per standard lot, which
	// holds for USD-quoted majors and nothing else. The sizer is a crude
	// fixed-fraction rule, not instrument-aware.
	pipValuePerLot = 10.0
)

// PositionSizer sizes orders from a fixed balance snapshot and a risk
// percentage. The balance is taken once at startup and deliberately never
// refreshed, so sizing drifts from the live balance as PnL accrues.
type PositionSizer struct {
	balance float64
	riskPct float64
}

// NewPositionSizer captures the balance and the per-trade risk percentage.
func NewPositionSizer(balance, riskPct float64) *PositionSizer {
	return &PositionSizer{balance: balance, riskPct: riskPct}
}

// Balance returns the snapshot the sizer was built with.
func (s *PositionSizer) Balance() float64 { return s.balance }

// LotSize returns the volume for a trade whose stop sits stopPips away.
// A degenerate stop distance falls back to the minimum lot rather than
// dividing by zero. The result is clamped to [MinLot, MaxLot] and rounded
// to two decimals.
func (s *PositionSizer) LotSize(stopPips float64) float64 {
	if stopPips <= 0 {
		return MinLot
	}
	riskAmount := s.balance * s.riskPct / 100.0
	lots := riskAmount / (stopPips * pipValuePerLot)
	lots = math.Max(MinLot, math.Min(MaxLot, lots))
	return math.Round(lots*100) / 100
}
