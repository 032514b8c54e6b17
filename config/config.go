// Package config decodes and validates the strategy configuration. The
// configuration travels as a base64-encoded JSON blob so a supervisor can
// hand it to the process as a single opaque flag value.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Config holds all strategy parameters. It is decoded once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	Symbols   []string
	Timeframe string

	// Risk parameters
	RiskPerTradePct  float64
	MaxOpenPositions int

	// Indicator periods
	EMAFast   int
	EMASlow   int
	RSIPeriod int
	ATRPeriod int

	// Stop / target geometry
	ATRStopMultiplier   float64
	TakeProfitRMultiple float64
	TrailingStopATR     float64

	// Accepted and reported but not enforced by any control loop yet.
	DailyLossLimitPct float64
	MaxDrawdownPct    float64

	LiveTrading bool
	MagicNumber int64
}

// wireConfig is the JSON shape of the encoded blob. Symbols arrive as a
// single comma-separated string.
type wireConfig struct {
	Symbols             string  `json:"symbols"`
	Timeframe           string  `json:"timeframe"`
	RiskPerTradePct     float64 `json:"riskPerTradePct"`
	MaxOpenPositions    int     `json:"maxOpenPositions"`
	EMAFast             int     `json:"emaFast"`
	EMASlow             int     `json:"emaSlow"`
	RSIPeriod           int     `json:"rsiPeriod"`
	ATRPeriod           int     `json:"atrPeriod"`
	ATRStopMultiplier   float64 `json:"atrStopMultiplier"`
	TakeProfitRMultiple float64 `json:"takeProfitRMultiple"`
	TrailingStopATR     float64 `json:"trailingStopATR"`
	DailyLossLimitPct   float64 `json:"dailyLossLimitPct"`
	MaxDrawdownPct      float64 `json:"maxDrawdownPct"`
	LiveTrading         bool    `json:"liveTrading"`
	MagicNumber         int64   `json:"magicNumber"`
}

// DecodeBase64 decodes the blob, normalizes the symbol list and validates
// the result.
func DecodeBase64(blob string) (Config, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid base64: %w", err)
	}
	var w wireConfig
	if err := json.Unmarshal(raw, &w); err != nil {
		return Config{}, fmt.Errorf("config: invalid JSON: %w", err)
	}
	cfg := Config{
		Symbols:             splitSymbols(w.Symbols),
		Timeframe:           strings.ToUpper(strings.TrimSpace(w.Timeframe)),
		RiskPerTradePct:     w.RiskPerTradePct,
		MaxOpenPositions:    w.MaxOpenPositions,
		EMAFast:             w.EMAFast,
		EMASlow:             w.EMASlow,
		RSIPeriod:           w.RSIPeriod,
		ATRPeriod:           w.ATRPeriod,
		ATRStopMultiplier:   w.ATRStopMultiplier,
		TakeProfitRMultiple: w.TakeProfitRMultiple,
		TrailingStopATR:     w.TrailingStopATR,
		DailyLossLimitPct:   w.DailyLossLimitPct,
		MaxDrawdownPct:      w.MaxDrawdownPct,
		LiveTrading:         w.LiveTrading,
		MagicNumber:         w.MagicNumber,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitSymbols turns "eurusd, gbpusd" into ["EURUSD", "GBPUSD"].
func splitSymbols(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p))
	}
	return out
}

// Validate checks that all fields are within sensible bounds, returning the
// first problem found so a broken deployment fails before any trading.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("config: at least one symbol is required")
	}
	if c.Timeframe == "" {
		return errors.New("config: timeframe is required")
	}
	if c.RiskPerTradePct <= 0 || c.RiskPerTradePct > 10 {
		return fmt.Errorf("config: riskPerTradePct (%v) must be >0 and <=10", c.RiskPerTradePct)
	}
	if c.MaxOpenPositions <= 0 {
		return errors.New("config: maxOpenPositions must be positive")
	}
	if c.EMAFast <= 0 || c.EMASlow <= 0 {
		return errors.New("config: EMA periods must be positive")
	}
	if c.EMAFast >= c.EMASlow {
		return fmt.Errorf("config: emaFast (%d) must be shorter than emaSlow (%d)", c.EMAFast, c.EMASlow)
	}
	if c.RSIPeriod <= 0 {
		return errors.New("config: rsiPeriod must be positive")
	}
	if c.ATRPeriod <= 0 {
		return errors.New("config: atrPeriod must be positive")
	}
	if c.ATRStopMultiplier <= 0 {
		return errors.New("config: atrStopMultiplier must be positive")
	}
	if c.TakeProfitRMultiple <= 0 {
		return errors.New("config: takeProfitRMultiple must be positive")
	}
	if c.TrailingStopATR < 0 {
		return errors.New("config: trailingStopATR cannot be negative")
	}
	if c.DailyLossLimitPct < 0 {
		return errors.New("config: dailyLossLimitPct cannot be negative")
	}
	if c.MaxDrawdownPct < 0 {
		return errors.New("config: maxDrawdownPct cannot be negative")
	}
	if c.MagicNumber <= 0 {
		return errors.New("config: magicNumber must be positive")
	}
	return nil
}
