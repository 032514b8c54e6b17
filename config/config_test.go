package config

import (
	"encoding/base64"
	"strings"
	"testing"
)

const sampleJSON = `{
	"symbols": "eurusd, gbpusd ,usdjpy",
	"timeframe": "m15",
	"riskPerTradePct": 1.0,
	"maxOpenPositions": 2,
	"emaFast": 12,
	"emaSlow": 26,
	"rsiPeriod": 14,
	"atrPeriod": 14,
	"atrStopMultiplier": 1.5,
	"takeProfitRMultiple": 2.0,
	"trailingStopATR": 1.0,
	"dailyLossLimitPct": 3.0,
	"maxDrawdownPct": 10.0,
	"liveTrading": true,
	"magicNumber": 990017
}`

func encode(t *testing.T, js string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(js))
}

func TestDecodeBase64(t *testing.T) {
	cfg, err := DecodeBase64(encode(t, sampleJSON))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := []string{"EURUSD", "GBPUSD", "USDJPY"}
	if len(cfg.Symbols) != len(want) {
		t.Fatalf("expected %d symbols, got %v", len(want), cfg.Symbols)
	}
	for i, s := range want {
		if cfg.Symbols[i] != s {
			t.Errorf("symbol %d: got %q want %q", i, cfg.Symbols[i], s)
		}
	}
	if cfg.Timeframe != "M15" {
		t.Errorf("timeframe not normalized: %q", cfg.Timeframe)
	}
	if !cfg.LiveTrading {
		t.Error("liveTrading should be true")
	}
	if cfg.MagicNumber != 990017 {
		t.Errorf("unexpected magic number: %d", cfg.MagicNumber)
	}
}

func TestDecodeBase64RejectsGarbage(t *testing.T) {
	if _, err := DecodeBase64("%%%not-base64%%%"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := DecodeBase64(encode(t, "{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValidateFailsOnEmptySymbols(t *testing.T) {
	js := strings.Replace(sampleJSON, `"eurusd, gbpusd ,usdjpy"`, `" , "`, 1)
	if _, err := DecodeBase64(encode(t, js)); err == nil {
		t.Fatal("expected validation error for empty symbol list")
	}
}

func TestValidateFailsOnBadRisk(t *testing.T) {
	js := strings.Replace(sampleJSON, `"riskPerTradePct": 1.0`, `"riskPerTradePct": -1.0`, 1)
	if _, err := DecodeBase64(encode(t, js)); err == nil {
		t.Fatal("expected validation error for negative riskPerTradePct")
	}
}

func TestValidateFailsOnInvertedEMAPeriods(t *testing.T) {
	js := strings.Replace(sampleJSON, `"emaFast": 12`, `"emaFast": 50`, 1)
	if _, err := DecodeBase64(encode(t, js)); err == nil {
		t.Fatal("expected validation error when emaFast >= emaSlow")
	}
}

func TestValidateFailsOnMissingMagic(t *testing.T) {
	js := strings.Replace(sampleJSON, `"magicNumber": 990017`, `"magicNumber": 0`, 1)
	if _, err := DecodeBase64(encode(t, js)); err == nil {
		t.Fatal("expected validation error for zero magicNumber")
	}
}
