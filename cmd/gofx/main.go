package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evdnx/gofx/agent"
	"github.com/evdnx/gofx/config"
	"github.com/evdnx/gofx/logger"
	"github.com/evdnx/gofx/terminal"
)

const bridgeTimeout = 30 * time.Second

func main() {
	// .env is optional; flags win over env, env over defaults.
	_ = godotenv.Load()

	configB64 := flag.String("config-b64", "", "base64-encoded JSON strategy config (required)")
	pollSeconds := flag.Int("poll-seconds", 30, "seconds between polling cycles (floor 5)")
	dryRun := flag.Bool("dry-run", false, "force live trading off regardless of config")
	bridgeURL := flag.String("bridge-url", envOr("GOFX_BRIDGE_URL", "ws://127.0.0.1:8765/ws"), "MT5 gateway WebSocket URL")
	metricsAddr := flag.String("metrics-addr", envOr("GOFX_METRICS_ADDR", ":9464"), "prometheus listen address")
	flag.Parse()

	if *configB64 == "" {
		fatal("missing required -config-b64 flag")
	}

	cfg, err := config.DecodeBase64(*configB64)
	if err != nil {
		fatal(err.Error())
	}
	if *dryRun {
		cfg.LiveTrading = false
	}

	log, err := logger.NewZapLogger()
	if err != nil {
		fatal(fmt.Sprintf("logger init failed: %v", err))
	}

	bridge, err := terminal.DialBridge(*bridgeURL, bridgeTimeout)
	if err != nil {
		fatal(fmt.Sprintf("terminal unreachable: %v", err))
	}
	defer bridge.Close()

	a, err := agent.New(cfg, bridge, log, agent.PollInterval(*pollSeconds))
	if err != nil {
		fatal(err.Error())
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			log.Warn("metrics_server_stopped", logger.Err(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		fatal(err.Error())
	}
	log.Info("agent_stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "gofx: "+msg)
	os.Exit(1)
}
