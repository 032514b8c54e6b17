package terminal

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/evdnx/gofx/types"
)

// timeframeMinutes maps the timeframe codes accepted in the configuration
// to the gateway's minute granularity. Unknown codes fall back to M15.
var timeframeMinutes = map[string]int{
	"M1":  1,
	"M5":  5,
	"M15": 15,
	"M30": 30,
	"H1":  60,
	"H4":  240,
	"D1":  1440,
}

// TimeframeMinutes resolves a timeframe code, defaulting to M15.
func TimeframeMinutes(tf string) int {
	if m, ok := timeframeMinutes[tf]; ok {
		return m
	}
	return 15
}

// request and response are the JSON frames exchanged with the gateway.
// Every call carries a fresh id; the gateway echoes it back.
type request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Bridge implements Terminal over a single WebSocket connection to an MT5
// gateway. Calls are serialized: one request in flight at a time, matching
// the agent's single-threaded polling loop.
type Bridge struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
}

// DialBridge connects to the gateway. A dial failure is the caller's fatal
// "terminal unreachable" condition.
func DialBridge(url string, timeout time.Duration) (*Bridge, error) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("terminal: dial %s: %w", url, err)
	}
	return &Bridge{conn: conn, timeout: timeout}, nil
}

// Close shuts the connection down.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.Close()
}

// call sends one request frame and decodes the matching response into out.
func (b *Bridge) call(method string, params interface{}, out interface{}) error {
	var raw json.RawMessage
	if params != nil {
		enc, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("terminal: encode %s params: %w", method, err)
		}
		raw = enc
	}
	req := request{ID: uuid.NewString(), Method: method, Params: raw}

	b.mu.Lock()
	defer b.mu.Unlock()

	deadline := time.Now().Add(b.timeout)
	_ = b.conn.SetWriteDeadline(deadline)
	if err := b.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("terminal: %s: %w", method, err)
	}
	_ = b.conn.SetReadDeadline(deadline)
	for {
		var resp response
		if err := b.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("terminal: %s: %w", method, err)
		}
		if resp.ID != req.ID {
			// Stale frame from an earlier timed-out call; skip it.
			continue
		}
		if resp.Error != "" {
			return fmt.Errorf("terminal: %s: %s", method, resp.Error)
		}
		if out != nil && resp.Result != nil {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("terminal: decode %s result: %w", method, err)
			}
		}
		return nil
	}
}

type barsParams struct {
	Symbol    string `json:"symbol"`
	Timeframe int    `json:"timeframe"`
	Count     int    `json:"count"`
}

type barsResult struct {
	Closes []float64 `json:"closes"`
	Highs  []float64 `json:"highs"`
	Lows   []float64 `json:"lows"`
}

// Bars fetches recent history for a symbol.
func (b *Bridge) Bars(symbol, timeframe string, count int) (types.Series, error) {
	var res barsResult
	err := b.call("bars", barsParams{
		Symbol:    symbol,
		Timeframe: TimeframeMinutes(timeframe),
		Count:     count,
	}, &res)
	if err != nil {
		return types.Series{}, err
	}
	if len(res.Closes) == 0 || len(res.Closes) != len(res.Highs) || len(res.Closes) != len(res.Lows) {
		return types.Series{}, fmt.Errorf("terminal: bars for %s: misaligned series (%d/%d/%d)",
			symbol, len(res.Closes), len(res.Highs), len(res.Lows))
	}
	return types.Series{Closes: res.Closes, Highs: res.Highs, Lows: res.Lows}, nil
}

type balanceResult struct {
	Balance float64 `json:"balance"`
}

// AccountBalance reads the current balance.
func (b *Bridge) AccountBalance() (float64, error) {
	var res balanceResult
	if err := b.call("account_balance", nil, &res); err != nil {
		return 0, err
	}
	return res.Balance, nil
}

type symbolParams struct {
	Symbol string `json:"symbol"`
}

type positionWire struct {
	Ticket     int64   `json:"ticket"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Volume     float64 `json:"volume"`
	StopLoss   float64 `json:"sl"`
	TakeProfit float64 `json:"tp"`
	Magic      int64   `json:"magic"`
}

// Positions lists open positions for a symbol.
func (b *Bridge) Positions(symbol string) ([]types.Position, error) {
	var res []positionWire
	if err := b.call("positions", symbolParams{Symbol: symbol}, &res); err != nil {
		return nil, err
	}
	out := make([]types.Position, 0, len(res))
	for _, p := range res {
		out = append(out, types.Position{
			Ticket:     p.Ticket,
			Symbol:     p.Symbol,
			Side:       types.Action(p.Side),
			Volume:     p.Volume,
			StopLoss:   p.StopLoss,
			TakeProfit: p.TakeProfit,
			Magic:      p.Magic,
		})
	}
	return out, nil
}

type quoteWire struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Quote returns the latest tick for a symbol.
func (b *Bridge) Quote(symbol string) (types.Quote, error) {
	var res quoteWire
	if err := b.call("quote", symbolParams{Symbol: symbol}, &res); err != nil {
		return types.Quote{}, err
	}
	return types.Quote{Bid: res.Bid, Ask: res.Ask}, nil
}

type orderParams struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Volume     float64 `json:"volume"`
	StopLoss   float64 `json:"sl"`
	TakeProfit float64 `json:"tp"`
	Magic      int64   `json:"magic"`
	Comment    string  `json:"comment"`
}

// SubmitOrder places a market order.
func (b *Bridge) SubmitOrder(req types.OrderRequest) error {
	return b.call("order_submit", orderParams{
		Symbol:     req.Symbol,
		Side:       string(req.Side),
		Volume:     req.Volume,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Magic:      req.Magic,
		Comment:    req.Comment,
	}, nil)
}

type modifyParams struct {
	Ticket     int64   `json:"ticket"`
	StopLoss   float64 `json:"sl"`
	TakeProfit float64 `json:"tp"`
}

// ModifyStop tightens the stop of an open position.
func (b *Bridge) ModifyStop(ticket int64, stop, takeProfit float64) error {
	return b.call("order_modify_stop", modifyParams{
		Ticket:     ticket,
		StopLoss:   stop,
		TakeProfit: takeProfit,
	}, nil)
}

var _ Terminal = (*Bridge)(nil)
