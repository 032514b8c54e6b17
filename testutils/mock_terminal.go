package testutils

import (
	"sync"

	"github.com/evdnx/gofx/types"
)

// StopModification records one ModifyStop call for assertions.
type StopModification struct {
	Ticket     int64
	StopLoss   float64
	TakeProfit float64
}

// MockTerminal implements terminal.Terminal in-memory. Tests preload series,
// quotes and positions per symbol and inspect the captured orders and stop
// modifications afterwards. Errors can be injected per method and symbol.
type MockTerminal struct {
	mu sync.Mutex

	Balance    float64
	BalanceErr error

	series    map[string]types.Series
	quotes    map[string]types.Quote
	positions map[string][]types.Position

	barsErr   map[string]error
	submitErr error
	modifyErr error

	orders        []types.OrderRequest
	modifications []StopModification
}

// NewMockTerminal creates an empty terminal with the given balance.
func NewMockTerminal(balance float64) *MockTerminal {
	return &MockTerminal{
		Balance:   balance,
		series:    make(map[string]types.Series),
		quotes:    make(map[string]types.Quote),
		positions: make(map[string][]types.Position),
		barsErr:   make(map[string]error),
	}
}

// SetSeries installs the bar history returned for a symbol.
func (m *MockTerminal) SetSeries(symbol string, s types.Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[symbol] = s
}

// SetQuote installs the quote returned for a symbol.
func (m *MockTerminal) SetQuote(symbol string, q types.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = q
}

// SetPositions installs the open positions returned for a symbol.
func (m *MockTerminal) SetPositions(symbol string, ps []types.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[symbol] = ps
}

// FailBars makes Bars return err for a symbol.
func (m *MockTerminal) FailBars(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.barsErr[symbol] = err
}

// FailSubmit makes every SubmitOrder return err.
func (m *MockTerminal) FailSubmit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitErr = err
}

// FailModify makes every ModifyStop return err.
func (m *MockTerminal) FailModify(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modifyErr = err
}

func (m *MockTerminal) Bars(symbol, timeframe string, count int) (types.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.barsErr[symbol]; err != nil {
		return types.Series{}, err
	}
	return m.series[symbol], nil
}

func (m *MockTerminal) AccountBalance() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BalanceErr != nil {
		return 0, m.BalanceErr
	}
	return m.Balance, nil
}

func (m *MockTerminal) Positions(symbol string) ([]types.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Position, len(m.positions[symbol]))
	copy(out, m.positions[symbol])
	return out, nil
}

func (m *MockTerminal) Quote(symbol string) (types.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quotes[symbol], nil
}

func (m *MockTerminal) SubmitOrder(req types.OrderRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return m.submitErr
	}
	m.orders = append(m.orders, req)
	return nil
}

func (m *MockTerminal) ModifyStop(ticket int64, stop, takeProfit float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modifyErr != nil {
		return m.modifyErr
	}
	m.modifications = append(m.modifications, StopModification{
		Ticket:     ticket,
		StopLoss:   stop,
		TakeProfit: takeProfit,
	})
	// Keep the stored position in sync so repeated trailing passes see the
	// tightened stop, like the real terminal would.
	for sym, ps := range m.positions {
		for i := range ps {
			if ps[i].Ticket == ticket {
				ps[i].StopLoss = stop
				m.positions[sym] = ps
			}
		}
	}
	return nil
}

// Orders returns a copy of all captured order requests.
func (m *MockTerminal) Orders() []types.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.OrderRequest, len(m.orders))
	copy(out, m.orders)
	return out
}

// Modifications returns a copy of all captured stop modifications.
func (m *MockTerminal) Modifications() []StopModification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StopModification, len(m.modifications))
	copy(out, m.modifications)
	return out
}
