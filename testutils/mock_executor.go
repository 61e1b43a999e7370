package testutils

import (
	"errors"
	"sync"

	"github.com/evdnx/gorsi/types"
)

// MockExecutor implements the Executor interface in‑memory.
type MockExecutor struct {
	mu        sync.RWMutex
	equity    float64
	positions map[string]float64
	avgPrice  map[string]float64
	orders    []types.Order // captured for assertions

	// FailNext makes the next Submit return an error without filling.
	FailNext bool
}

// NewMockExecutor creates a fresh executor with the supplied starting equity.
func NewMockExecutor(startEquity float64) *MockExecutor {
	return &MockExecutor{
		equity:    startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
	}
}

// Submit records the order and updates cash/position like PaperExecutor,
// minus the cash check.
func (m *MockExecutor) Submit(o types.Order) error {
	if o.Qty == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return errors.New("mock executor: forced failure")
	}

	cost := o.Price * o.Qty
	if o.Side == types.Buy {
		prevQty := m.positions[o.Symbol]
		m.equity -= cost
		m.positions[o.Symbol] = prevQty + o.Qty
		m.avgPrice[o.Symbol] = (m.avgPrice[o.Symbol]*prevQty + cost) / m.positions[o.Symbol]
	} else {
		m.equity += cost
		m.positions[o.Symbol] -= o.Qty
		if m.positions[o.Symbol] == 0 {
			delete(m.avgPrice, o.Symbol)
		}
	}
	m.orders = append(m.orders, o)
	return nil
}

// Equity returns the current cash balance.
func (m *MockExecutor) Equity() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.equity
}

// Position returns qty & avg price for a symbol.
func (m *MockExecutor) Position(symbol string) (float64, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[symbol], m.avgPrice[symbol]
}

// Orders returns a copy of all submitted orders (useful for assertions).
func (m *MockExecutor) Orders() []types.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}
