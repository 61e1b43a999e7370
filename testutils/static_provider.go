package testutils

import (
	"sync"

	"github.com/evdnx/gorsi/types"
)

// StaticProvider is an indicator provider that returns canned RSI series
// per ticker and records the requests it receives.
type StaticProvider struct {
	mu     sync.Mutex
	Series map[string][]float64
	Err    error

	Calls []ProviderCall
}

// ProviderCall is one recorded RSI request.
type ProviderCall struct {
	Ticker string
	Bars   int
	Length int
}

// NewStaticProvider returns a provider answering with the given series for ticker.
func NewStaticProvider(ticker string, rsi ...float64) *StaticProvider {
	return &StaticProvider{Series: map[string][]float64{ticker: rsi}}
}

func (p *StaticProvider) RSI(ticker string, bars []types.Bar, length int) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, ProviderCall{Ticker: ticker, Bars: len(bars), Length: length})
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]float64(nil), p.Series[ticker]...), nil
}
