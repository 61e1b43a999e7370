package strategy

import (
	"testing"
	"time"

	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/indicator"
	"github.com/evdnx/gorsi/testutils"
	"github.com/evdnx/gorsi/types"
)

// candle represents a single OHLCV bar that the tests feed to the strategy.
type candle struct {
	high, low, close, volume float64
}

// feedBars sends a slice of candles to the supplied strategy instance.
func feedBars(strat interface {
	ProcessBar(high, low, close, volume float64)
}, bars []candle) {
	for _, b := range bars {
		strat.ProcessBar(b.high, b.low, b.close, b.volume)
	}
}

// rampCandles builds n candles starting at start and moving by step per bar.
func rampCandles(start, step float64, n int) []candle {
	out := make([]candle, n)
	for i := range out {
		price := start + step*float64(i)
		out[i] = candle{high: price + 0.5, low: price - 0.5, close: price, volume: 1000}
	}
	return out
}

func toBars(cs []candle) []types.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]types.Bar, len(cs))
	for i, c := range cs {
		out[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c.close,
			High:   c.high,
			Low:    c.low,
			Close:  c.close,
			Volume: c.volume,
		}
	}
	return out
}

// buildThreshold wires an RSIThreshold to a canned RSI series for the
// default ticker.
func buildThreshold(t *testing.T, rsi ...float64) (*RSIThreshold, *testutils.StaticProvider, *testutils.MockLogger) {
	t.Helper()
	cfg := config.Default()
	prov := testutils.NewStaticProvider(cfg.Ticker, rsi...)
	log := testutils.NewMockLogger()
	s, err := NewRSIThreshold(cfg, prov, log)
	if err != nil {
		t.Fatalf("NewRSIThreshold failed: %v", err)
	}
	return s, prov, log
}

// buildTalibThreshold wires an RSIThreshold to the real talib provider.
func buildTalibThreshold(t *testing.T) *RSIThreshold {
	t.Helper()
	s, err := NewRSIThreshold(config.Default(), indicator.NewTalib(), testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("NewRSIThreshold failed: %v", err)
	}
	return s
}

func buildStreaming(t *testing.T) (*Streaming, *testutils.MockLogger) {
	t.Helper()
	log := testutils.NewMockLogger()
	s, err := NewStreaming(config.Default(), log)
	if err != nil {
		t.Fatalf("NewStreaming failed: %v", err)
	}
	return s, log
}
