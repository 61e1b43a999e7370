package strategy

import (
	"math"

	"github.com/evdnx/gorsi/types"
)

// Strategy is the contract the host runtime drives. The host fetches data for
// Assets at the cadence given by Interval, calls Run with a snapshot, and
// reconciles the returned allocation into trades.
type Strategy interface {
	Assets() []string
	Interval() types.Interval
	Run(snap Snapshot) (types.Allocation, error)
}

// Snapshot is the host-supplied market data for one run: OHLCV bars per
// ticker, oldest first.
type Snapshot struct {
	OHLCV map[string][]types.Bar
}

// NewSnapshot builds a single-ticker snapshot.
func NewSnapshot(ticker string, bars []types.Bar) Snapshot {
	return Snapshot{OHLCV: map[string][]types.Bar{ticker: bars}}
}

// Bars returns the bars for ticker (nil if the host sent none).
func (s Snapshot) Bars(ticker string) []types.Bar {
	return s.OHLCV[ticker]
}

// Signal classifies the latest RSI reading.
type Signal string

const (
	SignalNone       Signal = "none" // no usable RSI value
	SignalOversold   Signal = "oversold"
	SignalOverbought Signal = "overbought"
	SignalNeutral    Signal = "neutral"
)

// Decision is the outcome of one evaluation.
type Decision struct {
	Signal Signal
	RSI    float64 // latest value; meaningless when Signal is SignalNone
	Weight float64
}

// Decide maps an RSI series onto a binary target weight. Only the last value
// matters: strictly below oversold means fully invested, anything else
// (overbought, neutral, or no data) means fully divested.
func Decide(rsi []float64, oversold, overbought float64) Decision {
	if len(rsi) == 0 {
		return Decision{Signal: SignalNone}
	}
	latest := rsi[len(rsi)-1]
	switch {
	case math.IsNaN(latest):
		return Decision{Signal: SignalNone}
	case latest < oversold:
		return Decision{Signal: SignalOversold, RSI: latest, Weight: 1}
	case latest > overbought:
		return Decision{Signal: SignalOverbought, RSI: latest, Weight: 0}
	default:
		return Decision{Signal: SignalNeutral, RSI: latest, Weight: 0}
	}
}
