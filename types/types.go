package types

import (
	"fmt"
	"math"
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type Order struct {
	Symbol string
	Side   Side
	Qty    float64
	Price  float64 // limit price; 0 = market
	// meta
	Comment string
}

// Bar is a single OHLCV candle as delivered by the host data feed.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Closes extracts the closing prices, oldest first.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Interval is the bar cadence a strategy asks the host to run it on.
type Interval string

const (
	Interval1Min  Interval = "1min"
	Interval5Min  Interval = "5min"
	Interval1Hour Interval = "1hour"
	Interval4Hour Interval = "4hour"
	Interval1Day  Interval = "1day"
)

var intervalDurations = map[Interval]time.Duration{
	Interval1Min:  time.Minute,
	Interval5Min:  5 * time.Minute,
	Interval1Hour: time.Hour,
	Interval4Hour: 4 * time.Hour,
	Interval1Day:  24 * time.Hour,
}

func (i Interval) Valid() bool {
	_, ok := intervalDurations[i]
	return ok
}

// Duration returns the wall-clock length of one bar, or 0 for unknown intervals.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

// Allocation maps a ticker to the fraction of portfolio value the strategy
// wants held in it. The host reconciles it into trades.
type Allocation map[string]float64

// Weight returns the target weight for ticker (0 when absent).
func (a Allocation) Weight(ticker string) float64 {
	return a[ticker]
}

// Validate rejects weights outside [0,1] and a total above 1.
func (a Allocation) Validate() error {
	total := 0.0
	for ticker, w := range a {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("allocation for %s out of range: %v", ticker, w)
		}
		total += w
	}
	if total > 1+1e-9 {
		return fmt.Errorf("allocation total %v exceeds 1", total)
	}
	return nil
}
