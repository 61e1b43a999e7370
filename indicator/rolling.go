package indicator

import (
	"fmt"
	"math"

	"github.com/evdnx/goti"
)

// Rolling maintains an RSI incrementally, one close at a time, for hosts that
// stream bars instead of handing over a full history.
type Rolling struct {
	length int
	rsi    *goti.RelativeStrengthIndex
	count  int
}

// NewRolling builds a rolling RSI. The thresholds are only used by goti for
// its own crossover helpers and must satisfy oversold < overbought.
func NewRolling(length int, oversold, overbought float64) (*Rolling, error) {
	if length < 2 {
		return nil, fmt.Errorf("rolling rsi: %w (got %d)", ErrBadLength, length)
	}
	if oversold >= overbought {
		return nil, fmt.Errorf("rolling rsi: oversold %v must be below overbought %v", oversold, overbought)
	}
	ic := goti.DefaultConfig()
	ic.RSIOversold = oversold
	ic.RSIOverbought = overbought
	rsi, err := goti.NewRelativeStrengthIndexWithParams(length, ic)
	if err != nil {
		return nil, fmt.Errorf("rolling rsi: %w", err)
	}
	return &Rolling{length: length, rsi: rsi}, nil
}

// Add feeds the next closing price.
func (r *Rolling) Add(close float64) error {
	if close < 0 || math.IsNaN(close) || math.IsInf(close, 0) {
		return fmt.Errorf("rolling rsi: invalid close %v", close)
	}
	if err := r.rsi.Add(close); err != nil {
		return err
	}
	r.count++
	return nil
}

// Ready reports whether at least one RSI value has been produced.
func (r *Rolling) Ready() bool {
	return r.count > r.length
}

// Values returns the recent RSI values, oldest first. goti keeps at most
// length of them.
func (r *Rolling) Values() []float64 {
	if !r.Ready() {
		return nil
	}
	return r.rsi.GetRSIValues()
}

// Last returns the latest RSI value; ok is false during warm-up.
func (r *Rolling) Last() (float64, bool) {
	if !r.Ready() {
		return 0, false
	}
	v, err := r.rsi.Calculate()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Reset drops all history.
func (r *Rolling) Reset() {
	r.rsi.Reset()
	r.count = 0
}
