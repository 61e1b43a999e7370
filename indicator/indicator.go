// Package indicator holds the host-side indicator adapters. The strategy never
// computes an RSI itself; it asks a Provider, which the host supplies.
package indicator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"github.com/evdnx/gorsi/types"
)

// ErrBadLength is returned for lookback lengths below 2.
var ErrBadLength = errors.New("indicator: length must be at least 2")

// Provider computes indicators over host-supplied bars.
type Provider interface {
	// RSI returns the RSI series for ticker, oldest first. Only fully
	// warmed-up values are returned, so the slice is empty until more than
	// length bars are available.
	RSI(ticker string, bars []types.Bar, length int) ([]float64, error)
}

// Talib is a Provider backed by go-talib (Wilder smoothing).
type Talib struct{}

func NewTalib() Talib { return Talib{} }

func (Talib) RSI(ticker string, bars []types.Bar, length int) ([]float64, error) {
	if length < 2 {
		return nil, fmt.Errorf("rsi %s: %w (got %d)", ticker, ErrBadLength, length)
	}
	if len(bars) <= length {
		return []float64{}, nil
	}
	closes := types.Closes(bars)
	for i, c := range closes {
		if c < 0 {
			return nil, fmt.Errorf("rsi %s: negative close %v at bar %d", ticker, c, i)
		}
	}
	out := talib.Rsi(closes, length)
	// talib divides 0/0 into 0 while prices have not moved yet; report that
	// as neutral, the same as goti
	moved := false
	for i := 1; i < len(closes); i++ {
		if closes[i] != closes[i-1] {
			moved = true
		}
		if i >= length && !moved {
			out[i] = 50
		}
	}
	// talib leaves the first length slots zeroed for warm-up
	return out[length:], nil
}
