package strategy

import (
	"fmt"

	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/indicator"
	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/types"
)

// RSIThreshold goes fully long when RSI is oversold and flat otherwise.
// It is stateless: every Run depends only on the snapshot it is given.
type RSIThreshold struct {
	*BaseStrategy
	Indicators indicator.Provider
}

var _ Strategy = (*RSIThreshold)(nil)

// NewRSIThreshold wires the host's indicator provider into the strategy.
func NewRSIThreshold(cfg config.StrategyConfig, ind indicator.Provider,
	log logger.Logger) (*RSIThreshold, error) {

	if ind == nil {
		return nil, fmt.Errorf("rsi threshold: nil indicator provider")
	}
	base, err := NewBaseStrategy(cfg, log)
	if err != nil {
		return nil, err
	}
	return &RSIThreshold{BaseStrategy: base, Indicators: ind}, nil
}

// Run reads the latest RSI for the configured ticker and returns the target
// allocation. Missing or short data yields a zero weight, not an error.
func (s *RSIThreshold) Run(snap Snapshot) (types.Allocation, error) {
	_, alloc, err := s.Evaluate(snap)
	return alloc, err
}

// Evaluate is Run that also returns the Decision behind the allocation, for
// hosts that report the signal alongside the weight.
func (s *RSIThreshold) Evaluate(snap Snapshot) (Decision, types.Allocation, error) {
	ticker := s.Cfg.Ticker
	rsi, err := s.Indicators.RSI(ticker, snap.Bars(ticker), s.Cfg.RSILength)
	if err != nil {
		s.Log.Error("rsi_unavailable", logger.String("ticker", ticker), logger.Err(err))
		return Decision{}, nil, fmt.Errorf("rsi threshold %s: %w", ticker, err)
	}
	d := s.decide(rsi)
	return d, s.allocation(d, "run"), nil
}
