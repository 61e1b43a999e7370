package strategy

import (
	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/indicator"
	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/types"
)

// Streaming applies the same oversold/overbought rule bar by bar, keeping a
// rolling RSI instead of asking the host for a full history each time.
type Streaming struct {
	*BaseStrategy
	rsi    *indicator.Rolling
	target types.Allocation
}

func NewStreaming(cfg config.StrategyConfig, log logger.Logger) (*Streaming, error) {
	base, err := NewBaseStrategy(cfg, log)
	if err != nil {
		return nil, err
	}
	rsi, err := indicator.NewRolling(cfg.RSILength, cfg.RSIOversold, cfg.RSIOverbought)
	if err != nil {
		return nil, err
	}
	return &Streaming{
		BaseStrategy: base,
		rsi:          rsi,
		target:       types.Allocation{cfg.Ticker: 0},
	}, nil
}

// ProcessBar feeds one completed bar and re-evaluates the target. A bad bar
// is logged and leaves the previous target in place.
func (s *Streaming) ProcessBar(high, low, close, volume float64) {
	if err := s.rsi.Add(close); err != nil {
		s.Log.Warn("rsi_add_error",
			logger.String("ticker", s.Cfg.Ticker),
			logger.Float64("close", close),
			logger.Err(err),
		)
		return
	}
	s.target = s.allocation(s.decide(s.rsi.Values()), "bar")
}

// Target returns the allocation after the most recent bar.
func (s *Streaming) Target() types.Allocation {
	out := make(types.Allocation, len(s.target))
	for k, v := range s.target {
		out[k] = v
	}
	return out
}

// Reset drops the RSI history and divests.
func (s *Streaming) Reset() {
	s.rsi.Reset()
	s.target = types.Allocation{s.Cfg.Ticker: 0}
}
