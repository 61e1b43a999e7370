package strategy

import (
	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/metrics"
	"github.com/evdnx/gorsi/types"
)

// BaseStrategy bundles the common dependencies and helpers.
type BaseStrategy struct {
	Log logger.Logger
	Cfg config.StrategyConfig
}

// NewBaseStrategy validates the config. All concrete strategies should call
// this from their own constructors.
func NewBaseStrategy(cfg config.StrategyConfig, log logger.Logger) (*BaseStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BaseStrategy{Log: log, Cfg: cfg}, nil
}

// Assets lists the single configured ticker.
func (b *BaseStrategy) Assets() []string {
	return []string{b.Cfg.Ticker}
}

func (b *BaseStrategy) Interval() types.Interval {
	return b.Cfg.Interval
}

func (b *BaseStrategy) decide(rsi []float64) Decision {
	return Decide(rsi, b.Cfg.RSIOversold, b.Cfg.RSIOverbought)
}

// allocation turns a decision into the host-facing allocation and records it.
func (b *BaseStrategy) allocation(d Decision, ctx string) types.Allocation {
	ticker := b.Cfg.Ticker
	fields := []logger.Field{
		logger.String("ticker", ticker),
		logger.String("signal", string(d.Signal)),
		logger.Float64("weight", d.Weight),
		logger.String("ctx", ctx),
	}
	if d.Signal != SignalNone {
		fields = append(fields, logger.Float64("rsi", d.RSI))
		metrics.RSILatest.WithLabelValues(ticker).Set(d.RSI)
	}
	b.Log.Info("rsi_decision", fields...)
	metrics.Decisions.WithLabelValues(ticker, string(d.Signal)).Inc()
	metrics.TargetAllocation.WithLabelValues(ticker).Set(d.Weight)
	return types.Allocation{ticker: d.Weight}
}
