// Package runner is a minimal in-process host: it feeds bars to a strategy,
// reconciles the returned allocation through an executor and keeps score.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/executor"
	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/metrics"
	"github.com/evdnx/gorsi/risk"
	"github.com/evdnx/gorsi/strategy"
	"github.com/evdnx/gorsi/types"
)

// Rebalance moves the position in ticker toward weight of total portfolio
// value at price. It returns the submitted order, or nil when nothing needed
// to trade.
func Rebalance(exec executor.Executor, cfg config.StrategyConfig,
	ticker string, weight, price float64) (*types.Order, error) {

	held, _ := exec.Position(ticker)
	value := exec.Equity() + held*price
	target := risk.TargetQty(value, weight, price, cfg)

	var o types.Order
	switch {
	case target > held:
		qty := risk.FitQty(risk.RoundQty(target-held, cfg), price, exec.Equity(), cfg)
		if qty == 0 {
			return nil, nil
		}
		o = types.Order{Symbol: ticker, Side: types.Buy, Qty: qty, Price: price, Comment: "rebalance up"}
	case target < held:
		qty := held
		if target > 0 {
			qty = math.Min(risk.RoundQty(held-target, cfg), held)
		}
		if qty == 0 {
			return nil, nil
		}
		o = types.Order{Symbol: ticker, Side: types.Sell, Qty: qty, Price: price, Comment: "rebalance down"}
	default:
		return nil, nil
	}

	if err := exec.Submit(o); err != nil {
		return nil, err
	}
	metrics.OrdersSubmitted.WithLabelValues(string(o.Side)).Inc()
	return &o, nil
}

// Runner drives one single-asset strategy over historical bars.
type Runner struct {
	Strategy strategy.Strategy
	Exec     executor.Executor
	Cfg      config.StrategyConfig
	Log      logger.Logger

	// OnBar, when set, is called after every processed bar.
	OnBar func(done, total int)
}

func New(strat strategy.Strategy, exec executor.Executor,
	cfg config.StrategyConfig, log logger.Logger) *Runner {

	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{Strategy: strat, Exec: exec, Cfg: cfg, Log: log}
}

// Result summarises a backtest.
type Result struct {
	Ticker     string
	Bars       int
	Orders     []types.Order
	Values     []float64 // portfolio value after each bar
	Invested   []bool    // whether a position was held after each bar
	StartValue float64
	FinalValue float64
}

// Return is the total fractional return over the run.
func (r *Result) Return() float64 {
	if r.StartValue == 0 {
		return 0
	}
	return r.FinalValue/r.StartValue - 1
}

// Exposure is the fraction of bars that ended with a position.
func (r *Result) Exposure() float64 {
	if len(r.Invested) == 0 {
		return 0
	}
	held := lo.CountBy(r.Invested, func(in bool) bool { return in })
	return float64(held) / float64(len(r.Invested))
}

// Trades counts orders per side.
func (r *Result) Trades() (buys, sells int) {
	buys = lo.CountBy(r.Orders, func(o types.Order) bool { return o.Side == types.Buy })
	return buys, len(r.Orders) - buys
}

// BarReturns lists the fractional change in portfolio value bar over bar.
func (r *Result) BarReturns() []float64 {
	if len(r.Values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(r.Values)-1)
	prev := r.StartValue
	for _, v := range r.Values {
		if prev != 0 {
			out = append(out, v/prev-1)
		}
		prev = v
	}
	return out
}

// Sharpe is the annualised mean/stddev of bar returns (zero risk-free rate).
// It is 0 when returns are flat or too few.
func (r *Result) Sharpe(interval types.Interval) float64 {
	rets := r.BarReturns()
	if len(rets) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(rets, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear(interval))
}

// MaxDrawdown is the largest peak-to-trough fall in portfolio value.
func (r *Result) MaxDrawdown() float64 {
	peak := r.StartValue
	worst := 0.0
	for _, v := range r.Values {
		peak = math.Max(peak, v)
		if peak > 0 {
			worst = math.Max(worst, 1-v/peak)
		}
	}
	return worst
}

// periodsPerYear assumes 252 sessions of 6.5 hours for intraday bars.
func periodsPerYear(interval types.Interval) float64 {
	d := interval.Duration()
	if d <= 0 || d >= 24*time.Hour {
		return 252
	}
	return 252 * float64(6*time.Hour+30*time.Minute) / float64(d)
}

// Backtest runs the strategy on every growing prefix of bars and rebalances at
// each bar's close. Executor rejections are logged and skipped; strategy
// errors abort the run.
func (r *Runner) Backtest(ctx context.Context, bars []types.Bar) (*Result, error) {
	assets := r.Strategy.Assets()
	if len(assets) != 1 {
		return nil, fmt.Errorf("runner: expected one asset, strategy wants %d", len(assets))
	}
	ticker := assets[0]
	if len(bars) == 0 {
		return nil, errors.New("runner: no bars")
	}

	res := &Result{
		Ticker:     ticker,
		StartValue: r.portfolioValue(ticker, bars[0].Close),
		Values:     make([]float64, 0, len(bars)),
		Invested:   make([]bool, 0, len(bars)),
	}

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		alloc, err := r.Strategy.Run(strategy.NewSnapshot(ticker, bars[:i+1]))
		if err != nil {
			return nil, fmt.Errorf("runner: bar %d: %w", i, err)
		}
		if err := alloc.Validate(); err != nil {
			return nil, fmt.Errorf("runner: bar %d: %w", i, err)
		}

		o, err := Rebalance(r.Exec, r.Cfg, ticker, alloc.Weight(ticker), bar.Close)
		if err != nil {
			r.Log.Warn("rebalance_failed",
				logger.String("ticker", ticker),
				logger.Int("bar", i),
				logger.Err(err),
			)
		} else if o != nil {
			res.Orders = append(res.Orders, *o)
			r.Log.Info("order_submitted",
				logger.String("symbol", o.Symbol),
				logger.String("side", string(o.Side)),
				logger.Float64("qty", o.Qty),
				logger.Float64("price", o.Price),
				logger.String("time", bar.Time.Format(time.RFC3339)),
			)
		}

		held, _ := r.Exec.Position(ticker)
		value := r.portfolioValue(ticker, bar.Close)
		res.Values = append(res.Values, value)
		res.Invested = append(res.Invested, held > 0)
		metrics.EquityGauge.Set(value)

		if r.OnBar != nil {
			r.OnBar(i+1, len(bars))
		}
	}

	res.Bars = len(bars)
	res.FinalValue = res.Values[len(res.Values)-1]
	return res, nil
}

func (r *Runner) portfolioValue(ticker string, price float64) float64 {
	held, _ := r.Exec.Position(ticker)
	return r.Exec.Equity() + held*price
}
