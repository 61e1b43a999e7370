package executor

import (
	"errors"
	"fmt"

	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/types"
)

// ErrInsufficientCash is returned when a buy costs more than the cash on hand.
var ErrInsufficientCash = errors.New("paper executor: insufficient cash")

type Executor interface {
	Submit(o types.Order) error
	// For back‑testing we expose the portfolio state
	Equity() float64
	Position(symbol string) (qty float64, avgPrice float64)
}

// PaperExecutor is a long-only paper trader: perfect fills, no slippage.
type PaperExecutor struct {
	log       logger.Logger
	equity    float64
	positions map[string]float64
	avgPrice  map[string]float64
}

func NewPaperExecutor(startEquity float64, log logger.Logger) *PaperExecutor {
	if log == nil {
		log = logger.NewNop()
	}
	return &PaperExecutor{
		log:       log,
		equity:    startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
	}
}

func (p *PaperExecutor) Submit(o types.Order) error {
	if o.Qty == 0 {
		return nil
	}
	if o.Qty < 0 || o.Price <= 0 {
		return fmt.Errorf("paper executor: invalid order qty=%v price=%v", o.Qty, o.Price)
	}
	// market fill – price = current market price (passed in Order.Price)
	cost := o.Price * o.Qty
	switch o.Side {
	case types.Buy:
		if cost > p.equity {
			return ErrInsufficientCash
		}
		prev := p.positions[o.Symbol]
		p.equity -= cost
		p.positions[o.Symbol] = prev + o.Qty
		// simple VWAP for avg price
		p.avgPrice[o.Symbol] = (p.avgPrice[o.Symbol]*prev + cost) / p.positions[o.Symbol]
	case types.Sell:
		held := p.positions[o.Symbol]
		if o.Qty > held {
			return fmt.Errorf("paper executor: sell %v %s exceeds position %v", o.Qty, o.Symbol, held)
		}
		p.equity += cost
		p.positions[o.Symbol] = held - o.Qty
		if p.positions[o.Symbol] == 0 {
			delete(p.positions, o.Symbol)
			delete(p.avgPrice, o.Symbol)
		}
	default:
		return fmt.Errorf("paper executor: unknown side %q", o.Side)
	}
	p.log.Info("paper_fill",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", o.Price),
		logger.Float64("cash", p.equity),
	)
	return nil
}

// Equity returns the cash balance.
func (p *PaperExecutor) Equity() float64 { return p.equity }

func (p *PaperExecutor) Position(sym string) (float64, float64) {
	return p.positions[sym], p.avgPrice[sym]
}
