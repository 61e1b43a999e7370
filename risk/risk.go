package risk

import (
	"math"

	"github.com/evdnx/gorsi/config"
)

// TargetQty converts a target weight of portfolio value into an order
// quantity at price, honouring the broker constraints in cfg.
func TargetQty(value, weight, price float64, cfg config.StrategyConfig) float64 {
	if value <= 0 || weight <= 0 || price <= 0 {
		return 0
	}
	budget := value * math.Min(weight, 1)
	return FitQty(RoundQty(budget/price, cfg), price, budget, cfg)
}

// FitQty steps qty down until qty*price fits within budget. Rounding may
// land a hair above the raw quantity; the order must still be affordable.
func FitQty(qty, price, budget float64, cfg config.StrategyConfig) float64 {
	unit := math.Max(cfg.StepSize, math.Pow(10, -float64(cfg.QuantityPrecision)))
	for qty > 0 && qty*price > budget {
		qty = RoundQty(qty-unit, cfg)
	}
	return qty
}

// RoundQty floors qty to the step size, then to QuantityPrecision decimals.
// Quantities below MinQty collapse to zero.
func RoundQty(qty float64, cfg config.StrategyConfig) float64 {
	if qty <= 0 {
		return 0
	}
	if cfg.StepSize > 0 {
		// relative epsilon keeps exact multiples from flooring one step down
		steps := qty / cfg.StepSize
		qty = math.Floor(steps+1e-9*steps) * cfg.StepSize
	}
	scale := math.Pow(10, float64(cfg.QuantityPrecision))
	scaled := qty * scale
	qty = math.Floor(scaled+1e-9*scaled) / scale
	if qty < cfg.MinQty {
		return 0
	}
	return qty
}
