package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/evdnx/gorsi/types"
)

const (
	DefaultTicker        = "AAPL"
	DefaultInterval      = types.Interval1Day
	DefaultRSILength     = 14
	DefaultRSIOversold   = 30.0
	DefaultRSIOverbought = 70.0
)

// StrategyConfig holds all tunable parameters for the RSI threshold strategy.
type StrategyConfig struct {
	// Asset and cadence the host runs the strategy on.
	Ticker   string         `mapstructure:"ticker" validate:"required"`
	Interval types.Interval `mapstructure:"interval" validate:"required"`

	// Indicator settings. Thresholds are compared strictly: RSI must be
	// below RSIOversold to buy and above RSIOverbought to divest.
	RSILength     int     `mapstructure:"rsi_length" validate:"gte=2"`
	RSIOversold   float64 `mapstructure:"rsi_oversold" validate:"gte=0,lte=100,ltfield=RSIOverbought"`
	RSIOverbought float64 `mapstructure:"rsi_overbought" validate:"gte=0,lte=100"`

	// Order sizing used when the reference host turns a weight into shares
	// (0 decimals for equities).
	QuantityPrecision int     `mapstructure:"quantity_precision" validate:"gte=0"`
	MinQty            float64 `mapstructure:"min_qty" validate:"gte=0"`
	StepSize          float64 `mapstructure:"step_size" validate:"gt=0"`
}

// Default returns the stock configuration: AAPL, daily bars, RSI(14) with
// 30/70 thresholds, whole-share orders.
func Default() StrategyConfig {
	return StrategyConfig{
		Ticker:            DefaultTicker,
		Interval:          DefaultInterval,
		RSILength:         DefaultRSILength,
		RSIOversold:       DefaultRSIOversold,
		RSIOverbought:     DefaultRSIOverbought,
		QuantityPrecision: 0,
		MinQty:            1,
		StepSize:          1,
	}
}

var validate = validator.New()

// Validate checks that all fields are within sensible bounds.
// It returns the first encountered error, allowing the caller to surface a
// clear configuration problem before any trading starts.
func (c *StrategyConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return err
	}
	if !c.Interval.Valid() {
		return fmt.Errorf("invalid Interval: unknown value %q", c.Interval)
	}
	return nil
}
