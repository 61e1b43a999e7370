package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. GORSI_TICKER.
const EnvPrefix = "GORSI"

// Loader reads a StrategyConfig from an optional file with environment
// overrides on top of Default().
type Loader struct {
	v    *viper.Viper
	path string
}

func NewLoader(path string) *Loader {
	v := viper.New()
	d := Default()
	v.SetDefault("ticker", d.Ticker)
	v.SetDefault("interval", string(d.Interval))
	v.SetDefault("rsi_length", d.RSILength)
	v.SetDefault("rsi_oversold", d.RSIOversold)
	v.SetDefault("rsi_overbought", d.RSIOverbought)
	v.SetDefault("quantity_precision", d.QuantityPrecision)
	v.SetDefault("min_qty", d.MinQty)
	v.SetDefault("step_size", d.StepSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	}
	return &Loader{v: v, path: path}
}

// Load reads the file (if any), decodes and validates the result.
func (l *Loader) Load() (StrategyConfig, error) {
	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return StrategyConfig{}, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (StrategyConfig, error) {
	var cfg StrategyConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return StrategyConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return StrategyConfig{}, err
	}
	return cfg, nil
}

// Watch re-decodes the file on every change and hands the result to fn.
// Invalid edits are reported through the error argument; callers decide
// whether to keep the previous config.
func (l *Loader) Watch(fn func(StrategyConfig, error)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
}

// Load is shorthand for NewLoader(path).Load().
func Load(path string) (StrategyConfig, error) {
	return NewLoader(path).Load()
}
