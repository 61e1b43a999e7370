package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"github.com/xhit/go-str2duration/v2"

	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/executor"
	"github.com/evdnx/gorsi/feed"
	"github.com/evdnx/gorsi/indicator"
	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/runner"
	"github.com/evdnx/gorsi/strategy"
	"github.com/evdnx/gorsi/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "strategy config file (yaml, json or toml)",
		},
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "CSV with time,open,high,low,close,volume",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "lookback",
			Aliases: []string{"l"},
			Usage:   "only use bars from this window before the last one, eg. 365d",
		},
	}
	return append(flags, extra...)
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "gorsi",
		HelpName: "gorsi",
		Usage:    "RSI oversold/overbought target allocation",
		Commands: []*cli.Command{
			{
				Name:  "signal",
				Usage: "Print the target allocation for the latest bar",
				Flags: commonFlags(
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "re-evaluate whenever the config file changes",
					},
				),
				Action: signalAction,
			},
			{
				Name:  "backtest",
				Usage: "Replay the data through a paper executor",
				Flags: commonFlags(
					&cli.Float64Flag{
						Name:  "equity",
						Usage: "starting cash (overrides GORSI_START_EQUITY)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "hide the progress bar",
					},
				),
				Action: backtestAction,
			},
		},
	}
}

// env bundles what both commands need.
type env struct {
	app    *config.AppConfig
	loader *config.Loader
	cfg    config.StrategyConfig
	log    logger.Logger
	bars   []types.Bar
}

func setup(c *cli.Context) (*env, error) {
	app, err := config.LoadApp()
	if err != nil {
		return nil, fmt.Errorf("app config: %w", err)
	}
	log, err := logger.New(logger.Options{
		Level:      app.LogLevel,
		File:       app.LogFile,
		MaxSizeMB:  app.LogMaxSizeMB,
		MaxBackups: app.LogMaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	loader := config.NewLoader(c.String("config"))
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	bars, err := feed.LoadCSV(c.String("data"))
	if err != nil {
		return nil, err
	}
	if lb := c.String("lookback"); lb != "" {
		d, err := str2duration.ParseDuration(lb)
		if err != nil {
			return nil, fmt.Errorf("lookback %q: %w", lb, err)
		}
		bars = feed.Limit(bars, d)
	}
	if app.MetricsAddr != "" {
		serveMetrics(app.MetricsAddr, log)
	}
	return &env{app: app, loader: loader, cfg: cfg, log: log, bars: bars}, nil
}

func serveMetrics(addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_server_failed", logger.String("addr", addr), logger.Err(err))
		}
	}()
	log.Info("metrics_server_started", logger.String("addr", addr))
}

func signalAction(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	if err := evaluate(c.App.Writer, e.cfg, e.bars, e.log); err != nil {
		return err
	}
	if !c.Bool("watch") {
		return nil
	}
	if c.String("config") == "" {
		return errors.New("--watch needs --config")
	}
	e.loader.Watch(func(cfg config.StrategyConfig, err error) {
		if err != nil {
			e.log.Warn("config_reload_failed", logger.Err(err))
			return
		}
		e.log.Info("config_reloaded", logger.String("ticker", cfg.Ticker))
		if err := evaluate(c.App.Writer, cfg, e.bars, e.log); err != nil {
			e.log.Error("evaluate_failed", logger.Err(err))
		}
	})
	<-c.Context.Done()
	return nil
}

// evaluate runs the strategy once over bars and prints the decision.
func evaluate(w io.Writer, cfg config.StrategyConfig, bars []types.Bar, log logger.Logger) error {
	strat, err := strategy.NewRSIThreshold(cfg, indicator.NewTalib(), log)
	if err != nil {
		return err
	}
	d, alloc, err := strat.Evaluate(strategy.NewSnapshot(cfg.Ticker, bars))
	if err != nil {
		return err
	}
	writeSignal(w, cfg, bars, d, alloc)
	return nil
}

func writeSignal(w io.Writer, cfg config.StrategyConfig, bars []types.Bar,
	d strategy.Decision, alloc types.Allocation) {

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Ticker", "As of", "RSI", "Signal", "Target"})
	asOf, rsi := "-", "-"
	if len(bars) > 0 {
		asOf = bars[len(bars)-1].Time.Format("2006-01-02")
	}
	if d.Signal != strategy.SignalNone {
		rsi = fmt.Sprintf("%.2f", d.RSI)
	}
	table.Append([]string{
		cfg.Ticker,
		asOf,
		rsi,
		string(d.Signal),
		fmt.Sprintf("%.0f %%", alloc.Weight(cfg.Ticker)*100),
	})
	table.Render()
}

func backtestAction(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	equity := e.app.StartEquity
	if c.IsSet("equity") {
		equity = c.Float64("equity")
	}
	if equity <= 0 {
		return fmt.Errorf("starting equity must be positive, got %v", equity)
	}

	strat, err := strategy.NewRSIThreshold(e.cfg, indicator.NewTalib(), e.log)
	if err != nil {
		return err
	}
	r := runner.New(strat, executor.NewPaperExecutor(equity, e.log), e.cfg, e.log)
	if !c.Bool("quiet") {
		bar := progressbar.Default(int64(len(e.bars)), "backtesting "+e.cfg.Ticker)
		r.OnBar = func(done, total int) { _ = bar.Set(done) }
	}

	res, err := r.Backtest(c.Context, e.bars)
	if err != nil {
		return err
	}
	writeSummary(c.App.Writer, e.cfg, res)
	return nil
}

func writeSummary(w io.Writer, cfg config.StrategyConfig, res *runner.Result) {
	buys, sells := res.Trades()
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk([][]string{
		{"Ticker", res.Ticker},
		{"Bars", strconv.Itoa(res.Bars)},
		{"Buys", strconv.Itoa(buys)},
		{"Sells", strconv.Itoa(sells)},
		{"Start value", fmt.Sprintf("%.2f", res.StartValue)},
		{"Final value", fmt.Sprintf("%.2f", res.FinalValue)},
		{"Return", fmt.Sprintf("%.2f %%", res.Return()*100)},
		{"Exposure", fmt.Sprintf("%.1f %%", res.Exposure()*100)},
		{"Max drawdown", fmt.Sprintf("%.2f %%", res.MaxDrawdown()*100)},
		{"Sharpe", fmt.Sprintf("%.2f", res.Sharpe(cfg.Interval))},
	})
	table.Render()
}
