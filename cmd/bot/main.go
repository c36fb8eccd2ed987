package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PeakSentinel/internal/backtest"
	"PeakSentinel/internal/config"
	"PeakSentinel/internal/exchange"
	"PeakSentinel/internal/monitor"
	"PeakSentinel/internal/notifier"
	"PeakSentinel/internal/recorder"
	"PeakSentinel/internal/store"
	"PeakSentinel/internal/strategy"
	"PeakSentinel/internal/tracker"

	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	app := &cli.App{
		Name:  "peaksentinel",
		Usage: "scans Binance futures top gainers for reversal setups",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "configs/config.yaml",
				Usage:   "config file path",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{Name: "mode", Value: "monitor", Usage: "monitor or backtest"},
			&cli.IntFlag{Name: "limit", Usage: "top gainers per scan (overrides config)"},
			&cli.StringFlag{Name: "interval", Usage: "kline timeframe, e.g. 15m, 1h (overrides config)"},
			&cli.StringFlag{Name: "start-date", Usage: "backtest start date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "end-date", Usage: "backtest end date (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "mock", Usage: "use simulated market data"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func run(c *cli.Context) error {
	log.Println("[INFO] PeakSentinel starting...")

	// Load config
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.Int("limit") > 0 {
		cfg.Scan.Limit = c.Int("limit")
	}
	if v := c.String("interval"); v != "" {
		cfg.Scan.Timeframe = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Init fetcher
	var fetcher exchange.Fetcher
	if c.Bool("mock") {
		fetcher = &exchange.MockFetcher{}
	} else {
		fetcher = exchange.NewBinanceFetcher(cfg.Exchange.APIKey, cfg.Exchange.APISecret, cfg.Proxy,
			cfg.Exchange.QuoteAsset, cfg.Exchange.MinQuoteVolume, cfg.Exchange.ExcludeSymbols)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	engine := strategy.New(cfg.Signals.RSIOverbought, cfg.Signals.VolumeSpikeRatio)
	st := store.New(cfg.DataDir)

	switch mode := c.String("mode"); mode {
	case "monitor":
		return runMonitor(c.Context, cfg, fetcher, engine, st)
	case "backtest":
		return runBacktest(c.Context, cfg, fetcher, engine, st, c.String("start-date"), c.String("end-date"))
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func runMonitor(ctx context.Context, cfg *config.Config, fetcher exchange.Fetcher, engine *strategy.Engine, st *store.Store) error {
	// Init tracker
	tr, err := tracker.NewManager(cfg.Tracker.StateFile, cfg.Signals.ExhaustionProbability,
		cfg.Signals.ConfirmDropPercent, cfg.Retention())
	if err != nil {
		return fmt.Errorf("init tracker: %w", err)
	}

	// Init notifiers
	notifiers := []notifier.Notifier{&notifier.ConsoleNotifier{}}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, tn)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := monitor.NewMonitor(ctx, cfg, fetcher, engine, tr, st, notifiers, rec)
	if err := m.Register(); err != nil {
		return err
	}
	m.Start()
	defer m.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, m.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// First scan right away, then on the cron schedule
	go m.RunScanNow()

	log.Println("[INFO] PeakSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PeakSentinel stopped")
	return nil
}

func runBacktest(ctx context.Context, cfg *config.Config, fetcher exchange.Fetcher, engine *strategy.Engine, st *store.Store, startDate, endDate string) error {
	if startDate == "" || endDate == "" {
		return errors.New("backtest mode requires --start-date and --end-date")
	}

	runner := backtest.NewRunner(cfg, fetcher, engine, st)
	report, err := runner.Run(ctx, startDate, endDate)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}
