package backtest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"PeakSentinel/internal/calculator"
	"PeakSentinel/internal/config"
	"PeakSentinel/internal/exchange"
	"PeakSentinel/internal/model"
	"PeakSentinel/internal/store"
	"PeakSentinel/internal/strategy"
	"PeakSentinel/internal/tracker"
)

const dateLayout = "2006-01-02"

const topResultLimit = 5

// EventRecord is one tracker event emitted during a backtest date.
type EventRecord struct {
	Symbol string           `json:"symbol"`
	Event  model.TrackEvent `json:"event"`
}

// DayReport aggregates one backtest date.
type DayReport struct {
	Date            string                 `json:"date"`
	Analyzed        int                    `json:"analyzed"`
	SignalsFired    int                    `json:"signals_fired"`
	Events          []EventRecord          `json:"events,omitempty"`
	MeanProbability float64                `json:"mean_probability"`
	TopResults      []model.AnalysisResult `json:"top_results,omitempty"`
}

// Report is the full backtest output written to disk.
type Report struct {
	Strategy    string      `json:"strategy"`
	Timeframe   string      `json:"timeframe"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Symbols     []string    `json:"symbols"`
	Days        []DayReport `json:"days"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Runner replays the scan pipeline over a date range. Candles come from the
// disk cache where available; the public API offers no historical gainers
// ranking, so the symbol list and cache misses fall back to current data,
// and failed fetches to simulated data.
type Runner struct {
	Cfg     *config.Config
	Fetcher exchange.Fetcher
	Engine  *strategy.Engine
	Store   *store.Store

	sim *exchange.MockFetcher
}

// NewRunner creates a backtest Runner.
func NewRunner(cfg *config.Config, fetcher exchange.Fetcher, engine *strategy.Engine, st *store.Store) *Runner {
	return &Runner{
		Cfg:     cfg,
		Fetcher: fetcher,
		Engine:  engine,
		Store:   st,
		sim:     &exchange.MockFetcher{},
	}
}

// Run replays [startDate, endDate] inclusive and writes the report.
func (r *Runner) Run(ctx context.Context, startDate, endDate string) (*Report, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	gainers, err := r.Fetcher.TopGainers(ctx, r.Cfg.Scan.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch top gainers: %w", err)
	}
	if len(gainers) == 0 {
		return nil, errors.New("no symbols to backtest")
	}
	symbols := make([]string, len(gainers))
	for i, g := range gainers {
		symbols[i] = g.Symbol
	}

	// State path left empty: the backtest tracker starts empty and never
	// persists.
	tr, err := tracker.NewManager("", r.Cfg.Signals.ExhaustionProbability,
		r.Cfg.Signals.ConfirmDropPercent, r.Cfg.Retention())
	if err != nil {
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	report := &Report{
		Strategy:    strategy.Name,
		Timeframe:   r.Cfg.Scan.Timeframe,
		StartDate:   startDate,
		EndDate:     endDate,
		Symbols:     symbols,
		GeneratedAt: time.Now().UTC(),
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		report.Days = append(report.Days, r.runDay(ctx, tr, symbols, day))
	}

	path, err := r.Store.SaveBacktest(strategy.Name, startDate, endDate, report)
	if err != nil {
		return nil, fmt.Errorf("save backtest report: %w", err)
	}
	log.Printf("[INFO] backtest report saved to %s", path)
	return report, nil
}

func (r *Runner) runDay(ctx context.Context, tr *tracker.Manager, symbols []string, day time.Time) DayReport {
	dateStr := day.Format(dateLayout)
	log.Printf("[INFO] backtesting %s", dateStr)

	rep := DayReport{Date: dateStr}
	var results []model.AnalysisResult
	probSum := 0.0

	for _, symbol := range symbols {
		candles := r.loadCandles(ctx, symbol, day)
		if len(candles) < 2 {
			log.Printf("[WARN] %s %s: not enough candles, skipping", symbol, dateStr)
			continue
		}
		ind, err := calculator.BuildIndicatorSet(candles)
		if err != nil {
			log.Printf("[WARN] %s %s: %v", symbol, dateStr, err)
			continue
		}
		res := r.Engine.Evaluate(symbol, r.Cfg.Scan.Timeframe, ind)
		res.Timestamp = day

		event := tr.Update(res, day)
		if event == model.EventExhaustion || event == model.EventDowntrendConfirmed {
			rep.Events = append(rep.Events, EventRecord{Symbol: symbol, Event: event})
		}

		rep.Analyzed++
		rep.SignalsFired += len(res.Signals)
		probSum += res.Probability
		results = append(results, *res)
	}

	if rep.Analyzed > 0 {
		rep.MeanProbability = probSum / float64(rep.Analyzed)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Probability > results[j].Probability
	})
	for _, res := range results {
		if res.Probability <= 0 || len(rep.TopResults) >= topResultLimit {
			break
		}
		rep.TopResults = append(rep.TopResults, res)
	}
	return rep
}

// loadCandles resolves one symbol/date: disk cache, then current klines,
// then simulated candles.
func (r *Runner) loadCandles(ctx context.Context, symbol string, day time.Time) []model.Candle {
	cached, err := r.Store.LoadCandles(symbol, r.Cfg.Scan.Timeframe, day)
	if err != nil {
		log.Printf("[WARN] candle cache %s %s: %v", symbol, day.Format(dateLayout), err)
	}
	if len(cached) > 0 {
		return cached
	}

	candles, err := r.Fetcher.Klines(ctx, symbol, r.Cfg.Scan.Timeframe, r.Cfg.Scan.KlineLimit)
	if err != nil {
		log.Printf("[WARN] fetch klines for %s: %v, using simulated candles", symbol, err)
		candles, _ = r.sim.Klines(ctx, symbol, r.Cfg.Scan.Timeframe, r.Cfg.Scan.KlineLimit)
	}
	return candles
}

// Summary renders the per-date aggregate table printed after a backtest.
func (rep *Report) Summary() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Backtest %s (%s) %s -> %s, %d symbols\n",
		rep.Strategy, rep.Timeframe, rep.StartDate, rep.EndDate, len(rep.Symbols)))
	b.WriteString(fmt.Sprintf("%-12s %9s %8s %7s %10s  %s\n",
		"date", "analyzed", "signals", "events", "mean prob", "top"))
	for _, d := range rep.Days {
		top := "-"
		if len(d.TopResults) > 0 {
			top = fmt.Sprintf("%s %.1f%%", d.TopResults[0].Symbol, d.TopResults[0].Probability)
		}
		b.WriteString(fmt.Sprintf("%-12s %9d %8d %7d %9.1f%%  %s\n",
			d.Date, d.Analyzed, d.SignalsFired, len(d.Events), d.MeanProbability, top))
	}
	return b.String()
}
