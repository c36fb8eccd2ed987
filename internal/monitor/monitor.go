package monitor

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"PeakSentinel/internal/calculator"
	"PeakSentinel/internal/config"
	"PeakSentinel/internal/exchange"
	"PeakSentinel/internal/model"
	"PeakSentinel/internal/notifier"
	"PeakSentinel/internal/recorder"
	"PeakSentinel/internal/store"
	"PeakSentinel/internal/strategy"
	"PeakSentinel/internal/tracker"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"
)

// Monitor runs the recurring reversal scan and serves Telegram commands.
type Monitor struct {
	Cron      *cron.Cron
	Cfg       *config.Config
	Fetcher   exchange.Fetcher
	Engine    *strategy.Engine
	Tracker   *tracker.Manager
	Store     *store.Store
	Notifiers []notifier.Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	mu          sync.Mutex
	lastResults []model.AnalysisResult
}

// NewMonitor creates a Monitor with the scan schedule not yet registered.
func NewMonitor(ctx context.Context, cfg *config.Config, fetcher exchange.Fetcher, engine *strategy.Engine, tr *tracker.Manager, st *store.Store, notifiers []notifier.Notifier, rec recorder.Recorder) *Monitor {
	return &Monitor{
		Cron:      cron.New(cron.WithSeconds()),
		Cfg:       cfg,
		Fetcher:   fetcher,
		Engine:    engine,
		Tracker:   tr,
		Store:     st,
		Notifiers: notifiers,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// Register wires the scan task onto the cron schedule.
func (m *Monitor) Register() error {
	if _, err := m.Cron.AddFunc(m.Cfg.Scan.Cron, m.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (m *Monitor) Start() {
	m.Cron.Start()
	log.Println("[INFO] monitor started")
}

// Stop stops the cron scheduler gracefully.
func (m *Monitor) Stop() {
	m.Cron.Stop()
	log.Println("[INFO] monitor stopped")
}

// RunScanNow executes a scan immediately (startup and /scan trigger).
func (m *Monitor) RunScanNow() {
	m.scanTask()
}

func (m *Monitor) scanTask() {
	start := time.Now()
	log.Println("[INFO] running reversal scan")

	gainers, err := m.Fetcher.TopGainers(m.Ctx, m.Cfg.Scan.Limit)
	if err != nil {
		log.Printf("[ERROR] fetch top gainers: %v", err)
		return
	}
	if len(gainers) == 0 {
		log.Println("[WARN] no symbols passed the gainer filters")
		m.pruneAndSaveTracker(time.Now())
		return
	}
	log.Printf("[INFO] scanning %d top gainers on %s", len(gainers), m.Cfg.Scan.Timeframe)

	var (
		resMu   sync.Mutex
		results []model.AnalysisResult
		wg      sync.WaitGroup
	)
	sem := semaphore.NewWeighted(int64(m.Cfg.Scan.MaxConcurrent))
	for _, g := range gainers {
		if err := sem.Acquire(m.Ctx, 1); err != nil {
			log.Printf("[WARN] scan interrupted: %v", err)
			break
		}
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			defer sem.Release(1)
			time.Sleep(m.Cfg.RequestDelay())

			res, err := m.analyzeSymbol(symbol)
			if err != nil {
				log.Printf("[WARN] analyze %s: %v", symbol, err)
				return
			}
			resMu.Lock()
			results = append(results, *res)
			resMu.Unlock()
		}(g.Symbol)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Probability > results[j].Probability
	})

	now := time.Now()
	signalsFired := 0
	alertsSent := 0
	for i := range results {
		res := &results[i]
		signalsFired += len(res.Signals)
		event := m.Tracker.Update(res, now)
		if event != model.EventExhaustion && event != model.EventDowntrendConfirmed {
			continue
		}
		m.notifyAll(notifier.FormatAlert(event, res))
		alertsSent++
		if err := m.Recorder.RecordAlert(&recorder.AlertRecord{
			Symbol:       res.Symbol,
			Event:        event,
			Price:        res.Price,
			HighestPrice: res.HighestPrice,
			DropPercent:  res.DropPercent,
			Probability:  res.Probability,
		}); err != nil {
			log.Printf("[ERROR] record alert: %v", err)
		}
	}

	m.pruneAndSaveTracker(now)
	if len(results) == 0 {
		log.Println("[WARN] no symbols analyzed, skipping analysis save")
	} else if path, err := m.Store.SaveAnalysis(strategy.Name, now, results); err != nil {
		log.Printf("[ERROR] save analysis: %v", err)
	} else {
		log.Printf("[INFO] analysis saved to %s", path)
	}

	m.mu.Lock()
	m.lastResults = results
	m.mu.Unlock()

	duration := time.Since(start)
	m.notifyAll(notifier.FormatScanSummary(results, m.Tracker.Count(), duration))

	if err := m.Recorder.RecordScan(&recorder.ScanRecord{
		SymbolsScanned: len(results),
		SignalsFired:   signalsFired,
		AlertsSent:     alertsSent,
		Duration:       duration,
	}); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}
	log.Printf("[INFO] scan finished: %d symbols, %d alerts in %.1fs",
		len(results), alertsSent, duration.Seconds())
}

// pruneAndSaveTracker drops stale entries and persists state. It runs on every
// scan, including scans that find nothing, so idle symbols still age out.
func (m *Monitor) pruneAndSaveTracker(now time.Time) {
	if removed := m.Tracker.Prune(now); removed > 0 {
		log.Printf("[INFO] pruned %d stale tracked symbols", removed)
	}
	if err := m.Tracker.Save(); err != nil {
		log.Printf("[ERROR] save tracker state: %v", err)
	}
}

// analyzeSymbol fetches klines, caches them, and scores the symbol.
func (m *Monitor) analyzeSymbol(symbol string) (*model.AnalysisResult, error) {
	candles, err := m.Fetcher.Klines(m.Ctx, symbol, m.Cfg.Scan.Timeframe, m.Cfg.Scan.KlineLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	if err := m.Store.SaveCandles(symbol, m.Cfg.Scan.Timeframe, time.Now(), candles); err != nil {
		log.Printf("[WARN] cache candles for %s: %v", symbol, err)
	}
	ind, err := calculator.BuildIndicatorSet(candles)
	if err != nil {
		return nil, fmt.Errorf("build indicators: %w", err)
	}
	return m.Engine.Evaluate(symbol, m.Cfg.Scan.Timeframe, ind), nil
}

// HandleCommand processes a user command and returns a reply.
func (m *Monitor) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatus(m.Tracker.Snapshot())
	case "/top":
		m.mu.Lock()
		results := m.lastResults
		m.mu.Unlock()
		return notifier.FormatTop(results)
	case "/scan":
		m.scanTask()
		return ""
	default:
		return notifier.FormatUsage()
	}
}

func (m *Monitor) notifyAll(text string) {
	for _, n := range m.Notifiers {
		if err := n.Notify(m.Ctx, text); err != nil {
			log.Printf("[ERROR] %s notify: %v", n.Name(), err)
		}
	}
}
