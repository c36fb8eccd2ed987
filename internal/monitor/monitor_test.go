package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PeakSentinel/internal/config"
	"PeakSentinel/internal/exchange"
	"PeakSentinel/internal/model"
	"PeakSentinel/internal/notifier"
	"PeakSentinel/internal/recorder"
	"PeakSentinel/internal/store"
	"PeakSentinel/internal/strategy"
	"PeakSentinel/internal/tracker"
)

// stalledFetcher ranks gainers fine but every kline fetch fails.
type stalledFetcher struct{}

func (f *stalledFetcher) Name() string { return "stalled" }

func (f *stalledFetcher) TopGainers(_ context.Context, _ int) ([]model.SymbolStats, error) {
	return []model.SymbolStats{{Symbol: "AAAUSDT", LastPrice: 3.2, PriceChangePercent: 30, QuoteVolume: 1e7}}, nil
}

func (f *stalledFetcher) Klines(_ context.Context, _, _ string, _ int) ([]model.Candle, error) {
	return nil, errors.New("klines unavailable")
}

func newTestMonitor(t *testing.T, fetcher exchange.Fetcher) (*Monitor, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Scan.Limit = 5
	cfg.Scan.Timeframe = "15m"
	cfg.Scan.KlineLimit = 100
	cfg.Scan.MaxConcurrent = 3
	cfg.Scan.Cron = "@every 5m"
	cfg.Signals.ExhaustionProbability = 60
	cfg.Signals.ConfirmDropPercent = 5.0

	tr, err := tracker.NewManager(filepath.Join(dir, "tracked.json"), 60, 5.0, 168*time.Hour)
	require.NoError(t, err)

	m := NewMonitor(context.Background(), cfg,
		fetcher,
		strategy.New(70, 2.0),
		tr,
		store.New(filepath.Join(dir, "data")),
		[]notifier.Notifier{&notifier.ConsoleNotifier{}},
		recorder.NewNoopRecorder(),
	)
	return m, dir
}

func TestScanProducesResultsAndState(t *testing.T) {
	m, _ := newTestMonitor(t, &exchange.MockFetcher{})
	m.RunScanNow()

	m.mu.Lock()
	results := m.lastResults
	m.mu.Unlock()

	require.Len(t, results, 5)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Probability, results[i-1].Probability)
	}
	assert.Equal(t, 5, m.Tracker.Count())

	today := time.Now().UTC().Format("2006-01-02")
	entries, err := os.ReadDir(filepath.Join(m.Store.BaseDir(), "analysis", today))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	_, err = os.Stat(filepath.Join(m.Store.BaseDir(), "candles", "BTCUSDT", "15m", today+".json"))
	assert.NoError(t, err)
}

func TestScanWithNoGainersStillPrunes(t *testing.T) {
	m, dir := newTestMonitor(t, &exchange.MockFetcher{Gainers: []model.SymbolStats{}})

	stale := &model.AnalysisResult{Symbol: "OLDUSDT", Price: 2.1, Timeframe: "15m"}
	m.Tracker.Update(stale, time.Now().Add(-200*time.Hour))
	require.Equal(t, 1, m.Tracker.Count())

	m.RunScanNow()

	assert.Equal(t, 0, m.Tracker.Count(), "idle symbol should age out on an empty scan")
	loaded, err := tracker.LoadState(filepath.Join(dir, "tracked.json"))
	require.NoError(t, err)
	assert.Empty(t, loaded)

	_, err = os.Stat(filepath.Join(m.Store.BaseDir(), "analysis"))
	assert.True(t, os.IsNotExist(err), "empty scan should not write an analysis file")
}

func TestScanWithFailedAnalysesSkipsSave(t *testing.T) {
	m, _ := newTestMonitor(t, &stalledFetcher{})
	m.RunScanNow()

	m.mu.Lock()
	results := m.lastResults
	m.mu.Unlock()
	assert.Empty(t, results)

	_, err := os.Stat(filepath.Join(m.Store.BaseDir(), "analysis"))
	assert.True(t, os.IsNotExist(err), "all-failed scan should not write an analysis file")
}

func TestScanRegistersOnCron(t *testing.T) {
	m, _ := newTestMonitor(t, &exchange.MockFetcher{})
	require.NoError(t, m.Register())
	assert.Len(t, m.Cron.Entries(), 1)
}

func TestHandleCommand(t *testing.T) {
	m, _ := newTestMonitor(t, &exchange.MockFetcher{})

	assert.Equal(t, "No symbols tracked yet.", m.HandleCommand("/status"))
	assert.Equal(t, "No scan results yet.", m.HandleCommand("/top"))

	assert.Empty(t, m.HandleCommand("/scan"))

	assert.Contains(t, m.HandleCommand("/status"), "Tracked symbols")
	assert.Contains(t, m.HandleCommand("/top"), "Last scan")
	assert.Contains(t, m.HandleCommand("/nonsense"), "Commands:")
}
