package tracker

import (
	"sort"
	"sync"
	"time"

	"PeakSentinel/internal/model"
)

// Manager holds per-symbol monitoring state with concurrency safety.
// Each symbol carries a running high-water mark; dropping far enough below it
// flips the entry through exhaustion into a confirmed downtrend.
type Manager struct {
	mu       sync.Mutex
	symbols  map[string]*model.TrackedSymbol
	filePath string

	exhaustionProbability float64
	confirmDropPercent    float64
	retention             time.Duration
}

// NewManager creates a Manager, loading state from disk when present.
// Non-positive thresholds fall back to defaults.
func NewManager(filePath string, exhaustionProbability, confirmDropPercent float64, retention time.Duration) (*Manager, error) {
	symbols, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if exhaustionProbability <= 0 {
		exhaustionProbability = 60
	}
	if confirmDropPercent <= 0 {
		confirmDropPercent = 5.0
	}
	if retention <= 0 {
		retention = 168 * time.Hour
	}
	return &Manager{
		symbols:               symbols,
		filePath:              filePath,
		exhaustionProbability: exhaustionProbability,
		confirmDropPercent:    confirmDropPercent,
		retention:             retention,
	}, nil
}

// Update folds one analysis result into the tracked state and reports the
// resulting event. The result is annotated with the symbol's high-water mark
// and current drop. First observation of a symbol never emits an event.
func (m *Manager) Update(result *model.AnalysisResult, now time.Time) model.TrackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts, ok := m.symbols[result.Symbol]
	if !ok {
		ts = &model.TrackedSymbol{Symbol: result.Symbol, HighestPrice: result.Price}
		m.symbols[result.Symbol] = ts
		m.refresh(ts, result, now)
		return model.EventNone
	}

	event := model.EventNone
	if result.Price > ts.HighestPrice {
		ts.HighestPrice = result.Price
		ts.Downtrend = false
		ts.DowntrendConfirmed = false
		ts.DowntrendNotified = false
		event = model.EventNewHigh
	} else {
		if result.Probability >= m.exhaustionProbability && !ts.Downtrend {
			ts.Downtrend = true
			event = model.EventExhaustion
		}
		drop := (ts.HighestPrice - result.Price) / ts.HighestPrice * 100
		if drop >= m.confirmDropPercent {
			ts.DowntrendConfirmed = true
			if !ts.DowntrendNotified {
				ts.DowntrendNotified = true
				event = model.EventDowntrendConfirmed
			}
		}
	}

	m.refresh(ts, result, now)
	return event
}

// refresh updates the mutable fields and annotates the result. Callers hold mu.
func (m *Manager) refresh(ts *model.TrackedSymbol, result *model.AnalysisResult, now time.Time) {
	ts.LastPrice = result.Price
	ts.LastUpdate = now
	ts.Signals = result.SignalNames()

	result.HighestPrice = ts.HighestPrice
	result.DropPercent = ts.DropPercent()
}

// Prune drops entries idle longer than the retention window and reports how
// many were removed.
func (m *Manager) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for sym, ts := range m.symbols {
		if now.Sub(ts.LastUpdate) > m.retention {
			delete(m.symbols, sym)
			removed++
		}
	}
	return removed
}

// Snapshot returns a copy of every tracked symbol, sorted by symbol.
func (m *Manager) Snapshot() []model.TrackedSymbol {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.TrackedSymbol, 0, len(m.symbols))
	for _, ts := range m.symbols {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Count returns the number of tracked symbols.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.symbols)
}

// Save persists the current state to the configured file.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SaveState(m.filePath, m.symbols)
}
