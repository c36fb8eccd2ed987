package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"PeakSentinel/internal/model"
)

const dayLayout = "2006-01-02"

// Store reads and writes the flat JSON tree under the data directory:
//
//	candles/<SYMBOL>/<TIMEFRAME>/<YYYY-MM-DD>.json
//	analysis/<YYYY-MM-DD>/<strategy>_<HHMMSS>.json
//	backtests/<strategy>/<start>_<end>.json
type Store struct {
	baseDir string
}

// New creates a Store rooted at baseDir ("data" when empty).
func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "data"
	}
	return &Store{baseDir: baseDir}
}

// BaseDir returns the root of the data tree.
func (s *Store) BaseDir() string { return s.baseDir }

func (s *Store) candlePath(symbol, timeframe string, day time.Time) string {
	return filepath.Join(s.baseDir, "candles", symbol, timeframe, day.UTC().Format(dayLayout)+".json")
}

// SaveCandles caches a candle series for one symbol/timeframe/day.
func (s *Store) SaveCandles(symbol, timeframe string, day time.Time, candles []model.Candle) error {
	return writeJSON(s.candlePath(symbol, timeframe, day), candles)
}

// LoadCandles reads a cached candle series. A missing cache entry returns an
// empty slice with no error.
func (s *Store) LoadCandles(symbol, timeframe string, day time.Time) ([]model.Candle, error) {
	data, err := os.ReadFile(s.candlePath(symbol, timeframe, day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var candles []model.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, fmt.Errorf("decode candle cache %s %s: %w", symbol, timeframe, err)
	}
	return candles, nil
}

// SaveAnalysis writes one scan's results under the scan date and returns the
// written path.
func (s *Store) SaveAnalysis(strategyName string, at time.Time, results []model.AnalysisResult) (string, error) {
	at = at.UTC()
	path := filepath.Join(s.baseDir, "analysis", at.Format(dayLayout),
		fmt.Sprintf("%s_%s.json", strategyName, at.Format("150405")))
	if err := writeJSON(path, results); err != nil {
		return "", err
	}
	return path, nil
}

// SaveBacktest writes a backtest report keyed by its date range and returns
// the written path.
func (s *Store) SaveBacktest(strategyName, startDate, endDate string, report interface{}) (string, error) {
	path := filepath.Join(s.baseDir, "backtests", strategyName,
		fmt.Sprintf("%s_%s.json", startDate, endDate))
	if err := writeJSON(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// writeJSON marshals v indented and writes it, creating parent directories.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
