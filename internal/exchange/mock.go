package exchange

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"PeakSentinel/internal/model"
)

// MockFetcher returns controllable simulated data for development, tests and
// backtest fallbacks. Fixed data takes precedence; otherwise candles are
// generated deterministically per symbol.
type MockFetcher struct {
	Gainers []model.SymbolStats
	Candles map[string][]model.Candle
}

func (m *MockFetcher) Name() string { return "mock" }

var mockSymbols = []string{
	"BTCUSDT", "ETHUSDT", "SOLUSDT", "DOGEUSDT", "AVAXUSDT",
	"LINKUSDT", "TONUSDT", "APTUSDT", "INJUSDT", "ARBUSDT",
	"SUIUSDT", "SEIUSDT", "OPUSDT", "NEARUSDT", "FETUSDT",
}

func (m *MockFetcher) TopGainers(_ context.Context, limit int) ([]model.SymbolStats, error) {
	if m.Gainers != nil {
		if len(m.Gainers) > limit {
			return m.Gainers[:limit], nil
		}
		return m.Gainers, nil
	}
	if limit > len(mockSymbols) {
		limit = len(mockSymbols)
	}
	stats := make([]model.SymbolStats, limit)
	for i := 0; i < limit; i++ {
		candles := generateCandles(mockSymbols[i], "15m", 2)
		stats[i] = model.SymbolStats{
			Symbol:             mockSymbols[i],
			LastPrice:          candles[len(candles)-1].Close,
			PriceChangePercent: 25.0 - float64(i)*1.5,
			QuoteVolume:        50000000 - float64(i)*2000000,
		}
	}
	return stats, nil
}

func (m *MockFetcher) Klines(_ context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if c, ok := m.Candles[symbol]; ok {
		return c, nil
	}
	return generateCandles(symbol, interval, limit), nil
}

// generateCandles builds a pump-then-stall series: a steady ramp over the
// first 70% of candles, a blow-off volume spike, then drift. The shape gives
// the reversal checks something to find.
func generateCandles(symbol, interval string, count int) []model.Candle {
	step := intervalDuration(interval)
	end := time.Now().UTC().Truncate(step)

	var seed uint32
	for _, r := range symbol {
		seed = seed*31 + uint32(r)
	}
	base := 0.5 + float64(seed%2000)/100.0
	rampEnd := count * 7 / 10

	candles := make([]model.Candle, count)
	price := base
	for i := 0; i < count; i++ {
		drift := 0.004
		if i >= rampEnd {
			drift = -0.0005
		}
		wobble := 0.002 * math.Sin(float64(i)*0.7+float64(seed%100))
		open := price
		price *= 1 + drift + wobble

		volume := 40000 + 20000*math.Sin(float64(i)*0.35)
		if i == rampEnd {
			volume *= 3
		}

		t := end.Add(-time.Duration(count-i) * step)
		candles[i] = model.Candle{
			Time:      t,
			Open:      open,
			High:      math.Max(open, price) * 1.002,
			Low:       math.Min(open, price) * 0.998,
			Close:     price,
			Volume:    volume,
			CloseTime: t.Add(step),
		}
	}
	return candles
}

// intervalDuration converts a Binance interval string ("15m", "1h", "3d",
// "1w") to a duration. Unknown intervals fall back to 15 minutes.
func intervalDuration(interval string) time.Duration {
	if d, err := time.ParseDuration(interval); err == nil {
		return d
	}
	if n, err := strconv.Atoi(strings.TrimSuffix(interval, "d")); err == nil {
		return time.Duration(n) * 24 * time.Hour
	}
	if n, err := strconv.Atoi(strings.TrimSuffix(interval, "w")); err == nil {
		return time.Duration(n) * 7 * 24 * time.Hour
	}
	return 15 * time.Minute
}
