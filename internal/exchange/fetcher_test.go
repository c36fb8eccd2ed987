package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/futures"
)

func TestRankGainers(t *testing.T) {
	stats := []*futures.PriceChangeStats{
		{Symbol: "AAAUSDT", PriceChangePercent: "12.5", LastPrice: "1.20", QuoteVolume: "90000000"},
		{Symbol: "BBBUSDT", PriceChangePercent: "30.1", LastPrice: "0.50", QuoteVolume: "45000000"},
		{Symbol: "CCCBTC", PriceChangePercent: "50.0", LastPrice: "0.01", QuoteVolume: "80000000"},
		{Symbol: "DDDUSDT", PriceChangePercent: "22.0", LastPrice: "3.44", QuoteVolume: "1000"},
		{Symbol: "EEEUSDT", PriceChangePercent: "bogus", LastPrice: "1.00", QuoteVolume: "60000000"},
		{Symbol: "FFFUSDT", PriceChangePercent: "18.3", LastPrice: "2.00", QuoteVolume: "70000000"},
		{Symbol: "GGGUSDT", PriceChangePercent: "9.9", LastPrice: "5.00", QuoteVolume: "65000000"},
	}
	exclude := map[string]bool{"GGGUSDT": true}

	got := rankGainers(stats, "USDT", 10000, exclude, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 gainers, got %d", len(got))
	}
	// CCCBTC wrong quote, DDDUSDT thin volume, EEEUSDT unparsable, GGGUSDT excluded.
	if got[0].Symbol != "BBBUSDT" || got[1].Symbol != "FFFUSDT" {
		t.Errorf("wrong ranking: %s, %s", got[0].Symbol, got[1].Symbol)
	}
	if got[0].PriceChangePercent != 30.1 || got[0].LastPrice != 0.50 {
		t.Errorf("stats not parsed: %+v", got[0])
	}
}

func TestRankGainers_LimitLargerThanPool(t *testing.T) {
	stats := []*futures.PriceChangeStats{
		{Symbol: "AAAUSDT", PriceChangePercent: "5.0", LastPrice: "1.0", QuoteVolume: "20000000"},
	}
	got := rankGainers(stats, "USDT", 0, nil, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 gainer, got %d", len(got))
	}
}

func TestWithRetry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}

	calls = 0
	err = withRetry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil || err.Error() != "permanent" {
		t.Errorf("expected last error back, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, 3, time.Minute, func() error {
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error instead of a minute-long sleep, got %v", err)
	}
}

func TestMockKlines_DeterministicPerSymbol(t *testing.T) {
	m := &MockFetcher{}
	a, err := m.Klines(context.Background(), "BTCUSDT", "15m", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := m.Klines(context.Background(), "BTCUSDT", "15m", 100)

	if len(a) != 100 {
		t.Fatalf("expected 100 candles, got %d", len(a))
	}
	for i := range a {
		if a[i].Close != b[i].Close || a[i].Volume != b[i].Volume {
			t.Fatalf("candle %d not deterministic", i)
		}
		if a[i].Close <= 0 || a[i].Volume <= 0 {
			t.Fatalf("candle %d has non-positive values: %+v", i, a[i])
		}
		if i > 0 && !a[i].Time.After(a[i-1].Time) {
			t.Fatalf("candles out of order at %d", i)
		}
	}

	// Different symbols get different price paths.
	c, _ := m.Klines(context.Background(), "ETHUSDT", "15m", 100)
	if c[50].Close == a[50].Close {
		t.Error("expected symbol-specific price paths")
	}
}

func TestIntervalDuration(t *testing.T) {
	tests := []struct {
		interval string
		want     time.Duration
	}{
		{"1m", time.Minute},
		{"15m", 15 * time.Minute},
		{"4h", 4 * time.Hour},
		{"1d", 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"nonsense", 15 * time.Minute},
	}
	for _, tt := range tests {
		if got := intervalDuration(tt.interval); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.interval, tt.want, got)
		}
	}
}
