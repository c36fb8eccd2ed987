package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"

	"PeakSentinel/internal/model"
)

const (
	fetchAttempts = 3
	fetchDelay    = 2 * time.Second
)

// BinanceFetcher implements Fetcher against the Binance USDT-M futures REST
// API. Every endpoint used here is public, so the keys may be empty.
type BinanceFetcher struct {
	client         *futures.Client
	quoteAsset     string
	minQuoteVolume float64
	exclude        map[string]bool
}

// NewBinanceFetcher creates a fetcher with optional proxy support. Symbols in
// exclude are never returned from TopGainers.
func NewBinanceFetcher(apiKey, secretKey, proxyURL, quoteAsset string, minQuoteVolume float64, exclude []string) *BinanceFetcher {
	client := binance.NewFuturesClient(apiKey, secretKey)
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			client.HTTPClient = &http.Client{
				Timeout:   30 * time.Second,
				Transport: &http.Transport{Proxy: http.ProxyURL(u)},
			}
		}
	}
	excluded := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		excluded[strings.ToUpper(s)] = true
	}
	return &BinanceFetcher{
		client:         client,
		quoteAsset:     strings.ToUpper(quoteAsset),
		minQuoteVolume: minQuoteVolume,
		exclude:        excluded,
	}
}

func (f *BinanceFetcher) Name() string { return "binance-futures" }

// TopGainers returns the `limit` symbols with the highest 24h price change,
// filtered to the configured quote asset and minimum quote volume.
func (f *BinanceFetcher) TopGainers(ctx context.Context, limit int) ([]model.SymbolStats, error) {
	var stats []*futures.PriceChangeStats
	err := withRetry(ctx, fetchAttempts, fetchDelay, func() error {
		var err error
		stats, err = f.client.NewListPriceChangeStatsService().Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch 24h stats: %w", err)
	}
	return rankGainers(stats, f.quoteAsset, f.minQuoteVolume, f.exclude, limit), nil
}

// rankGainers filters raw ticker stats and sorts them by 24h change descending.
// Entries with unparsable numeric fields are skipped.
func rankGainers(stats []*futures.PriceChangeStats, quoteAsset string, minQuoteVolume float64, exclude map[string]bool, limit int) []model.SymbolStats {
	gainers := make([]model.SymbolStats, 0, limit)
	for _, s := range stats {
		if !strings.HasSuffix(s.Symbol, quoteAsset) || exclude[s.Symbol] {
			continue
		}
		changePct, err := strconv.ParseFloat(s.PriceChangePercent, 64)
		if err != nil {
			continue
		}
		lastPrice, err := strconv.ParseFloat(s.LastPrice, 64)
		if err != nil {
			continue
		}
		quoteVolume, err := strconv.ParseFloat(s.QuoteVolume, 64)
		if err != nil || quoteVolume < minQuoteVolume {
			continue
		}
		gainers = append(gainers, model.SymbolStats{
			Symbol:             s.Symbol,
			LastPrice:          lastPrice,
			PriceChangePercent: changePct,
			QuoteVolume:        quoteVolume,
		})
	}
	sort.Slice(gainers, func(i, j int) bool {
		return gainers[i].PriceChangePercent > gainers[j].PriceChangePercent
	})
	if len(gainers) > limit {
		gainers = gainers[:limit]
	}
	return gainers
}

// Klines fetches the most recent `limit` candles for symbol at the given
// interval, oldest first.
func (f *BinanceFetcher) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	var klines []*futures.Kline
	err := withRetry(ctx, fetchAttempts, fetchDelay, func() error {
		var err error
		klines, err = f.client.NewKlinesService().
			Symbol(symbol).Interval(interval).
			Limit(limit).Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch klines %s %s: %w", symbol, interval, err)
	}

	candles := make([]model.Candle, 0, len(klines))
	for _, k := range klines {
		open, err1 := strconv.ParseFloat(k.Open, 64)
		high, err2 := strconv.ParseFloat(k.High, 64)
		low, err3 := strconv.ParseFloat(k.Low, 64)
		closePrice, err4 := strconv.ParseFloat(k.Close, 64)
		volume, err5 := strconv.ParseFloat(k.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		candles = append(candles, model.Candle{
			Time:      time.Unix(k.OpenTime/1000, 0).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			CloseTime: time.Unix(k.CloseTime/1000, 0).UTC(),
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}
