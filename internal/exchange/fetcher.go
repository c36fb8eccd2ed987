package exchange

import (
	"context"

	"PeakSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	TopGainers(ctx context.Context, limit int) ([]model.SymbolStats, error)
	Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	Name() string
}
