package ports

import (
	"context"

	"github.com/hyunwoocho/upbot/internal/domain"
)

// MarketData fetches price history and quotes from the exchange's public
// API. Implementations must return candles in ascending time order. An
// empty slice means "no data" for the market; the caller decides whether
// that skips the market or aborts.
type MarketData interface {
	// FetchDayCandles returns up to `count` daily candles for the market,
	// oldest first. May return fewer than requested.
	FetchDayCandles(ctx context.Context, market string, count int) ([]domain.Candle, error)

	// CurrentPrice returns the latest trade price for the market.
	CurrentPrice(ctx context.Context, market string) (float64, error)
}
