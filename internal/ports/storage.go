package ports

import (
	"context"

	"github.com/hyunwoocho/upbot/internal/domain"
)

// Storage keeps an audit history of what each run produced. Portfolio
// state is never reloaded from here; it only records what happened.
type Storage interface {
	// SaveSignals persists the signals emitted in one scan cycle.
	SaveSignals(ctx context.Context, signals []domain.Signal) error

	// SavePaperTrades persists paper fills appended since the last save.
	SavePaperTrades(ctx context.Context, trades []domain.TradeRecord) error

	// SaveBacktest persists per-market backtest summaries and their
	// closed trades.
	SaveBacktest(ctx context.Context, combined domain.CombinedResult) error

	// Close shuts the underlying database down cleanly.
	Close() error
}
