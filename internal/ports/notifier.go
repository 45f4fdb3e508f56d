package ports

import (
	"context"

	"github.com/hyunwoocho/upbot/internal/domain"
)

// Notifier presents run results to the user. The console implementation
// prints formatted tables; the core only hands over structured records.
type Notifier interface {
	// NotifySignals shows the per-market signals of one scan cycle plus
	// the paper portfolio state after trades were applied.
	NotifySignals(ctx context.Context, signals []domain.Signal, snapshot domain.PortfolioSnapshot) error

	// NotifyBacktest shows the per-market backtest reports and the
	// combined totals.
	NotifyBacktest(ctx context.Context, combined domain.CombinedResult) error
}
