package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyunwoocho/upbot/internal/backtest"
	"github.com/hyunwoocho/upbot/internal/domain"
	"github.com/hyunwoocho/upbot/internal/indicator"
	"github.com/hyunwoocho/upbot/internal/portfolio"
	"github.com/hyunwoocho/upbot/internal/ports"
	"github.com/hyunwoocho/upbot/internal/strategy"
)

// Config controls the agent's behavior.
type Config struct {
	Markets      []string
	CandleCount  int
	TradeAmount  float64 // cash committed per BUY signal
	ScanInterval time.Duration
	Workers      int
	Params       indicator.Params
	Oversold     float64
	Overbought   float64
	Once         bool // run a single cycle and return
}

// DefaultConfig returns the standard production configuration.
func DefaultConfig() Config {
	return Config{
		Markets:      []string{"KRW-BTC", "KRW-ETH", "KRW-XRP"},
		CandleCount:  200,
		TradeAmount:  100_000,
		ScanInterval: time.Hour,
		Params:       indicator.DefaultParams(),
		Oversold:     30,
		Overbought:   70,
	}
}

// Agent is the orchestrator: it fetches market data, generates signals,
// applies them to the paper portfolio and hands results to the notifier
// and storage. Data retrieval runs concurrently per market; portfolio
// mutation is strictly sequential.
type Agent struct {
	cfg       Config
	data      ports.MarketData
	notifier  ports.Notifier
	storage   ports.Storage
	portfolio *portfolio.Portfolio
	generator *strategy.Generator
}

// New creates an Agent with all dependencies injected. storage may be
// nil (dry runs keep no history).
func New(cfg Config, data ports.MarketData, notifier ports.Notifier, storage ports.Storage, pf *portfolio.Portfolio) *Agent {
	return &Agent{
		cfg:       cfg,
		data:      data,
		notifier:  notifier,
		storage:   storage,
		portfolio: pf,
		generator: strategy.NewGenerator(cfg.Oversold, cfg.Overbought),
	}
}

// Run executes scan cycles until the context is cancelled. With cfg.Once
// it returns after the first cycle.
func (a *Agent) Run(ctx context.Context) error {
	slog.Info("agent starting",
		"markets", len(a.cfg.Markets),
		"interval", a.cfg.ScanInterval,
		"once", a.cfg.Once,
	)

	if _, err := a.RunOnce(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if a.cfg.Once {
			return err
		}
	}

	if a.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(a.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("agent stopped")
			return nil
		case <-ticker.C:
			if _, err := a.RunOnce(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce executes a single scan cycle: analyze every market, trade on
// the signals and report. The returned signals are in configured market
// order; markets whose pipeline failed are absent.
func (a *Agent) RunOnce(ctx context.Context) ([]domain.Signal, error) {
	start := time.Now()

	signals := a.analyzeConcurrent(ctx)
	if len(signals) == 0 {
		slog.Warn("no markets produced a signal this cycle")
	}

	prices := a.applyTrades(signals)
	snapshot := a.portfolio.Snapshot(prices)

	if err := a.notifier.NotifySignals(ctx, signals, snapshot); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if a.storage != nil {
		if err := a.storage.SaveSignals(ctx, signals); err != nil {
			slog.Warn("storage error", "err", err)
		}
		if err := a.storage.SavePaperTrades(ctx, a.portfolio.History()); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("scan cycle complete",
		"signals", len(signals),
		"total_value", snapshot.TotalValue,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return signals, nil
}

// applyTrades mutates the paper portfolio according to the signals, one
// market at a time, and returns the close prices for marking to market.
// Rejected operations are reported and skipped, never fatal.
func (a *Agent) applyTrades(signals []domain.Signal) map[string]float64 {
	prices := make(map[string]float64, len(signals))

	for _, sig := range signals {
		if indicator.Defined(sig.Close) {
			prices[sig.Market] = sig.Close
		}

		switch sig.Action {
		case domain.DecisionBuy:
			if _, held := a.portfolio.Position(sig.Market); held {
				slog.Info("skip buy: already holding", "market", sig.Market)
				continue
			}
			err := a.portfolio.Buy(sig.Market, a.cfg.TradeAmount, sig.Close)
			if errors.Is(err, portfolio.ErrInsufficientFunds) {
				continue // already logged by the ledger
			}
			if err != nil {
				slog.Warn("buy failed", "market", sig.Market, "err", err)
			}

		case domain.DecisionSell:
			err := a.portfolio.Sell(sig.Market, sig.Close)
			if errors.Is(err, portfolio.ErrNoPosition) {
				continue
			}
			if err != nil {
				slog.Warn("sell failed", "market", sig.Market, "err", err)
			}
		}
	}
	return prices
}

// analyzeMarket runs the live pipeline for one market: fetch → Wilder
// indicator frame → signal. A failed or empty fetch skips the market.
func (a *Agent) analyzeMarket(ctx context.Context, market string) (domain.Signal, error) {
	candles, err := a.data.FetchDayCandles(ctx, market, a.cfg.CandleCount)
	if err != nil {
		return domain.Signal{}, fmt.Errorf("agent.analyzeMarket: %s: %w", market, err)
	}
	if len(candles) == 0 {
		return domain.Signal{}, fmt.Errorf("agent.analyzeMarket: %s: no data", market)
	}

	frame := indicator.Compute(candles, a.cfg.Params, indicator.WilderSmoother{})
	return a.generator.Generate(frame, market), nil
}

// Backtest simulates the strategy over each market's history, aggregates
// the results and reports them. Failed markets are omitted from the
// combined totals entirely.
func (a *Agent) Backtest(ctx context.Context, capital float64) (domain.CombinedResult, error) {
	engine := backtest.NewEngine(a.cfg.Params, a.cfg.Oversold, a.cfg.Overbought)

	results := a.backtestConcurrent(ctx, engine, capital)
	combined := backtest.Combine(results)

	if err := a.notifier.NotifyBacktest(ctx, combined); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	if a.storage != nil {
		if err := a.storage.SaveBacktest(ctx, combined); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("backtest complete",
		"markets", len(combined.Results),
		"return_pct", combined.TotalReturnPct,
	)
	return combined, nil
}

// backtestMarket fetches a market's history and runs the engine on it.
func (a *Agent) backtestMarket(ctx context.Context, engine *backtest.Engine, market string, capital float64) (domain.BacktestResult, error) {
	candles, err := a.data.FetchDayCandles(ctx, market, a.cfg.CandleCount)
	if err != nil {
		return domain.BacktestResult{}, fmt.Errorf("agent.backtestMarket: %s: %w", market, err)
	}
	if len(candles) == 0 {
		return domain.BacktestResult{}, fmt.Errorf("agent.backtestMarket: %s: %w", market, backtest.ErrNoData)
	}
	return engine.Run(market, candles, capital)
}
