package agent

// concurrent.go — worker pool for per-market analysis.
//
// Each market's fetch spends most of its time waiting on the Upbit API,
// so the pool overlaps the network round-trips. Results come back in
// configured market order regardless of completion order; failed markets
// are logged and dropped.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/hyunwoocho/upbot/internal/backtest"
	"github.com/hyunwoocho/upbot/internal/domain"
)

func (a *Agent) workers() int {
	if a.cfg.Workers > 0 {
		return a.cfg.Workers
	}
	return runtime.NumCPU() * 2
}

// analyzeConcurrent generates a live signal per market. Markets whose
// pipeline fails produce no signal and do not abort the cycle.
func (a *Agent) analyzeConcurrent(ctx context.Context) []domain.Signal {
	type result struct {
		idx int
		sig domain.Signal
		ok  bool
	}

	workCh := make(chan int, len(a.cfg.Markets))
	resultCh := make(chan result, len(a.cfg.Markets))

	var wg sync.WaitGroup
	for i := 0; i < a.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				sig, err := a.analyzeMarket(ctx, a.cfg.Markets[idx])
				if err != nil {
					slog.Warn("market analysis failed",
						"market", a.cfg.Markets[idx],
						"err", err,
					)
					resultCh <- result{idx: idx}
					continue
				}
				resultCh <- result{idx: idx, sig: sig, ok: true}
			}
		}()
	}

	for idx := range a.cfg.Markets {
		workCh <- idx
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ordered := make([]*domain.Signal, len(a.cfg.Markets))
	for r := range resultCh {
		if r.ok {
			sig := r.sig
			ordered[r.idx] = &sig
		}
	}

	signals := make([]domain.Signal, 0, len(a.cfg.Markets))
	for _, sig := range ordered {
		if sig != nil {
			signals = append(signals, *sig)
		}
	}
	return signals
}

// backtestConcurrent runs the engine over each market in parallel and
// returns the successful results in configured market order.
func (a *Agent) backtestConcurrent(ctx context.Context, engine *backtest.Engine, capital float64) []domain.BacktestResult {
	type result struct {
		idx int
		res domain.BacktestResult
		ok  bool
	}

	workCh := make(chan int, len(a.cfg.Markets))
	resultCh := make(chan result, len(a.cfg.Markets))

	var wg sync.WaitGroup
	for i := 0; i < a.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				res, err := a.backtestMarket(ctx, engine, a.cfg.Markets[idx], capital)
				if err != nil {
					slog.Warn("backtest failed",
						"market", a.cfg.Markets[idx],
						"err", err,
					)
					resultCh <- result{idx: idx}
					continue
				}
				resultCh <- result{idx: idx, res: res, ok: true}
			}
		}()
	}

	for idx := range a.cfg.Markets {
		workCh <- idx
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ordered := make([]*domain.BacktestResult, len(a.cfg.Markets))
	for r := range resultCh {
		if r.ok {
			res := r.res
			ordered[r.idx] = &res
		}
	}

	results := make([]domain.BacktestResult, 0, len(a.cfg.Markets))
	for _, res := range ordered {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}
