package backtest

import "github.com/hyunwoocho/upbot/internal/domain"

// summarize derives the aggregate statistics for one market's run.
func summarize(market string, initial, final float64, trades []domain.Trade, equity []domain.EquityPoint, bars int) domain.BacktestResult {
	return domain.BacktestResult{
		Market:         market,
		InitialCapital: initial,
		FinalCapital:   final,
		TotalReturnPct: (final - initial) / initial * 100,
		TradeCount:     len(trades),
		WinRatePct:     winRatePct(trades),
		MaxDrawdownPct: maxDrawdownPct(equity),
		Trades:         trades,
		Equity:         equity,
		BarCount:       bars,
	}
}

// winRatePct is the share of closed trades with positive return, 0 when
// there are no trades.
func winRatePct(trades []domain.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PnLPct > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

// maxDrawdownPct is the deepest percentage decline from a running peak of
// the equity curve. Always 0 or negative; 0 for an empty or monotonically
// non-decreasing curve.
func maxDrawdownPct(equity []domain.EquityPoint) float64 {
	var peak, mdd float64
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak <= 0 {
			continue // no meaningful drawdown from a non-positive peak
		}
		dd := (p.Value - peak) / peak * 100
		if dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

// Combine aggregates per-market results into portfolio totals. The
// combined return is recomputed from the summed capital; averaging the
// percentage returns would weight markets incorrectly.
func Combine(results []domain.BacktestResult) domain.CombinedResult {
	c := domain.CombinedResult{Results: results}
	for _, r := range results {
		c.InitialCapital += r.InitialCapital
		c.FinalCapital += r.FinalCapital
	}
	if c.InitialCapital > 0 {
		c.TotalReturnPct = (c.FinalCapital - c.InitialCapital) / c.InitialCapital * 100
	}
	return c
}
