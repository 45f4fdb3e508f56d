package domain

import "time"

// Exit reasons recorded on a closed backtest trade.
const (
	ExitOverbought = "overbought"
	ExitDeadCross  = "dead-cross"
	ExitBoth       = "overbought + dead-cross"
	ExitForced     = "period-end forced liquidation"
)

// Trade is a closed round-trip produced by the backtest engine.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	PnL        float64 // absolute, in quote currency
	PnLPct     float64
	Reason     string
}

// EquityPoint is the total account value recorded at one simulated bar.
type EquityPoint struct {
	Time  time.Time
	Value float64 // cash + position value at close
}

// BacktestResult is the per-market outcome of one backtest run.
type BacktestResult struct {
	Market         string
	InitialCapital float64
	FinalCapital   float64
	TotalReturnPct float64
	TradeCount     int
	WinRatePct     float64
	MaxDrawdownPct float64 // 0 or negative
	Trades         []Trade
	Equity         []EquityPoint
	BarCount       int // bars walked by the engine
}

// CombinedResult aggregates backtest results across markets. The combined
// return is recomputed from summed capital, never averaged percentages.
type CombinedResult struct {
	Results        []BacktestResult
	InitialCapital float64
	FinalCapital   float64
	TotalReturnPct float64
}
