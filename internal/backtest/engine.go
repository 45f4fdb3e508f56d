package backtest

// engine.go — single-pass bar-walk simulation.
//
// The entry/exit rule here is NOT the live signal rule: entries fire on
// RSI alone (no crossover confirmation), exits fire on RSI overbought OR
// a level dead cross (short MA below long MA, not a transition), and no
// fees are charged. Historical results were produced under exactly these
// rules, so they must not be "fixed" to match the live path.

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyunwoocho/upbot/internal/domain"
	"github.com/hyunwoocho/upbot/internal/indicator"
)

// ErrNoData is returned when a market has no candles to simulate.
var ErrNoData = errors.New("backtest: no candle data")

// Engine walks a candle series once, holding at most one position.
type Engine struct {
	Params     indicator.Params
	Oversold   float64
	Overbought float64
	smoother   indicator.Smoother
}

// NewEngine creates an Engine. The RSI series uses the rolling-mean
// smoother; the Wilder variant belongs to the live path.
func NewEngine(params indicator.Params, oversold, overbought float64) *Engine {
	return &Engine{
		Params:     params,
		Oversold:   oversold,
		Overbought: overbought,
		smoother:   indicator.RollingSmoother{},
	}
}

// position is the engine-internal single-position state. Fee-free by
// design; the paper portfolio's fee-charging ledger is a separate thing.
type position struct {
	quantity   float64
	entryPrice float64
	entryTime  time.Time
}

// Run simulates the strategy over the candles with the given starting
// capital and returns the result for one market.
func (e *Engine) Run(market string, candles []domain.Candle, capital float64) (domain.BacktestResult, error) {
	if len(candles) == 0 {
		return domain.BacktestResult{}, fmt.Errorf("backtest.Run: %s: %w", market, ErrNoData)
	}
	if capital <= 0 {
		return domain.BacktestResult{}, fmt.Errorf("backtest.Run: %s: non-positive capital %.2f", market, capital)
	}

	frame := indicator.Compute(candles, e.Params, e.smoother)

	cash := capital
	var pos *position
	var trades []domain.Trade
	equity := make([]domain.EquityPoint, 0, len(candles)+1)

	for i, c := range candles {
		closePrice := c.Close

		// Bars with undefined indicators still mark equity below, they
		// just never trade.
		if frame.Usable(i) {
			rsi := frame.RSI[i]

			switch {
			case pos == nil && rsi < e.Oversold:
				// all-in at this bar's close
				pos = &position{
					quantity:   cash / closePrice,
					entryPrice: closePrice,
					entryTime:  c.Timestamp,
				}
				cash = 0

			case pos != nil:
				sellRSI := rsi > e.Overbought
				sellDead := frame.MAShort[i] < frame.MALong[i] // level, not transition

				if sellRSI || sellDead {
					cash = pos.quantity * closePrice
					trades = append(trades, closeTrade(pos, c.Timestamp, closePrice, exitReason(sellRSI, sellDead)))
					pos = nil
				}
			}
		}

		value := cash
		if pos != nil {
			value += pos.quantity * closePrice
		}
		equity = append(equity, domain.EquityPoint{Time: c.Timestamp, Value: value})
	}

	// Anything still open is liquidated at the last close.
	if pos != nil {
		last := candles[len(candles)-1]
		cash = pos.quantity * last.Close
		trades = append(trades, closeTrade(pos, last.Timestamp, last.Close, domain.ExitForced))
		equity = append(equity, domain.EquityPoint{Time: last.Timestamp, Value: cash})
		pos = nil
	}

	result := summarize(market, capital, cash, trades, equity, len(candles))

	slog.Debug("backtest finished",
		"market", market,
		"bars", result.BarCount,
		"trades", result.TradeCount,
		"return_pct", result.TotalReturnPct,
	)
	return result, nil
}

func closeTrade(pos *position, exitTime time.Time, exitPrice float64, reason string) domain.Trade {
	exitValue := pos.quantity * exitPrice
	return domain.Trade{
		EntryTime:  pos.entryTime,
		ExitTime:   exitTime,
		EntryPrice: pos.entryPrice,
		ExitPrice:  exitPrice,
		PnL:        exitValue - pos.quantity*pos.entryPrice,
		PnLPct:     (exitPrice - pos.entryPrice) / pos.entryPrice * 100,
		Reason:     reason,
	}
}

func exitReason(sellRSI, sellDead bool) string {
	switch {
	case sellRSI && sellDead:
		return domain.ExitBoth
	case sellRSI:
		return domain.ExitOverbought
	default:
		return domain.ExitDeadCross
	}
}
