package notify_test

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/hyunwoocho/upbot/internal/adapters/notify"
	"github.com/hyunwoocho/upbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySignals(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	signals := []domain.Signal{
		{Market: "KRW-BTC", Action: domain.DecisionBuy, RSI: 27.4, MAShort: 101000, MALong: 99000, Close: 102500000, Reason: "RSI=27.4 (oversold) + golden cross"},
		{Market: "KRW-ETH", Action: domain.DecisionHold, RSI: math.NaN(), MAShort: math.NaN(), MALong: math.NaN(), Close: math.NaN(), Reason: "insufficient data"},
	}
	snapshot := domain.PortfolioSnapshot{
		Cash:       900_000,
		TotalValue: 1_000_000,
		Invested:   100_000,
		Positions: []domain.PositionDetail{
			{Market: "KRW-BTC", Quantity: 0.001, EntryPrice: 100_000_000, PnLPct: 2.5, PnL: 2_500},
		},
		TradeCount: 1,
	}

	err := c.NotifySignals(context.Background(), signals, snapshot)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "KRW-BTC")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "golden cross")
	assert.Contains(t, out, "N/A") // undefined RSI must not print as NaN
	assert.Contains(t, out, "PAPER PORTFOLIO")
	assert.NotContains(t, out, "NaN")
}

func TestNotifySignals_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	require.NoError(t, c.NotifySignals(context.Background(), nil, domain.PortfolioSnapshot{}))
	assert.Contains(t, buf.String(), "no markets analyzed")
}

func TestNotifyBacktest(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	entry := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	combined := domain.CombinedResult{
		Results: []domain.BacktestResult{
			{
				Market:         "KRW-BTC",
				InitialCapital: 1_000_000,
				FinalCapital:   1_150_000,
				TotalReturnPct: 15,
				TradeCount:     1,
				WinRatePct:     100,
				MaxDrawdownPct: -4.2,
				BarCount:       200,
				Trades: []domain.Trade{
					{
						EntryTime:  entry,
						ExitTime:   entry.AddDate(0, 0, 30),
						EntryPrice: 90_000_000,
						ExitPrice:  103_500_000,
						PnL:        150_000,
						PnLPct:     15,
						Reason:     domain.ExitForced,
					},
				},
			},
		},
		InitialCapital: 1_000_000,
		FinalCapital:   1_150_000,
		TotalReturnPct: 15,
	}

	require.NoError(t, c.NotifyBacktest(context.Background(), combined))

	out := buf.String()
	assert.Contains(t, out, "KRW-BTC")
	assert.Contains(t, out, "200 bars")
	assert.Contains(t, out, "+15.00%")
	assert.Contains(t, out, "period-end forced liquidation")
	assert.Contains(t, out, "COMBINED (1 markets)")
}

func TestNotifyBacktest_NoResults(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	require.NoError(t, c.NotifyBacktest(context.Background(), domain.CombinedResult{}))
	assert.Contains(t, buf.String(), "all markets skipped")
}
