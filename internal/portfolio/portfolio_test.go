package portfolio

import (
	"testing"

	"github.com/hyunwoocho/upbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuy_OpensPosition(t *testing.T) {
	p := New(1_000_000)

	require.NoError(t, p.Buy("KRW-BTC", 100_000, 50_000_000))

	pos, ok := p.Position("KRW-BTC")
	require.True(t, ok)
	assert.InDelta(t, 100_000.0/50_000_000, pos.Quantity, 1e-12)
	assert.Equal(t, 50_000_000.0, pos.EntryPrice)
	assert.Equal(t, 100_000.0, pos.Invested)

	// cash = initial - amount - 0.05% fee
	assert.InDelta(t, 1_000_000-100_000-50, p.Cash(), 1e-9)
	assert.GreaterOrEqual(t, p.Cash(), 0.0)

	require.Len(t, p.History(), 1)
	rec := p.History()[0]
	assert.Equal(t, domain.DecisionBuy, rec.Side)
	assert.NotEmpty(t, rec.ID)
	assert.InDelta(t, 50.0, rec.Fee, 1e-9)
}

func TestBuy_AveragesIn(t *testing.T) {
	p := New(1_000_000)

	require.NoError(t, p.Buy("KRW-BTC", 100_000, 100))
	require.NoError(t, p.Buy("KRW-BTC", 100_000, 200))

	pos, ok := p.Position("KRW-BTC")
	require.True(t, ok)

	// avg = (a1+a2) / (a1/p1 + a2/p2)
	wantAvg := 200_000.0 / (100_000.0/100 + 100_000.0/200)
	assert.InDelta(t, wantAvg, pos.EntryPrice, 1e-9)
	assert.InDelta(t, 1500.0, pos.Quantity, 1e-9)
	assert.Equal(t, 200_000.0, pos.Invested)
	assert.Len(t, p.History(), 2)
}

func TestBuy_InsufficientFundsIsNoOp(t *testing.T) {
	p := New(100_000)

	// amount fits but amount + fee does not
	err := p.Buy("KRW-BTC", 100_000, 100)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	_, ok := p.Position("KRW-BTC")
	assert.False(t, ok)
	assert.Equal(t, 100_000.0, p.Cash())
	assert.Empty(t, p.History())
}

func TestBuy_ExactlyAffordable(t *testing.T) {
	p := New(100_050)

	require.NoError(t, p.Buy("KRW-BTC", 100_000, 100))
	assert.InDelta(t, 0.0, p.Cash(), 1e-9)
	assert.GreaterOrEqual(t, p.Cash(), -1e-9)
}

func TestBuy_RejectsNonPositive(t *testing.T) {
	p := New(100_000)
	assert.Error(t, p.Buy("KRW-BTC", 0, 100))
	assert.Error(t, p.Buy("KRW-BTC", 1000, 0))
	assert.Empty(t, p.History())
}

func TestSell_RealizesPnL(t *testing.T) {
	p := New(1_000_000)
	require.NoError(t, p.Buy("KRW-BTC", 100_000, 100))

	cashBefore := p.Cash()
	require.NoError(t, p.Sell("KRW-BTC", 120))

	_, ok := p.Position("KRW-BTC")
	assert.False(t, ok)

	// qty 1000, proceeds 120000, fee 60, net 119940, pnl 19940
	assert.InDelta(t, cashBefore+119_940, p.Cash(), 1e-9)

	require.Len(t, p.History(), 2)
	rec := p.History()[1]
	assert.Equal(t, domain.DecisionSell, rec.Side)
	assert.InDelta(t, 19_940.0, rec.PnL, 1e-9)
	assert.InDelta(t, 60.0, rec.Fee, 1e-9)
}

func TestSell_NoPositionIsNoOp(t *testing.T) {
	p := New(1_000_000)

	err := p.Sell("KRW-BTC", 100)
	require.ErrorIs(t, err, ErrNoPosition)
	assert.Equal(t, 1_000_000.0, p.Cash())
	assert.Empty(t, p.History())
}

func TestPosition_Valuation(t *testing.T) {
	pos := domain.Position{Invested: 100_000, EntryPrice: 100, Quantity: 1000}

	assert.InDelta(t, 110_000.0, pos.Value(110), 1e-9)
	assert.InDelta(t, 10_000.0, pos.PnL(110), 1e-9)
	assert.InDelta(t, 10.0, pos.PnLPct(110), 1e-9)

	empty := domain.Position{}
	assert.Equal(t, 0.0, empty.PnLPct(110))
}

func TestSnapshot(t *testing.T) {
	p := New(1_000_000)
	require.NoError(t, p.Buy("KRW-BTC", 100_000, 100))
	require.NoError(t, p.Buy("KRW-ETH", 200_000, 50))

	snap := p.Snapshot(map[string]float64{"KRW-BTC": 110, "KRW-ETH": 45})

	assert.InDelta(t, 1_000_000-300_000-150, snap.Cash, 1e-9)
	// BTC: 1000 @ 110 = 110000; ETH: 4000 @ 45 = 180000
	assert.InDelta(t, 290_000.0, snap.PositionsValue, 1e-9)
	assert.InDelta(t, 300_000.0, snap.Invested, 1e-9)
	assert.InDelta(t, -10_000.0, snap.TotalPnL, 1e-9)
	assert.InDelta(t, -10_000.0/300_000*100, snap.TotalPnLPct, 1e-9)
	assert.InDelta(t, snap.Cash+snap.PositionsValue, snap.TotalValue, 1e-9)
	assert.Equal(t, 2, snap.TradeCount)
	assert.Len(t, snap.Positions, 2)
}

func TestSnapshot_MissingPriceFallsBackToEntry(t *testing.T) {
	p := New(1_000_000)
	require.NoError(t, p.Buy("KRW-BTC", 100_000, 100))

	snap := p.Snapshot(nil)
	assert.InDelta(t, 100_000.0, snap.PositionsValue, 1e-9)
	assert.InDelta(t, 0.0, snap.TotalPnL, 1e-9)
}

func TestSnapshot_EmptyPortfolio(t *testing.T) {
	p := New(500_000)
	snap := p.Snapshot(nil)

	assert.Equal(t, 500_000.0, snap.Cash)
	assert.Equal(t, 500_000.0, snap.TotalValue)
	assert.Equal(t, 0.0, snap.TotalPnLPct)
	assert.Empty(t, snap.Positions)
}
