package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/hyunwoocho/upbot/internal/domain"
	"github.com/hyunwoocho/upbot/internal/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameWith builds a two-bar frame with explicit indicator values so each
// rule branch can be exercised directly.
func frameWith(rsi, prevShort, prevLong, currShort, currLong float64) indicator.Frame {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	candles := []domain.Candle{
		{Timestamp: start, Close: 100},
		{Timestamp: start.AddDate(0, 0, 1), Close: 105},
	}
	return indicator.Frame{
		Candles: candles,
		RSI:     []float64{math.NaN(), rsi},
		MAShort: []float64{prevShort, currShort},
		MALong:  []float64{prevLong, currLong},
		Golden:  make([]bool, 2),
		Dead:    make([]bool, 2),
	}
}

func TestGenerate_Buy(t *testing.T) {
	g := NewGenerator(30, 70)
	// oversold RSI + golden cross on the latest transition
	sig := g.Generate(frameWith(25.0, 98, 100, 101, 100), "KRW-BTC")

	assert.Equal(t, domain.DecisionBuy, sig.Action)
	assert.Equal(t, "KRW-BTC", sig.Market)
	assert.Equal(t, 105.0, sig.Close)
	assert.Contains(t, sig.Reason, "oversold")
	assert.Contains(t, sig.Reason, "golden cross")
}

func TestGenerate_Sell(t *testing.T) {
	g := NewGenerator(30, 70)
	sig := g.Generate(frameWith(75.0, 102, 100, 99, 100), "KRW-ETH")

	assert.Equal(t, domain.DecisionSell, sig.Action)
	assert.Contains(t, sig.Reason, "overbought")
	assert.Contains(t, sig.Reason, "dead cross")
}

func TestGenerate_OversoldWithoutCrossHolds(t *testing.T) {
	g := NewGenerator(30, 70)
	// RSI extreme alone is not enough on the live path
	sig := g.Generate(frameWith(25.0, 98, 100, 99, 100), "KRW-BTC")

	assert.Equal(t, domain.DecisionHold, sig.Action)
	assert.Contains(t, sig.Reason, "RSI=25.0")
	assert.Contains(t, sig.Reason, "downtrend")
}

func TestGenerate_CrossWithoutRSIHolds(t *testing.T) {
	g := NewGenerator(30, 70)
	sig := g.Generate(frameWith(50.0, 98, 100, 101, 100), "KRW-BTC")

	assert.Equal(t, domain.DecisionHold, sig.Action)
	assert.Contains(t, sig.Reason, "uptrend")
}

func TestGenerate_UndefinedRSIHolds(t *testing.T) {
	g := NewGenerator(30, 70)
	// undefined RSI is "insufficient evidence", never a trade
	sig := g.Generate(frameWith(math.NaN(), 98, 100, 101, 100), "KRW-BTC")

	assert.Equal(t, domain.DecisionHold, sig.Action)
	assert.Contains(t, sig.Reason, "uptrend")
	assert.NotContains(t, sig.Reason, "RSI")
}

func TestGenerate_AllUndefined(t *testing.T) {
	nan := math.NaN()
	g := NewGenerator(30, 70)
	sig := g.Generate(frameWith(nan, nan, nan, nan, nan), "KRW-BTC")

	assert.Equal(t, domain.DecisionHold, sig.Action)
	assert.Equal(t, "conditions not met", sig.Reason)
}

func TestGenerate_InsufficientHistory(t *testing.T) {
	g := NewGenerator(30, 70)

	for _, f := range []indicator.Frame{
		{},
		indicator.Compute([]domain.Candle{{Close: 100}}, indicator.DefaultParams(), indicator.WilderSmoother{}),
	} {
		sig := g.Generate(f, "KRW-XRP")
		assert.Equal(t, domain.DecisionHold, sig.Action)
		assert.Equal(t, "insufficient data", sig.Reason)
		assert.True(t, math.IsNaN(sig.RSI))
		assert.True(t, math.IsNaN(sig.Close))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewGenerator(30, 70)
	f := frameWith(25.0, 98, 100, 101, 100)

	first := g.Generate(f, "KRW-BTC")
	second := g.Generate(f, "KRW-BTC")
	require.Equal(t, first, second)
}
