package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingRSI_UndefinedPrefix(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 17}
	period := 14

	rsi := RollingSmoother{}.Values(closes, period)
	require.Len(t, rsi, len(closes))

	for i := 0; i < period; i++ {
		assert.True(t, math.IsNaN(rsi[i]), "bar %d should be undefined", i)
	}
	for i := period; i < len(closes); i++ {
		assert.False(t, math.IsNaN(rsi[i]), "bar %d should be defined", i)
	}
}

func TestRollingRSI_KnownValue(t *testing.T) {
	// period 2: deltas +1, -1 → avg gain 0.5, avg loss 0.5 → RS=1 → RSI=50
	rsi := RollingSmoother{}.Values([]float64{10, 11, 10}, 2)
	require.Len(t, rsi, 3)
	assert.InDelta(t, 50.0, rsi[2], 1e-9)
}

func TestWilderRSI_KnownValues(t *testing.T) {
	rsi := WilderSmoother{}.Values([]float64{10, 11, 10, 12}, 2)
	require.Len(t, rsi, 4)

	// seed: avg gain (1+0)/2, avg loss (0+1)/2 → RSI 50
	assert.InDelta(t, 50.0, rsi[2], 1e-9)
	// next: gain 2 → avgGain=(0.5+2)/2=1.25, avgLoss=0.25 → RS=5 → RSI 83.33
	assert.InDelta(t, 100-100.0/6, rsi[3], 1e-9)
}

func TestRSI_BoundedWhenDefined(t *testing.T) {
	closes := make([]float64, 120)
	price := 100.0
	for i := range closes {
		// deterministic zig-zag with drift
		if i%3 == 0 {
			price *= 1.04
		} else {
			price *= 0.99
		}
		closes[i] = price
	}

	for _, s := range []Smoother{RollingSmoother{}, WilderSmoother{}} {
		rsi := s.Values(closes, 14)
		for i, v := range rsi {
			if math.IsNaN(v) {
				continue
			}
			assert.GreaterOrEqual(t, v, 0.0, "%s bar %d", s.Name(), i)
			assert.LessOrEqual(t, v, 100.0, "%s bar %d", s.Name(), i)
		}
	}
}

func TestRSI_ZeroLossIsUndefined(t *testing.T) {
	// strictly increasing closes → average loss 0 → undefined, not +Inf
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	for _, s := range []Smoother{RollingSmoother{}, WilderSmoother{}} {
		rsi := s.Values(closes, 3)
		for i, v := range rsi {
			assert.True(t, math.IsNaN(v), "%s bar %d: got %v", s.Name(), i, v)
		}
	}
}

func TestRSI_ShortSeries(t *testing.T) {
	for _, s := range []Smoother{RollingSmoother{}, WilderSmoother{}} {
		rsi := s.Values([]float64{1, 2}, 14)
		require.Len(t, rsi, 2)
		assert.True(t, math.IsNaN(rsi[0]))
		assert.True(t, math.IsNaN(rsi[1]))
	}
}

func TestRSI_Idempotent(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 9, 14, 13, 15, 12, 16, 15, 17, 14, 18, 17, 19}
	for _, s := range []Smoother{RollingSmoother{}, WilderSmoother{}} {
		a := s.Values(closes, 5)
		b := s.Values(closes, 5)
		for i := range a {
			if math.IsNaN(a[i]) {
				assert.True(t, math.IsNaN(b[i]))
				continue
			}
			assert.Equal(t, a[i], b[i], "%s bar %d", s.Name(), i)
		}
	}
}

func TestSmoothersDiverge(t *testing.T) {
	// the two strategies are not interchangeable: past the seed window
	// they produce different values on the same input
	closes := []float64{10, 12, 9, 13, 8, 14, 7, 15, 6, 16, 5, 17}
	rolling := RollingSmoother{}.Values(closes, 3)
	wilder := WilderSmoother{}.Values(closes, 3)

	diverged := false
	for i := range closes {
		if Defined(rolling[i], wilder[i]) && math.Abs(rolling[i]-wilder[i]) > 1e-9 {
			diverged = true
		}
	}
	assert.True(t, diverged)
}
