package indicator

import (
	"github.com/hyunwoocho/upbot/internal/domain"
)

// Params are the indicator window lengths.
type Params struct {
	RSIPeriod int
	MAShort   int
	MALong    int
}

// DefaultParams returns the standard RSI(14) + MA(5/20) configuration.
func DefaultParams() Params {
	return Params{RSIPeriod: 14, MAShort: 5, MALong: 20}
}

// Frame is a candle series augmented with index-aligned derived series.
// Every slice has the same length as the input candles; early slots are
// NaN until the relevant window is full. Values at index i depend only on
// candles at indices <= i.
type Frame struct {
	Candles []domain.Candle
	RSI     []float64
	MAShort []float64
	MALong  []float64
	Golden  []bool
	Dead    []bool
}

// Compute derives RSI (with the given smoother), the two moving averages
// and the per-bar crossover flags for the candle series.
func Compute(candles []domain.Candle, p Params, smoother Smoother) Frame {
	closes := domain.Closes(candles)

	f := Frame{
		Candles: candles,
		RSI:     smoother.Values(closes, p.RSIPeriod),
		MAShort: SMA(closes, p.MAShort),
		MALong:  SMA(closes, p.MALong),
		Golden:  make([]bool, len(candles)),
		Dead:    make([]bool, len(candles)),
	}

	for i := 1; i < len(candles); i++ {
		f.Golden[i], f.Dead[i] = Cross(f.MAShort[i-1], f.MALong[i-1], f.MAShort[i], f.MALong[i])
	}
	return f
}

// Len returns the number of bars in the frame.
func (f Frame) Len() int { return len(f.Candles) }

// Usable reports whether all three indicator values are defined at i.
func (f Frame) Usable(i int) bool {
	return Defined(f.RSI[i], f.MAShort[i], f.MALong[i])
}
