package indicator

// smoother.go — the two RSI smoothing strategies.
//
// The backtest pipeline historically used plain rolling means of gains and
// losses, while the live signal pipeline uses Wilder's recursive smoothing.
// They produce different values, so historical results depend on which one
// is applied. Keep them as separate named strategies; do not unify.

import "math"

// Smoother turns a close series into an RSI series of the same length.
// Slots without enough history (first `period` bars) and slots where the
// average loss is zero are NaN — never infinity.
type Smoother interface {
	Name() string
	Values(closes []float64, period int) []float64
}

// RollingSmoother computes RSI from simple rolling means of gains and
// losses over the trailing window. Used by the backtest path.
type RollingSmoother struct{}

func (RollingSmoother) Name() string { return "rolling" }

func (RollingSmoother) Values(closes []float64, period int) []float64 {
	rsi := nanSlice(len(closes))
	if period <= 0 || len(closes) <= period {
		return rsi
	}

	gains, losses := deltas(closes)
	for i := period; i < len(closes); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		rsi[i] = fromAverages(sumGain/float64(period), sumLoss/float64(period))
	}
	return rsi
}

// WilderSmoother computes RSI with Wilder's exponential smoothing: the
// averages are seeded with the mean of the first `period` gains/losses and
// then updated as avg = (avg*(period-1) + x) / period. Used by the live
// signal path.
type WilderSmoother struct{}

func (WilderSmoother) Name() string { return "wilder" }

func (WilderSmoother) Values(closes []float64, period int) []float64 {
	rsi := nanSlice(len(closes))
	if period <= 0 || len(closes) <= period {
		return rsi
	}

	gains, losses := deltas(closes)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = fromAverages(avgGain, avgLoss)

	n := float64(period)
	for i := period + 1; i < len(closes); i++ {
		avgGain = (avgGain*(n-1) + gains[i]) / n
		avgLoss = (avgLoss*(n-1) + losses[i]) / n
		rsi[i] = fromAverages(avgGain, avgLoss)
	}
	return rsi
}

// deltas splits close-to-close differences into positive and negative
// parts. Index 0 has no predecessor and stays zero.
func deltas(closes []float64) (gains, losses []float64) {
	gains = make([]float64, len(closes))
	losses = make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	return gains, losses
}

// fromAverages converts average gain/loss into an RSI value. A zero
// average loss would divide by zero, so the value is undefined.
func fromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return math.NaN()
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
