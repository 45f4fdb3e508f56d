package domain

import (
	"fmt"
	"time"
)

// Candle is one OHLCV bar of a daily (or intraday) series.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Closes extracts the close series from a candle slice.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// ValidateSeries checks that a candle slice is strictly time-ordered,
// ascending, with no duplicate timestamps. Violations are a data-quality
// problem at the boundary and should be rejected before indicators run.
func ValidateSeries(candles []Candle) error {
	for i := 1; i < len(candles); i++ {
		prev, curr := candles[i-1].Timestamp, candles[i].Timestamp
		if !curr.After(prev) {
			return fmt.Errorf("domain.ValidateSeries: candle %d (%s) not after candle %d (%s)",
				i, curr.Format(time.RFC3339), i-1, prev.Format(time.RFC3339))
		}
	}
	return nil
}
