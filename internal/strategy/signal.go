package strategy

// signal.go — live decision rule: RSI extreme AND a crossover event must
// agree before the agent acts.
//
// This rule is stricter than the backtest engine's (which enters on RSI
// alone and exits on RSI or a level dead cross). The divergence is
// deliberate and baked into the historical results; see DESIGN.md before
// touching either side.

import (
	"fmt"
	"math"
	"strings"

	"github.com/hyunwoocho/upbot/internal/domain"
	"github.com/hyunwoocho/upbot/internal/indicator"
)

// Generator evaluates the RSI + MA crossover rule at the latest bar.
type Generator struct {
	Oversold   float64
	Overbought float64
}

// NewGenerator creates a Generator with the given RSI thresholds.
func NewGenerator(oversold, overbought float64) *Generator {
	return &Generator{Oversold: oversold, Overbought: overbought}
}

// Generate produces the signal for the latest bar of the frame. It is a
// pure function: same frame in, same signal out, no state kept between
// calls. With fewer than two bars there is nothing to compare, so the
// result is a HOLD with all indicator fields undefined.
func (g *Generator) Generate(f indicator.Frame, market string) domain.Signal {
	n := f.Len()
	if n < 2 {
		return domain.Signal{
			Market:  market,
			Action:  domain.DecisionHold,
			RSI:     math.NaN(),
			MAShort: math.NaN(),
			MALong:  math.NaN(),
			Close:   math.NaN(),
			Reason:  "insufficient data",
		}
	}

	last := n - 1
	rsi := f.RSI[last]
	maShort := f.MAShort[last]
	maLong := f.MALong[last]
	closePrice := f.Candles[last].Close

	golden, dead := indicator.Cross(f.MAShort[last-1], f.MALong[last-1], maShort, maLong)

	var action domain.Decision
	var reason string
	switch {
	case indicator.Defined(rsi) && rsi < g.Oversold && golden:
		action = domain.DecisionBuy
		reason = fmt.Sprintf("RSI=%.1f (oversold) + golden cross", rsi)
	case indicator.Defined(rsi) && rsi > g.Overbought && dead:
		action = domain.DecisionSell
		reason = fmt.Sprintf("RSI=%.1f (overbought) + dead cross", rsi)
	default:
		action = domain.DecisionHold
		reason = holdReason(rsi, maShort, maLong)
	}

	return domain.Signal{
		Market:  market,
		Action:  action,
		RSI:     rsi,
		MAShort: maShort,
		MALong:  maLong,
		Close:   closePrice,
		Reason:  reason,
	}
}

// holdReason summarizes whatever indicator values are available so a HOLD
// is still explainable in the report.
func holdReason(rsi, maShort, maLong float64) string {
	var parts []string
	if indicator.Defined(rsi) {
		parts = append(parts, fmt.Sprintf("RSI=%.1f", rsi))
	}
	if indicator.Defined(maShort, maLong) {
		if maShort > maLong {
			parts = append(parts, "short>long (uptrend)")
		} else {
			parts = append(parts, "short<long (downtrend)")
		}
	}
	if len(parts) == 0 {
		return "conditions not met"
	}
	return strings.Join(parts, ", ")
}
