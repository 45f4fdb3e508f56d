package indicator

// Cross detects a golden/dead cross between two consecutive bars' moving
// averages. Golden: short crossed the long from below. Dead: short crossed
// the long from above. If either bar's averages are undefined, no event is
// manufactured — both flags are false.
//
// Note: the backtest exit rule uses a level test (curr short < curr long),
// not this transition test. The two are intentionally distinct.
func Cross(prevShort, prevLong, currShort, currLong float64) (golden, dead bool) {
	if !Defined(prevShort, prevLong, currShort, currLong) {
		return false, false
	}
	golden = prevShort < prevLong && currShort >= currLong
	dead = prevShort > prevLong && currShort <= currLong
	return golden, dead
}
