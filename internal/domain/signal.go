package domain

// Decision is the discrete trading action for a single bar.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// Signal is the snapshot decision for one market at the latest bar.
// Indicator fields are NaN when the underlying value is undefined
// (not enough history, zero average loss).
type Signal struct {
	Market  string
	Action  Decision
	RSI     float64
	MAShort float64
	MALong  float64
	Close   float64
	Reason  string
}
