package domain

import "time"

// Position is the single open holding for one market. There is never more
// than one Position per market: buying into an existing one averages the
// entry price instead of opening a second.
type Position struct {
	Market     string
	Invested   float64 // cash committed to enter, fees excluded
	EntryPrice float64 // weighted-average entry price
	Quantity   float64
	EntryTime  time.Time
}

// Value returns the mark-to-market value of the position.
func (p Position) Value(price float64) float64 {
	return p.Quantity * price
}

// PnL returns the unrealized profit/loss at the given price.
func (p Position) PnL(price float64) float64 {
	return p.Value(price) - p.Invested
}

// PnLPct returns the unrealized profit/loss as a percentage of invested
// capital, 0 if nothing is invested.
func (p Position) PnLPct(price float64) float64 {
	if p.Invested == 0 {
		return 0
	}
	return p.PnL(price) / p.Invested * 100
}

// TradeRecord is one fill in the paper portfolio's history.
type TradeRecord struct {
	ID       string
	Time     time.Time
	Side     Decision // BUY or SELL
	Market   string
	Price    float64
	Amount   float64 // BUY: cash spent (ex fee); SELL: net proceeds
	Quantity float64
	Fee      float64
	PnL      float64 // realized, SELL only
}

// PositionDetail is the per-market line of a portfolio snapshot.
type PositionDetail struct {
	Market       string
	EntryPrice   float64
	CurrentPrice float64
	Quantity     float64
	Invested     float64
	CurrentValue float64
	PnL          float64
	PnLPct       float64
}

// PortfolioSnapshot is a read-only view of the paper portfolio, marked to
// market with the prices supplied at snapshot time.
type PortfolioSnapshot struct {
	Cash           float64
	PositionsValue float64
	TotalValue     float64
	Invested       float64
	TotalPnL       float64
	TotalPnLPct    float64
	Positions      []PositionDetail
	TradeCount     int
}
