package portfolio

// portfolio.go — in-memory paper-trading ledger.
//
// Tracks virtual cash, one position per market (buying into an existing
// position averages the entry price) and the full fill history. A 0.05%
// proportional fee is charged on both entry and exit, matching Upbit's
// KRW-market maker fee. The backtest engine deliberately does NOT use this
// ledger: its accounting is fee-free and the difference is intentional.

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hyunwoocho/upbot/internal/domain"
)

// FeeRate is the proportional fee charged on notional, both ways.
const FeeRate = 0.0005

var (
	// ErrInsufficientFunds is returned when a buy (amount + fee) exceeds
	// available cash. The portfolio is left untouched.
	ErrInsufficientFunds = errors.New("portfolio: insufficient funds")

	// ErrNoPosition is returned when selling a market with nothing open.
	ErrNoPosition = errors.New("portfolio: no open position")
)

// Portfolio is the single-writer paper account. The agent mutates it
// sequentially; it is not safe for concurrent writers.
type Portfolio struct {
	cash      float64
	positions map[string]*domain.Position
	history   []domain.TradeRecord
	now       func() time.Time
}

// New creates a portfolio holding the given initial cash.
func New(initialCash float64) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]*domain.Position),
		now:       time.Now,
	}
}

// Cash returns the available (uncommitted) cash.
func (p *Portfolio) Cash() float64 { return p.cash }

// Position returns the open position for the market, if any.
func (p *Portfolio) Position(market string) (domain.Position, bool) {
	pos, ok := p.positions[market]
	if !ok {
		return domain.Position{}, false
	}
	return *pos, true
}

// History returns the ordered fill history.
func (p *Portfolio) History() []domain.TradeRecord { return p.history }

// Buy commits `amount` of cash to the market at the given price. If a
// position is already open the new lot is averaged in: quantity adds up
// and the entry price becomes the weighted-average cost. The fee comes
// out of cash on top of the amount but never enters the cost basis.
// Fails with ErrInsufficientFunds (state unchanged) if amount + fee
// exceeds available cash.
func (p *Portfolio) Buy(market string, amount, price float64) error {
	if amount <= 0 || price <= 0 {
		return fmt.Errorf("portfolio.Buy: non-positive amount or price (%.2f @ %.2f)", amount, price)
	}

	fee := amount * FeeRate
	if amount+fee > p.cash {
		slog.Warn("buy rejected: insufficient funds",
			"market", market,
			"needed", amount+fee,
			"cash", p.cash,
		)
		return ErrInsufficientFunds
	}

	quantity := amount / price
	if pos, ok := p.positions[market]; ok {
		pos.Quantity += quantity
		pos.Invested += amount
		pos.EntryPrice = pos.Invested / pos.Quantity
	} else {
		p.positions[market] = &domain.Position{
			Market:     market,
			Invested:   amount,
			EntryPrice: price,
			Quantity:   quantity,
			EntryTime:  p.now(),
		}
	}

	p.cash -= amount + fee
	p.history = append(p.history, domain.TradeRecord{
		ID:       uuid.New().String(),
		Time:     p.now(),
		Side:     domain.DecisionBuy,
		Market:   market,
		Price:    price,
		Amount:   amount,
		Quantity: quantity,
		Fee:      fee,
	})

	slog.Info("paper buy",
		"market", market,
		"price", price,
		"quantity", quantity,
		"amount", amount,
		"fee", fee,
	)
	return nil
}

// Sell closes the whole position at the given price. Gross proceeds are
// quantity × price; the fee is deducted before crediting cash; realized
// P&L is net proceeds minus invested capital. Fails with ErrNoPosition
// (no-op) when the market has no open position.
func (p *Portfolio) Sell(market string, price float64) error {
	pos, ok := p.positions[market]
	if !ok {
		slog.Warn("sell rejected: no open position", "market", market)
		return ErrNoPosition
	}
	if price <= 0 {
		return fmt.Errorf("portfolio.Sell: non-positive price %.2f", price)
	}

	proceeds := pos.Quantity * price
	fee := proceeds * FeeRate
	net := proceeds - fee
	pnl := net - pos.Invested

	p.cash += net
	delete(p.positions, market)

	p.history = append(p.history, domain.TradeRecord{
		ID:       uuid.New().String(),
		Time:     p.now(),
		Side:     domain.DecisionSell,
		Market:   market,
		Price:    price,
		Amount:   net,
		Quantity: pos.Quantity,
		Fee:      fee,
		PnL:      pnl,
	})

	slog.Info("paper sell",
		"market", market,
		"price", price,
		"net_proceeds", net,
		"pnl", pnl,
	)
	return nil
}

// Snapshot marks the portfolio to market with the supplied prices. A
// market without a quote is valued at its entry price, so a missing
// ticker never shows up as phantom P&L.
func (p *Portfolio) Snapshot(prices map[string]float64) domain.PortfolioSnapshot {
	var invested, current float64
	details := make([]domain.PositionDetail, 0, len(p.positions))

	for market, pos := range p.positions {
		price, ok := prices[market]
		if !ok {
			price = pos.EntryPrice
		}
		value := pos.Value(price)
		invested += pos.Invested
		current += value
		details = append(details, domain.PositionDetail{
			Market:       market,
			EntryPrice:   pos.EntryPrice,
			CurrentPrice: price,
			Quantity:     pos.Quantity,
			Invested:     pos.Invested,
			CurrentValue: value,
			PnL:          pos.PnL(price),
			PnLPct:       pos.PnLPct(price),
		})
	}

	pnl := current - invested
	pnlPct := 0.0
	if invested > 0 {
		pnlPct = pnl / invested * 100
	}

	return domain.PortfolioSnapshot{
		Cash:           p.cash,
		PositionsValue: current,
		TotalValue:     p.cash + current,
		Invested:       invested,
		TotalPnL:       pnl,
		TotalPnLPct:    pnlPct,
		Positions:      details,
		TradeCount:     len(p.history),
	}
}
