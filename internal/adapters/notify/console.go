package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/hyunwoocho/upbot/internal/domain"
)

// Console implements ports.Notifier, printing formatted tables.
type Console struct {
	out io.Writer
}

// NewConsole creates a notifier writing to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// NotifySignals prints the signal table for one scan cycle followed by
// the paper portfolio status.
func (c *Console) NotifySignals(_ context.Context, signals []domain.Signal, snapshot domain.PortfolioSnapshot) error {
	now := time.Now().Format("15:04:05")
	if len(signals) == 0 {
		fmt.Fprintf(c.out, "[%s] no markets analyzed\n", now)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] signals for %d markets\n", now, len(signals))

	table := tablewriter.NewWriter(c.out)
	table.Header("Market", "Signal", "Close", "RSI", "MA short", "MA long", "Reason")
	for _, s := range signals {
		table.Append(
			s.Market,
			string(s.Action),
			num(s.Close, "%.0f"),
			num(s.RSI, "%.1f"),
			num(s.MAShort, "%.0f"),
			num(s.MALong, "%.0f"),
			s.Reason,
		)
	}
	table.Render()

	c.printPortfolio(snapshot)
	return nil
}

// printPortfolio prints the paper portfolio status block.
func (c *Console) printPortfolio(s domain.PortfolioSnapshot) {
	fmt.Fprintf(c.out, "\n=== PAPER PORTFOLIO ===\n")
	fmt.Fprintf(c.out, "  cash            : %15.0f\n", s.Cash)
	fmt.Fprintf(c.out, "  positions value : %15.0f\n", s.PositionsValue)
	fmt.Fprintf(c.out, "  total value     : %15.0f\n", s.TotalValue)

	if s.Invested > 0 {
		fmt.Fprintf(c.out, "  invested        : %15.0f\n", s.Invested)
		fmt.Fprintf(c.out, "  total P&L       : %+15.0f  (%+.2f%%)\n", s.TotalPnL, s.TotalPnLPct)
	}

	if len(s.Positions) == 0 {
		fmt.Fprintf(c.out, "  no open positions\n")
	} else {
		for _, p := range s.Positions {
			fmt.Fprintf(c.out, "  %-12s qty %.6f @ %.0f → %+.2f%% (%+.0f)\n",
				p.Market, p.Quantity, p.EntryPrice, p.PnLPct, p.PnL)
		}
	}
	fmt.Fprintf(c.out, "  trades          : %d\n", s.TradeCount)
}

// NotifyBacktest prints the per-market backtest reports and the combined
// portfolio totals.
func (c *Console) NotifyBacktest(_ context.Context, combined domain.CombinedResult) error {
	if len(combined.Results) == 0 {
		fmt.Fprintln(c.out, "no backtest results — all markets skipped")
		return nil
	}

	for _, r := range combined.Results {
		c.printBacktestResult(r)
	}

	fmt.Fprintf(c.out, "\n=== COMBINED (%d markets) ===\n", len(combined.Results))
	fmt.Fprintf(c.out, "  initial capital : %15.0f\n", combined.InitialCapital)
	fmt.Fprintf(c.out, "  final capital   : %15.0f\n", combined.FinalCapital)
	fmt.Fprintf(c.out, "  total return    : %+.2f%%\n\n", combined.TotalReturnPct)
	return nil
}

func (c *Console) printBacktestResult(r domain.BacktestResult) {
	wins, losses := splitTrades(r.Trades)

	fmt.Fprintf(c.out, "\n--- %s (%d bars) ---\n", r.Market, r.BarCount)
	fmt.Fprintf(c.out, "  return   : %+.2f%%  (%.0f → %.0f)\n", r.TotalReturnPct, r.InitialCapital, r.FinalCapital)
	fmt.Fprintf(c.out, "  trades   : %d  (%d won, %d lost)\n", r.TradeCount, len(wins), len(losses))
	fmt.Fprintf(c.out, "  win rate : %.1f%%\n", r.WinRatePct)
	fmt.Fprintf(c.out, "  max DD   : %.2f%%\n", r.MaxDrawdownPct)
	if len(wins) > 0 {
		fmt.Fprintf(c.out, "  avg win  : %+.2f%%\n", avgPct(wins))
	}
	if len(losses) > 0 {
		fmt.Fprintf(c.out, "  avg loss : %.2f%%\n", avgPct(losses))
	}

	if len(r.Trades) == 0 {
		fmt.Fprintln(c.out, "  (no trades in period)")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Entry", "Entry price", "Exit", "Exit price", "P&L %", "P&L", "Reason")
	for _, t := range r.Trades {
		table.Append(
			t.EntryTime.Format("2006-01-02"),
			fmt.Sprintf("%.0f", t.EntryPrice),
			t.ExitTime.Format("2006-01-02"),
			fmt.Sprintf("%.0f", t.ExitPrice),
			fmt.Sprintf("%+.2f%%", t.PnLPct),
			fmt.Sprintf("%+.0f", t.PnL),
			t.Reason,
		)
	}
	table.Render()
}

// num formats a possibly-undefined indicator value.
func num(v float64, format string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf(format, v)
}

func splitTrades(trades []domain.Trade) (wins, losses []domain.Trade) {
	for _, t := range trades {
		if t.PnLPct > 0 {
			wins = append(wins, t)
		} else {
			losses = append(losses, t)
		}
	}
	return wins, losses
}

func avgPct(trades []domain.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var sum float64
	for _, t := range trades {
		sum += t.PnLPct
	}
	return sum / float64(len(trades))
}
