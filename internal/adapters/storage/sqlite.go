package storage

// sqlite.go — run history on disk.
//
// Every scan cycle appends its signals and paper fills; every backtest
// appends one row per market plus its closed trades, grouped by a run id.
// Nothing is ever read back into the agent: the portfolio lives in memory
// for the process lifetime and this is purely an audit log.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hyunwoocho/upbot/internal/domain"
)

const schema = `
-- One row per signal emitted in a scan cycle
CREATE TABLE IF NOT EXISTS signals (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    emitted_at DATETIME NOT NULL,
    market     TEXT     NOT NULL,
    action     TEXT     NOT NULL,
    rsi        REAL,
    ma_short   REAL,
    ma_long    REAL,
    close      REAL,
    reason     TEXT
);

-- One row per paper fill
CREATE TABLE IF NOT EXISTS paper_trades (
    id       TEXT PRIMARY KEY,
    filled_at DATETIME NOT NULL,
    side     TEXT NOT NULL,
    market   TEXT NOT NULL,
    price    REAL NOT NULL,
    amount   REAL NOT NULL,
    quantity REAL NOT NULL,
    fee      REAL NOT NULL,
    pnl      REAL NOT NULL DEFAULT 0
);

-- One row per market per backtest run
CREATE TABLE IF NOT EXISTS backtests (
    run_id       TEXT     NOT NULL,
    run_at       DATETIME NOT NULL,
    market       TEXT     NOT NULL,
    initial      REAL     NOT NULL,
    final        REAL     NOT NULL,
    return_pct   REAL     NOT NULL,
    trade_count  INTEGER  NOT NULL,
    win_rate_pct REAL     NOT NULL,
    mdd_pct      REAL     NOT NULL,
    bar_count    INTEGER  NOT NULL,
    PRIMARY KEY (run_id, market)
);

-- Closed round-trips belonging to a backtest row
CREATE TABLE IF NOT EXISTS backtest_trades (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT     NOT NULL,
    market      TEXT     NOT NULL,
    entry_time  DATETIME NOT NULL,
    exit_time   DATETIME NOT NULL,
    entry_price REAL     NOT NULL,
    exit_price  REAL     NOT NULL,
    pnl         REAL     NOT NULL,
    pnl_pct     REAL     NOT NULL,
    reason      TEXT     NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_at       ON signals(emitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_paper_trades_at  ON paper_trades(filled_at DESC);
CREATE INDEX IF NOT EXISTS idx_backtests_run    ON backtests(run_id);
CREATE INDEX IF NOT EXISTS idx_bt_trades_run    ON backtest_trades(run_id, market);
`

// SQLiteStorage implements ports.Storage using SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveSignals appends the signals of one scan cycle.
func (s *SQLiteStorage) SaveSignals(ctx context.Context, signals []domain.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSignals: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signals (emitted_at, market, action, rsi, ma_short, ma_long, close, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSignals: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, sig := range signals {
		if _, err := stmt.ExecContext(ctx,
			now,
			sig.Market,
			string(sig.Action),
			nullable(sig.RSI),
			nullable(sig.MAShort),
			nullable(sig.MALong),
			nullable(sig.Close),
			sig.Reason,
		); err != nil {
			return fmt.Errorf("storage.SaveSignals: insert %s: %w", sig.Market, err)
		}
	}
	return tx.Commit()
}

// SavePaperTrades appends paper fills. Fills already saved (same id) are
// ignored so the agent can pass the whole history each cycle.
func (s *SQLiteStorage) SavePaperTrades(ctx context.Context, trades []domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SavePaperTrades: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO paper_trades (id, filled_at, side, market, price, amount, quantity, fee, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("storage.SavePaperTrades: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			t.ID,
			t.Time.UTC(),
			string(t.Side),
			t.Market,
			t.Price,
			t.Amount,
			t.Quantity,
			t.Fee,
			t.PnL,
		); err != nil {
			return fmt.Errorf("storage.SavePaperTrades: insert %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// SaveBacktest appends one run's per-market summaries and closed trades,
// grouped under a fresh run id.
func (s *SQLiteStorage) SaveBacktest(ctx context.Context, combined domain.CombinedResult) error {
	if len(combined.Results) == 0 {
		return nil
	}

	runID := uuid.New().String()
	runAt := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveBacktest: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range combined.Results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO backtests
				(run_id, run_at, market, initial, final, return_pct,
				 trade_count, win_rate_pct, mdd_pct, bar_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID, runAt, r.Market,
			r.InitialCapital, r.FinalCapital, r.TotalReturnPct,
			r.TradeCount, r.WinRatePct, r.MaxDrawdownPct, r.BarCount,
		); err != nil {
			return fmt.Errorf("storage.SaveBacktest: insert %s: %w", r.Market, err)
		}

		for _, t := range r.Trades {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO backtest_trades
					(run_id, market, entry_time, exit_time, entry_price, exit_price, pnl, pnl_pct, reason)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				runID, r.Market,
				t.EntryTime.UTC(), t.ExitTime.UTC(),
				t.EntryPrice, t.ExitPrice, t.PnL, t.PnLPct, t.Reason,
			); err != nil {
				return fmt.Errorf("storage.SaveBacktest: insert trade %s: %w", r.Market, err)
			}
		}
	}
	return tx.Commit()
}

// Close shuts the database down cleanly.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// nullable maps undefined indicator values to SQL NULL instead of NaN,
// which SQLite cannot store in a REAL column.
func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
