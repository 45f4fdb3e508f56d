package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyunwoocho/upbot/config"
	"github.com/hyunwoocho/upbot/internal/adapters/notify"
	"github.com/hyunwoocho/upbot/internal/adapters/storage"
	"github.com/hyunwoocho/upbot/internal/adapters/upbit"
	"github.com/hyunwoocho/upbot/internal/agent"
	"github.com/hyunwoocho/upbot/internal/indicator"
	"github.com/hyunwoocho/upbot/internal/portfolio"
	"github.com/hyunwoocho/upbot/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	backtest := flag.Bool("backtest", false, "simulate the strategy over historical candles and exit")
	capital := flag.Float64("capital", 1_000_000, "initial capital per market for backtest mode (KRW)")
	noStore := flag.Bool("no-store", false, "skip persisting run history to SQLite")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("upbot starting",
		"config", *configPath,
		"markets", cfg.Trader.Markets,
		"interval", cfg.ScanInterval(),
		"once", *once,
		"backtest", *backtest,
	)

	client := upbit.NewClient(cfg.API.UpbitBase)

	var store ports.Storage
	if !*noStore {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	notifier := notify.NewConsole()
	pf := portfolio.New(cfg.Trader.InitialCash)

	agentCfg := agent.Config{
		Markets:      cfg.Trader.Markets,
		CandleCount:  cfg.Trader.CandleCount,
		TradeAmount:  cfg.Trader.TradeAmount,
		ScanInterval: cfg.ScanInterval(),
		Workers:      cfg.Trader.Workers,
		Params: indicator.Params{
			RSIPeriod: cfg.Trader.RSIPeriod,
			MAShort:   cfg.Trader.MAShort,
			MALong:    cfg.Trader.MALong,
		},
		Oversold:   cfg.Trader.Oversold,
		Overbought: cfg.Trader.Overbought,
		Once:       *once,
	}

	a := agent.New(agentCfg, client, notifier, store, pf)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *backtest {
		if _, err := a.Backtest(ctx, *capital); err != nil {
			slog.Error("backtest failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := a.Run(ctx); err != nil {
		slog.Error("agent exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("upbot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
