package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full trader configuration.
type Config struct {
	Trader  TraderConfig  `yaml:"trader"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// TraderConfig controls the strategy and the paper account.
type TraderConfig struct {
	Markets         []string `yaml:"markets"`
	RSIPeriod       int      `yaml:"rsi_period"`
	Oversold        float64  `yaml:"oversold"`
	Overbought      float64  `yaml:"overbought"`
	MAShort         int      `yaml:"ma_short"`
	MALong          int      `yaml:"ma_long"`
	CandleCount     int      `yaml:"candle_count"`
	TradeAmount     float64  `yaml:"trade_amount"` // KRW committed per BUY
	InitialCash     float64  `yaml:"initial_cash"` // paper account starting balance
	IntervalSeconds int      `yaml:"interval_seconds"`
	Workers         int      `yaml:"workers"` // 0 = NumCPU × 2
}

// APIConfig holds the exchange API base URL.
type APIConfig struct {
	UpbitBase string `yaml:"upbit_base"`
}

// StorageConfig controls where run history is persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config file and the .env file if present. Env
// values override the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ScanInterval returns the live scan interval as a time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Trader.IntervalSeconds) * time.Second
}

// applyEnvOverrides replaces values with environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("UPBOT_MARKETS"); v != "" {
		cfg.Trader.Markets = splitList(v)
	}
	if v := os.Getenv("UPBOT_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// setDefaults fills in anything the YAML left unset.
func setDefaults(cfg *Config) {
	if len(cfg.Trader.Markets) == 0 {
		cfg.Trader.Markets = []string{"KRW-BTC", "KRW-ETH", "KRW-XRP"}
	}
	if cfg.Trader.RSIPeriod <= 0 {
		cfg.Trader.RSIPeriod = 14
	}
	if cfg.Trader.Oversold <= 0 {
		cfg.Trader.Oversold = 30
	}
	if cfg.Trader.Overbought <= 0 {
		cfg.Trader.Overbought = 70
	}
	if cfg.Trader.MAShort <= 0 {
		cfg.Trader.MAShort = 5
	}
	if cfg.Trader.MALong <= 0 {
		cfg.Trader.MALong = 20
	}
	if cfg.Trader.CandleCount <= 0 {
		cfg.Trader.CandleCount = 200
	}
	if cfg.Trader.TradeAmount <= 0 {
		cfg.Trader.TradeAmount = 100_000
	}
	if cfg.Trader.InitialCash <= 0 {
		cfg.Trader.InitialCash = 3_000_000
	}
	if cfg.Trader.IntervalSeconds <= 0 {
		cfg.Trader.IntervalSeconds = 3600
	}
	if cfg.API.UpbitBase == "" {
		cfg.API.UpbitBase = "https://api.upbit.com/v1"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "upbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// validate rejects combinations the strategy cannot work with.
func validate(cfg *Config) error {
	if cfg.Trader.MAShort >= cfg.Trader.MALong {
		return fmt.Errorf("config.Load: ma_short (%d) must be less than ma_long (%d)",
			cfg.Trader.MAShort, cfg.Trader.MALong)
	}
	if cfg.Trader.Oversold >= cfg.Trader.Overbought {
		return fmt.Errorf("config.Load: oversold (%.1f) must be less than overbought (%.1f)",
			cfg.Trader.Oversold, cfg.Trader.Overbought)
	}
	return nil
}
