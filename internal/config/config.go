package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		APIKey         string   `yaml:"api_key"`
		APISecret      string   `yaml:"api_secret"`
		QuoteAsset     string   `yaml:"quote_asset"`
		MinQuoteVolume float64  `yaml:"min_quote_volume"`
		ExcludeSymbols []string `yaml:"exclude_symbols"`
	} `yaml:"exchange"`
	Scan struct {
		Limit          int    `yaml:"limit"`
		Timeframe      string `yaml:"timeframe"`
		KlineLimit     int    `yaml:"kline_limit"`
		MaxConcurrent  int    `yaml:"max_concurrent"`
		RequestDelayMs int    `yaml:"request_delay_ms"`
		Cron           string `yaml:"cron"`
	} `yaml:"scan"`
	Signals struct {
		RSIOverbought         float64 `yaml:"rsi_overbought"`
		ExhaustionProbability float64 `yaml:"exhaustion_probability"`
		ConfirmDropPercent    float64 `yaml:"confirm_drop_percent"`
		VolumeSpikeRatio      float64 `yaml:"volume_spike_ratio"`
	} `yaml:"signals"`
	Tracker struct {
		StateFile      string `yaml:"state_file"`
		RetentionHours int    `yaml:"retention_hours"`
	} `yaml:"tracker"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	DataDir string `yaml:"data_dir"`
	Proxy   string `yaml:"proxy"`
}

// validTimeframes are the kline intervals Binance futures accepts.
var validTimeframes = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true,
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; env and defaults carry it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Exchange.APISecret = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Scan.Cron = v
	}

	// Defaults
	if cfg.Exchange.QuoteAsset == "" {
		cfg.Exchange.QuoteAsset = "USDT"
	}
	if cfg.Scan.Limit == 0 {
		cfg.Scan.Limit = 10
	}
	if cfg.Scan.Timeframe == "" {
		cfg.Scan.Timeframe = "15m"
	}
	if cfg.Scan.KlineLimit == 0 {
		cfg.Scan.KlineLimit = 100
	}
	if cfg.Scan.MaxConcurrent == 0 {
		cfg.Scan.MaxConcurrent = 5
	}
	if cfg.Scan.RequestDelayMs == 0 {
		cfg.Scan.RequestDelayMs = 500
	}
	if cfg.Scan.Cron == "" {
		cfg.Scan.Cron = "@every 5m"
	}
	if cfg.Signals.RSIOverbought == 0 {
		cfg.Signals.RSIOverbought = 70
	}
	if cfg.Signals.ExhaustionProbability == 0 {
		cfg.Signals.ExhaustionProbability = 60
	}
	if cfg.Signals.ConfirmDropPercent == 0 {
		cfg.Signals.ConfirmDropPercent = 5.0
	}
	if cfg.Signals.VolumeSpikeRatio == 0 {
		cfg.Signals.VolumeSpikeRatio = 2.0
	}
	if cfg.Tracker.StateFile == "" {
		cfg.Tracker.StateFile = "data/tracked_symbols.json"
	}
	if cfg.Tracker.RetentionHours == 0 {
		cfg.Tracker.RetentionHours = 168
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/peaksentinel.db"
	}

	return cfg, nil
}

// Validate checks field ranges and cross-field consistency.
func (c *Config) Validate() error {
	if c.Scan.Limit <= 0 {
		return fmt.Errorf("scan.limit must be positive")
	}
	if c.Scan.KlineLimit < 2 {
		return fmt.Errorf("scan.kline_limit must be at least 2")
	}
	if c.Scan.MaxConcurrent <= 0 {
		return fmt.Errorf("scan.max_concurrent must be positive")
	}
	if c.Scan.RequestDelayMs < 0 {
		return fmt.Errorf("scan.request_delay_ms must not be negative")
	}
	if !validTimeframes[c.Scan.Timeframe] {
		return fmt.Errorf("scan.timeframe %q is not a valid kline interval", c.Scan.Timeframe)
	}
	if c.Signals.RSIOverbought <= 0 || c.Signals.RSIOverbought >= 100 {
		return fmt.Errorf("signals.rsi_overbought must be between 0 and 100")
	}
	if c.Signals.ExhaustionProbability <= 0 || c.Signals.ExhaustionProbability > 100 {
		return fmt.Errorf("signals.exhaustion_probability must be between 0 and 100")
	}
	if c.Signals.ConfirmDropPercent <= 0 {
		return fmt.Errorf("signals.confirm_drop_percent must be positive")
	}
	if c.Signals.VolumeSpikeRatio <= 0 {
		return fmt.Errorf("signals.volume_spike_ratio must be positive")
	}
	if c.Tracker.RetentionHours <= 0 {
		return fmt.Errorf("tracker.retention_hours must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// RequestDelay returns the per-request pacing delay.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.Scan.RequestDelayMs) * time.Millisecond
}

// Retention returns how long idle tracker entries are kept.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Tracker.RetentionHours) * time.Hour
}
