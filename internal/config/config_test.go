package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "BINANCE_API_KEY", "BINANCE_API_SECRET",
		"HTTPS_PROXY", "SQLITE_PATH", "DATA_DIR", "SCAN_CRON", "CONFIG_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Exchange.QuoteAsset != "USDT" {
		t.Errorf("QuoteAsset = %q, want USDT", cfg.Exchange.QuoteAsset)
	}
	if cfg.Scan.Limit != 10 || cfg.Scan.Timeframe != "15m" || cfg.Scan.KlineLimit != 100 {
		t.Errorf("scan defaults = %d/%s/%d", cfg.Scan.Limit, cfg.Scan.Timeframe, cfg.Scan.KlineLimit)
	}
	if cfg.Scan.Cron != "@every 5m" {
		t.Errorf("Cron = %q", cfg.Scan.Cron)
	}
	if cfg.Signals.ExhaustionProbability != 60 || cfg.Signals.ConfirmDropPercent != 5.0 {
		t.Errorf("signal defaults = %v/%v", cfg.Signals.ExhaustionProbability, cfg.Signals.ConfirmDropPercent)
	}
	if cfg.TelegramEnabled() {
		t.Error("TelegramEnabled should be false with no credentials")
	}
	if cfg.Database.SQLitePath != "data/peaksentinel.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_CHAT_ID", "999")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
scan:
  limit: 25
  timeframe: 1h
telegram:
  bot_token: token-from-file
  chat_id: id-from-file
database:
  sqlite_path: data/history.db
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scan.Limit != 25 || cfg.Scan.Timeframe != "1h" {
		t.Errorf("scan = %d/%s, want 25/1h", cfg.Scan.Limit, cfg.Scan.Timeframe)
	}
	if cfg.Telegram.BotToken != "token-from-file" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "999" {
		t.Errorf("ChatID = %q, env override should win", cfg.Telegram.ChatID)
	}
	if cfg.Database.SQLitePath != "data/history.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
}

func TestValidateRejections(t *testing.T) {
	clearEnv(t)

	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero limit", func(c *Config) { c.Scan.Limit = 0 }},
		{"kline limit too small", func(c *Config) { c.Scan.KlineLimit = 1 }},
		{"bad timeframe", func(c *Config) { c.Scan.Timeframe = "7m" }},
		{"negative delay", func(c *Config) { c.Scan.RequestDelayMs = -1 }},
		{"rsi out of range", func(c *Config) { c.Signals.RSIOverbought = 101 }},
		{"token without chat id", func(c *Config) { c.Telegram.BotToken = "t" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}
