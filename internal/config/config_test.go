package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HTTPS_PROXY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Data.Dir != "data" || cfg.Data.PortfolioFile != "data/portfolio.json" {
		t.Errorf("unexpected data defaults: %+v", cfg.Data)
	}
	if cfg.Analysis.HistoryDays != 365 || cfg.Analysis.FallbackRate != 1420 {
		t.Errorf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
data:
  dir: /var/lib/toss
analysis:
  history_days: 400
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.Dir != "/var/lib/toss" {
		t.Errorf("file value lost: %s", cfg.Data.Dir)
	}
	if cfg.Data.PortfolioFile != "/var/lib/toss/portfolio.json" {
		t.Errorf("derived default wrong: %s", cfg.Data.PortfolioFile)
	}
	if cfg.Analysis.HistoryDays != 400 {
		t.Errorf("expected 400, got %d", cfg.Analysis.HistoryDays)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("env should override file, got %s", cfg.Log.Level)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken != "tok" {
		t.Errorf("telegram env override lost: %+v", cfg.Telegram)
	}
}

func TestValidate_TelegramRequiresChatID(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Telegram.Enabled = true
	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected a validation error without chat_id")
	}
}

func TestValidate_HistoryFloor(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Analysis.HistoryDays = 30
	if err := cfg.Validate(); err == nil {
		t.Error("expected a validation error below 60 days")
	}
}
