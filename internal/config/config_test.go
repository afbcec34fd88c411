package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != SourceEndpoint || cfg.History.URL != "http://127.0.0.1:5000/history" {
		t.Errorf("unexpected source defaults: %+v %+v", cfg.Source, cfg.History)
	}
	if cfg.KeySuffixLen() != 3 || cfg.History.Timezone != "UTC" || cfg.History.Timeout != 10*time.Second {
		t.Errorf("unexpected history defaults: %+v", cfg.History)
	}
	if cfg.Chart.ContainerID != "chart_container" || cfg.Chart.ResponsiveBreakpoint != 640 {
		t.Errorf("unexpected chart defaults: %+v", cfg.Chart)
	}
	if !cfg.ConsoleLogging() || cfg.AlertsEnabled() {
		t.Error("expected console logging on and alerts off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
history:
  url: http://prices.internal/history
  timeout: 3s
  key_suffix_len: 0
  timezone: Asia/Tokyo
chart:
  title: ACME
logging:
  console: false
  dir: /var/log/finchart
`)
	t.Setenv("FINCHART_HISTORY_URL", "https://override.example/history")
	t.Setenv("SQLITE_PATH", "/tmp/loads.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.History.URL != "https://override.example/history" {
		t.Errorf("env override not applied: %s", cfg.History.URL)
	}
	if cfg.History.Timeout != 3*time.Second {
		t.Errorf("timeout: got %v", cfg.History.Timeout)
	}
	if cfg.KeySuffixLen() != 0 {
		t.Errorf("explicit zero suffix should be kept, got %d", cfg.KeySuffixLen())
	}
	if cfg.Chart.Title != "ACME" || cfg.Database.SQLitePath != "/tmp/loads.db" {
		t.Errorf("unexpected values: %+v %+v", cfg.Chart, cfg.Database)
	}
	if cfg.ConsoleLogging() {
		t.Error("console logging should be off")
	}
	if cfg.Logging.Dir != "/var/log/finchart" {
		t.Errorf("logging.dir: got %q", cfg.Logging.Dir)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Tokyo" {
		t.Errorf("Location: %v %v", loc, err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "history: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"relative url", func(c *Config) { c.History.URL = "/history" }, "history.url"},
		{"unknown source", func(c *Config) { c.Source.Kind = "ftp" }, "source.kind"},
		{"yahoo without symbol", func(c *Config) { c.Source.Kind = SourceYahoo }, "source.symbol"},
		{"negative suffix", func(c *Config) { n := -1; c.History.KeySuffixLen = &n }, "key_suffix_len"},
		{"bad timezone", func(c *Config) { c.History.Timezone = "Mars/Olympus" }, "history.timezone"},
		{"empty container", func(c *Config) { c.Chart.ContainerID = " " }, "container_id"},
		{"cron without path", func(c *Config) { c.Export.Cron = "@hourly" }, "export.path"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "t" }, "telegram"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
