package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceEndpoint = "endpoint"
	SourceYahoo    = "yahoo"
	SourceMock     = "mock"
)

// Config holds all application configuration.
type Config struct {
	History struct {
		URL          string        `yaml:"url"`
		APIKey       string        `yaml:"api_key"`
		Timeout      time.Duration `yaml:"timeout"`
		KeySuffixLen *int          `yaml:"key_suffix_len"`
		Timezone     string        `yaml:"timezone"`
	} `yaml:"history"`
	Source struct {
		Kind         string `yaml:"kind"`
		Symbol       string `yaml:"symbol"`
		Interval     string `yaml:"interval"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"source"`
	Chart struct {
		ContainerID          string `yaml:"container_id"`
		Title                string `yaml:"title"`
		SeriesName           string `yaml:"series_name"`
		SeriesColor          string `yaml:"series_color"`
		ResponsiveBreakpoint int    `yaml:"responsive_breakpoint"`
		LibraryURL           string `yaml:"library_url"`
		TemplatePath         string `yaml:"template_path"`
	} `yaml:"chart"`
	Server struct {
		Addr             string `yaml:"addr"`
		MetricsSubsystem string `yaml:"metrics_subsystem"`
	} `yaml:"server"`
	Export struct {
		Path string `yaml:"path"`
		Cron string `yaml:"cron"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Logging struct {
		Level      string `yaml:"level"`
		Dir        string `yaml:"dir"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		Console    *bool  `yaml:"console"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// envOverrides lists the variables that take precedence over the file.
// Unset variables leave the file value alone.
type envOverrides struct {
	HistoryURL    string        `envconfig:"FINCHART_HISTORY_URL"`
	HistoryAPIKey string        `envconfig:"FINCHART_HISTORY_API_KEY"`
	Timeout       time.Duration `envconfig:"FINCHART_HISTORY_TIMEOUT"`
	Timezone      string        `envconfig:"FINCHART_TIMEZONE"`
	Source        string        `envconfig:"FINCHART_SOURCE"`
	Symbol        string        `envconfig:"FINCHART_SYMBOL"`
	ServerAddr    string        `envconfig:"FINCHART_SERVER_ADDR"`
	ExportPath    string        `envconfig:"FINCHART_EXPORT_PATH"`
	ExportCron    string        `envconfig:"FINCHART_EXPORT_CRON"`
	SQLitePath    string        `envconfig:"SQLITE_PATH"`
	BotToken      string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID        string        `envconfig:"TELEGRAM_CHAT_ID"`
	Proxy         string        `envconfig:"HTTPS_PROXY"`
	LogLevel      string        `envconfig:"LOG_LEVEL"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults.
func Load(path string) (*Config, error) {
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

	// Variables already in the environment win over .env.
	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	cfg.applyEnv(&env)
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv(env *envOverrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.History.URL, env.HistoryURL)
	set(&c.History.APIKey, env.HistoryAPIKey)
	set(&c.History.Timezone, env.Timezone)
	set(&c.Source.Kind, env.Source)
	set(&c.Source.Symbol, env.Symbol)
	set(&c.Server.Addr, env.ServerAddr)
	set(&c.Export.Path, env.ExportPath)
	set(&c.Export.Cron, env.ExportCron)
	set(&c.Database.SQLitePath, env.SQLitePath)
	set(&c.Telegram.BotToken, env.BotToken)
	set(&c.Telegram.ChatID, env.ChatID)
	set(&c.Proxy, env.Proxy)
	set(&c.Logging.Level, env.LogLevel)
	if env.Timeout > 0 {
		c.History.Timeout = env.Timeout
	}
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceEndpoint
	}
	if c.History.URL == "" && c.Source.Kind == SourceEndpoint {
		c.History.URL = "http://127.0.0.1:5000/history"
	}
	if c.History.Timeout == 0 {
		c.History.Timeout = 10 * time.Second
	}
	if c.History.KeySuffixLen == nil {
		n := 3
		c.History.KeySuffixLen = &n
	}
	if c.History.Timezone == "" {
		c.History.Timezone = "UTC"
	}
	if c.Source.Interval == "" {
		c.Source.Interval = "1d"
	}
	if c.Source.LookbackDays == 0 {
		c.Source.LookbackDays = 365
	}
	if c.Chart.ContainerID == "" {
		c.Chart.ContainerID = "chart_container"
	}
	if c.Chart.ResponsiveBreakpoint == 0 {
		c.Chart.ResponsiveBreakpoint = 640
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MetricsSubsystem == "" {
		c.Server.MetricsSubsystem = "finchart"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/finchart.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.Console == nil {
		on := true
		c.Logging.Console = &on
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceEndpoint:
		u, err := url.Parse(c.History.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("history.url must be an absolute http(s) URL, got %q", c.History.URL)
		}
	case SourceYahoo:
		if c.Source.Symbol == "" {
			return fmt.Errorf("source.symbol is required for the yahoo source")
		}
	case SourceMock:
	default:
		return fmt.Errorf("source.kind must be one of endpoint, yahoo, mock, got %q", c.Source.Kind)
	}
	if *c.History.KeySuffixLen < 0 {
		return fmt.Errorf("history.key_suffix_len must not be negative")
	}
	if c.History.Timeout < 0 {
		return fmt.Errorf("history.timeout must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Chart.ContainerID) == "" {
		return fmt.Errorf("chart.container_id is required")
	}
	if c.Chart.ResponsiveBreakpoint < 0 {
		return fmt.Errorf("chart.responsive_breakpoint must be positive")
	}
	if c.Export.Cron != "" && c.Export.Path == "" {
		return fmt.Errorf("export.path is required when export.cron is set")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Location resolves history.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.History.Timezone)
	if err != nil {
		return nil, fmt.Errorf("history.timezone: %w", err)
	}
	return loc, nil
}

// KeySuffixLen returns the number of trailing key characters to drop.
func (c *Config) KeySuffixLen() int {
	if c.History.KeySuffixLen == nil {
		return 3
	}
	return *c.History.KeySuffixLen
}

// ConsoleLogging reports whether logs are also written to stdout.
func (c *Config) ConsoleLogging() bool {
	return c.Logging.Console == nil || *c.Logging.Console
}

// AlertsEnabled reports whether Telegram alerts are configured.
func (c *Config) AlertsEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
