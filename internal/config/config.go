package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"FXSentinel/internal/collector"
	"FXSentinel/internal/model"
	"FXSentinel/internal/risk"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"` // comma-separated
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string        `yaml:"base_url"`
		HistoryDays int           `yaml:"history_days"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Schedule struct {
		AlertCron     string        `yaml:"alert_cron"`
		FirstRunDelay time.Duration `yaml:"first_run_delay"`
	} `yaml:"schedule"`
	Risk   model.RiskConfig `yaml:"risk"`
	Signal struct {
		Threshold  int    `yaml:"threshold"`
		Levels     string `yaml:"levels"`
		HoldLevels bool   `yaml:"hold_levels"`
	} `yaml:"signal"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	// Environment variable overrides
	if v := firstEnv("TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := firstEnv("YOUR_CHAT_ID", "TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FX_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ALERT_CRON"); v != "" {
		cfg.Schedule.AlertCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SR_STRATEGY"); v != "" {
		cfg.Signal.Levels = v
	}
	envFloat("ACCOUNT_BALANCE", &cfg.Risk.AccountBalance)
	envFloat("RISK_PERCENT", &cfg.Risk.RiskPercent)
	envFloat("REWARD_RISK_RATIO", &cfg.Risk.RewardRiskRatio)

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = collector.DefaultBaseURL
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 365
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 15 * time.Second
	}
	if cfg.Schedule.AlertCron == "" {
		cfg.Schedule.AlertCron = "@every 30m"
	}
	if cfg.Schedule.FirstRunDelay == 0 {
		cfg.Schedule.FirstRunDelay = 30 * time.Second
	}
	defaults := model.DefaultRiskConfig()
	if cfg.Risk.AccountBalance == 0 {
		cfg.Risk.AccountBalance = defaults.AccountBalance
	}
	if cfg.Risk.RiskPercent == 0 {
		cfg.Risk.RiskPercent = defaults.RiskPercent
	}
	if cfg.Risk.RewardRiskRatio == 0 {
		cfg.Risk.RewardRiskRatio = defaults.RewardRiskRatio
	}
	if cfg.Signal.Threshold == 0 {
		cfg.Signal.Threshold = 3
	}
	if cfg.Signal.Levels == "" {
		cfg.Signal.Levels = "extrema"
	}

	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*dst = f
		}
	}
}

// ChatIDs parses the comma-separated chat id list.
func (c *Config) ChatIDs() ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(c.Telegram.ChatID, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if _, err := c.ChatIDs(); err != nil {
		return fmt.Errorf("telegram.chat_id: %w", err)
	}
	if c.DataSource.HistoryDays < 60 {
		return fmt.Errorf("data_source.history_days must be at least 60")
	}
	if err := risk.Validate(c.Risk); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if c.Signal.Threshold < 1 {
		return fmt.Errorf("signal.threshold must be positive")
	}
	switch c.Signal.Levels {
	case "extrema", "peaks":
	default:
		return fmt.Errorf("signal.levels must be extrema or peaks, got %q", c.Signal.Levels)
	}
	return nil
}
