package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AIConfig holds settings for the optional enrichment provider. The API key
// is taken from the environment only and never written to the config file.
type AIConfig struct {
	// BaseURL is an OpenAI-compatible endpoint. Empty means the provider
	// default.
	BaseURL string `yaml:"base_url"`
	// Model is the chat model used to rephrase digests.
	Model string `yaml:"model"`
	// TimeoutSeconds bounds a single enrichment call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// APIKey comes from TENSKEE_OPENAI_API_KEY. Enrichment is disabled
	// when empty.
	APIKey string `yaml:"-"`
}

// Timeout returns the enrichment call timeout as a duration.
func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Config holds application configuration, loaded once at process start and
// treated as constants afterwards.
type Config struct {
	// BotUsername is the mention identifier without the leading "@".
	BotUsername string `yaml:"bot_username"`

	// ChatID is the group chat the daily digest is delivered to.
	ChatID int64 `yaml:"chat_id"`

	// Timezone is the single IANA reference timezone for all relative
	// dates and due-soon windows (e.g. "Africa/Lagos").
	Timezone string `yaml:"timezone"`

	// ReminderTime is the local time of the daily digest, "HH:MM".
	ReminderTime string `yaml:"reminder_time"`

	// PollTimeoutSeconds is the Telegram long-poll timeout.
	PollTimeoutSeconds int `yaml:"poll_timeout_seconds"`

	// Listen is the address of the web status page. Empty disables it.
	Listen string `yaml:"listen"`

	AI AIConfig `yaml:"ai"`

	// DBMaxOpenConns limits open database connections. If set to 1 all
	// database access is serialized. 0 means the sql.DB default.
	DBMaxOpenConns int `yaml:"db_max_open_conns"`

	// DBMaxIdleConns limits idle database connections. 0 means default.
	DBMaxIdleConns int `yaml:"db_max_idle_conns"`

	// TelegramToken comes from TENSKEE_TELEGRAM_TOKEN only.
	TelegramToken string `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BotUsername:        "tenskee_bot",
		Timezone:           "UTC",
		ReminderTime:       "08:00",
		PollTimeoutSeconds: 30,
		Listen:             "127.0.0.1:8480",
		AI: AIConfig{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 10,
		},
	}
}

// Load loads configuration from baseDir/config.yaml, fills defaults for
// missing values, and applies environment overrides. A missing file yields
// the defaults. The baseDir parameter lets tests use t.TempDir().
func Load(baseDir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(baseDir, "config.yaml"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Normalize()
	cfg.applyEnv()
	return cfg, nil
}

// Normalize fills in missing/zero values with the defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.BotUsername == "" {
		c.BotUsername = def.BotUsername
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.ReminderTime == "" {
		c.ReminderTime = def.ReminderTime
	}
	if c.PollTimeoutSeconds == 0 {
		c.PollTimeoutSeconds = def.PollTimeoutSeconds
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = def.AI.TimeoutSeconds
	}
}

// applyEnv overlays secrets and deployment overrides from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("TENSKEE_TELEGRAM_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TENSKEE_OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("TENSKEE_BOT_USERNAME"); v != "" {
		c.BotUsername = v
	}
	if v := os.Getenv("TENSKEE_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ChatID = id
		}
	}
}

// Location resolves the configured reference timezone. Invalid zones fall
// back to UTC with an error, so callers can log and keep running.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ReminderClock parses ReminderTime into hour and minute.
func (c *Config) ReminderClock() (hour, minute int, err error) {
	parts := strings.SplitN(c.ReminderTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("reminder_time must be HH:MM, got %q", c.ReminderTime)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("reminder_time must be HH:MM, got %q", c.ReminderTime)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("reminder_time must be HH:MM, got %q", c.ReminderTime)
	}
	return hour, minute, nil
}
