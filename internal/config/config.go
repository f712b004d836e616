package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`      // current application environment (local, dev, prod etc)
	Timezone         string    `mapstructure:"timezone"` // IANA timezone the schedule is evaluated in
	TelegramAPIToken string    `mapstructure:"-"`        // Telegram API token loaded from environment
	ChatID           int64     `mapstructure:"-"`        // destination chat identifier loaded from environment
	Schedule         Schedule  `mapstructure:"schedule"` // quiz scheduling section
	Trivia           Trivia    `mapstructure:"trivia"`   // trivia source section
	Translate        Translate `mapstructure:"translate"`
	Bank             Bank      `mapstructure:"bank"`
	DB               DB        `mapstructure:"database"` // database configuration section
}

// Schedule contains the daily quiz scheduling parameters.
type Schedule struct {
	ResetHour     int           `mapstructure:"reset_hour"`     // hour at which the daily counter resets
	ActiveFrom    int           `mapstructure:"active_from"`    // first hour of the sending window (inclusive)
	ActiveUntil   int           `mapstructure:"active_until"`   // last hour of the sending window (exclusive)
	MaxPerDay     int           `mapstructure:"max_per_day"`    // cap on quizzes sent per calendar day
	TickInterval  time.Duration `mapstructure:"tick_interval"`  // pause between scheduler ticks
	DedupAttempts int           `mapstructure:"dedup_attempts"` // fetch attempts before giving up on a slot
	RetentionDays int           `mapstructure:"retention_days"` // how long used-question rows are kept
}

// Trivia contains the external trivia API parameters.
type Trivia struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Translate contains the translation parameters.
type Translate struct {
	Enabled    bool   `mapstructure:"enabled"`
	TargetLang string `mapstructure:"target_lang"`
}

// Bank contains the local question bank parameters.
type Bank struct {
	JSONPath string `mapstructure:"json_path"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "Asia/Kolkata")
	v.SetDefault("schedule.reset_hour", 8)
	v.SetDefault("schedule.active_from", 8)
	v.SetDefault("schedule.active_until", 22)
	v.SetDefault("schedule.max_per_day", 7)
	v.SetDefault("schedule.tick_interval", "30s")
	v.SetDefault("schedule.dedup_attempts", 5)
	v.SetDefault("schedule.retention_days", 30)
	v.SetDefault("trivia.base_url", "https://opentdb.com/api.php")
	v.SetDefault("trivia.timeout", "15s")
	v.SetDefault("translate.enabled", true)
	v.SetDefault("translate.target_lang", "gu")
	v.SetDefault("bank.json_path", "assets/questions.json")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("chat_id", "CHAT_ID")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.ChatID = v.GetInt64("chat_id")
	if cfg.ChatID == 0 {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
