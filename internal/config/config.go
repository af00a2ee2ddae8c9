package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Tiingo struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"tiingo"`
	Data struct {
		DailyDir   string `yaml:"daily_dir"`
		RecipesDir string `yaml:"recipes_dir"`
	} `yaml:"data"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Sync struct {
		Workers   int    `yaml:"workers"`
		StartDate string `yaml:"start_date"`
	} `yaml:"sync"`
	Schedule struct {
		SyncCron string `yaml:"sync_cron"`
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Watchlist  []string `yaml:"watchlist"`
	ScanRecipe string   `yaml:"scan_recipe"`
	LogLevel   string   `yaml:"log_level"`
	Proxy      string   `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is loaded first so the
// Tiingo credential can live outside the config file.
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
	if v := os.Getenv("TIINGO_API_KEY"); v != "" {
		cfg.Tiingo.APIKey = v
	}
	if v := os.Getenv("TIINGO_BASE_URL"); v != "" {
		cfg.Tiingo.BaseURL = v
	}
	if v := os.Getenv("DAILY_DATA_DIR"); v != "" {
		cfg.Data.DailyDir = v
	}
	if v := os.Getenv("RECIPES_DIR"); v != "" {
		cfg.Data.RecipesDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SYNC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.Workers = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.Data.DailyDir == "" {
		cfg.Data.DailyDir = "data/daily"
	}
	if cfg.Data.RecipesDir == "" {
		cfg.Data.RecipesDir = "recipes"
	}
	if cfg.Sync.Workers == 0 {
		cfg.Sync.Workers = 4
	}
	if cfg.Sync.StartDate == "" {
		cfg.Sync.StartDate = "1970-01-01"
	}
	if cfg.Schedule.SyncCron == "" {
		cfg.Schedule.SyncCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 23 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks the fields every command relies on. The Tiingo credential
// is deliberately not checked here: only sync paths need it, and the fetcher
// constructor fails fast when it is missing.
func (c *Config) Validate() error {
	if c.Data.DailyDir == "" {
		return fmt.Errorf("data.daily_dir is required")
	}
	if c.Sync.Workers < 0 {
		return fmt.Errorf("sync.workers must not be negative")
	}
	return nil
}
