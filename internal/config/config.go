package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config captures all runtime configuration. Values come from an optional
// YAML file (CONFIG_FILE) with environment variables taking precedence.
type Config struct {
	Port                 string `yaml:"port"`
	AdminToken           string `yaml:"admin_token"`
	DBURL                string `yaml:"db_url"`
	MovieDataURL         string `yaml:"moviedata_url"`
	MovieDataAPIKey      string `yaml:"moviedata_api_key"`
	MovieDataTimeoutSecs int    `yaml:"moviedata_timeout_secs"`
	ReadTimeoutSecs      int    `yaml:"server_read_timeout"`
	WriteTimeoutSecs     int    `yaml:"server_write_timeout"`
	IdleTimeoutSecs      int    `yaml:"server_idle_timeout"`
	DBMaxConns           int    `yaml:"db_max_conns"`
	DBMinConns           int    `yaml:"db_min_conns"`
	DBMaxIdleSecs        int    `yaml:"db_max_conn_idle_secs"`
	DBMaxLifeSecs        int    `yaml:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs    int    `yaml:"db_conn_timeout_secs"`
	DBStatementCache     int    `yaml:"db_statement_cache_capacity"`
}

// Load reads configuration, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                 "8080",
		MovieDataTimeoutSecs: 5,
		ReadTimeoutSecs:      15,
		WriteTimeoutSecs:     15,
		IdleTimeoutSecs:      60,
		DBMaxConns:           20,
		DBMinConns:           2,
		DBMaxIdleSecs:        300,
		DBMaxLifeSecs:        3600,
		DBConnTimeoutSecs:    10,
		DBStatementCache:     256,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnvString("PORT", &cfg.Port)
	applyEnvString("ADMIN_TOKEN", &cfg.AdminToken)
	applyEnvString("DB_URL", &cfg.DBURL)
	applyEnvString("MOVIEDATA_URL", &cfg.MovieDataURL)
	applyEnvString("MOVIEDATA_API_KEY", &cfg.MovieDataAPIKey)
	applyEnvInt("MOVIEDATA_TIMEOUT_SECS", &cfg.MovieDataTimeoutSecs)
	applyEnvInt("SERVER_READ_TIMEOUT", &cfg.ReadTimeoutSecs)
	applyEnvInt("SERVER_WRITE_TIMEOUT", &cfg.WriteTimeoutSecs)
	applyEnvInt("SERVER_IDLE_TIMEOUT", &cfg.IdleTimeoutSecs)
	applyEnvInt("DB_MAX_CONNS", &cfg.DBMaxConns)
	applyEnvInt("DB_MIN_CONNS", &cfg.DBMinConns)
	applyEnvInt("DB_MAX_CONN_IDLE_SECS", &cfg.DBMaxIdleSecs)
	applyEnvInt("DB_MAX_CONN_LIFETIME_SECS", &cfg.DBMaxLifeSecs)
	applyEnvInt("DB_CONN_TIMEOUT_SECS", &cfg.DBConnTimeoutSecs)
	applyEnvInt("DB_STATEMENT_CACHE_CAPACITY", &cfg.DBStatementCache)

	if cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required")
	}
	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.MovieDataURL == "" {
		return Config{}, fmt.Errorf("MOVIEDATA_URL is required")
	}
	if cfg.MovieDataAPIKey == "" {
		return Config{}, fmt.Errorf("MOVIEDATA_API_KEY is required")
	}
	if cfg.MovieDataTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("MOVIEDATA_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(payload, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func applyEnvInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}
