package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string
	LogLevel        string
	HTTPAddr        string
	DBType          string
	DBDSN           string
	FileSchedules   string
	FileSuggestions string
	FTClientID      string
	FTClientSecret  string
	IntraBaseURL    string
	IntraRateLimit  float64
	RedisURL        string
	StatusCacheTTL  time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the configuration once from the environment and an optional .env
// file in the working directory. Invalid configuration panics.
func Load() *Config {
	once.Do(func() {
		c, err := New(".env")
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// New builds a Config from envFile (skipped when missing) and the process
// environment; the environment wins.
func New(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading %s: %w", envFile, err)
			}
		}
	}

	c := &Config{
		Env:             v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		DBType:          v.GetString("STORAGE_BACKEND"),
		DBDSN:           v.GetString("POSTGRES_DSN"),
		FileSchedules:   v.GetString("SCHEDULES_FILE"),
		FileSuggestions: v.GetString("SUGGESTIONS_FILE"),
		FTClientID:      v.GetString("FT_CLIENT_ID"),
		FTClientSecret:  v.GetString("FT_CLIENT_SECRET"),
		IntraBaseURL:    v.GetString("INTRA_BASE_URL"),
		IntraRateLimit:  v.GetFloat64("INTRA_RATE_LIMIT"),
		RedisURL:        v.GetString("REDIS_URL"),
		StatusCacheTTL:  v.GetDuration("STATUS_CACHE_TTL"),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8088")
	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("SCHEDULES_FILE", "data/schedules.json")
	v.SetDefault("SUGGESTIONS_FILE", "data/accepted_suggestions.json")
	v.SetDefault("FT_CLIENT_ID", "")
	v.SetDefault("FT_CLIENT_SECRET", "")
	v.SetDefault("INTRA_BASE_URL", "https://api.intra.42.fr")
	v.SetDefault("INTRA_RATE_LIMIT", 2)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("STATUS_CACHE_TTL", "10m")
}

func (c *Config) Validate() error {
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileSchedules == "" || c.FileSuggestions == "") {
		return errors.New("File storage requires SCHEDULES_FILE and SUGGESTIONS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.IntraRateLimit <= 0 {
		return errors.New("INTRA_RATE_LIMIT must be positive")
	}
	if c.StatusCacheTTL <= 0 {
		return errors.New("STATUS_CACHE_TTL must be a positive duration")
	}
	return nil
}

// IntraEnabled reports whether 42 API credentials are configured.
func (c *Config) IntraEnabled() bool {
	return c.FTClientID != "" && c.FTClientSecret != ""
}
