// Package config loads the application configuration file and applies
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coinscout/coinscout/internal/application/monitor"
	"github.com/coinscout/coinscout/internal/application/pipeline"
	"github.com/coinscout/coinscout/internal/domain/scoring"
	"github.com/coinscout/coinscout/internal/infrastructure/providers"
	httpiface "github.com/coinscout/coinscout/internal/interfaces/http"
)

// RedisConfig describes the optional listing cache backend. When disabled
// the coinbase provider falls back to its in-process set.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Scoring  scoring.Config                `yaml:"scoring"`
	Ranker   pipeline.RankerConfig         `yaml:"ranker"`
	Scan     pipeline.ScanConfig           `yaml:"scan"`
	Monitor  monitor.Config                `yaml:"monitor"`
	Server   httpiface.ServerConfig        `yaml:"server"`
	Redis    RedisConfig                   `yaml:"redis"`
	CMC      providers.CoinMarketCapConfig `yaml:"coinmarketcap"`
	Coinbase providers.CoinbaseConfig      `yaml:"coinbase"`
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Scoring:  *scoring.DefaultConfig(),
		Ranker:   pipeline.DefaultRankerConfig(),
		Scan:     pipeline.DefaultScanConfig(),
		Monitor:  monitor.DefaultConfig(),
		Server:   httpiface.DefaultServerConfig(),
		Redis:    RedisConfig{Addr: "localhost:6379"},
		CMC:      providers.DefaultCoinMarketCapConfig(),
		Coinbase: providers.DefaultCoinbaseConfig(),
	}
}

// Load reads a yaml config file over the defaults. An empty path returns
// the defaults untouched. COINMARKETCAP_API_KEY always wins over the file
// so the key never has to live on disk.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := os.Getenv("COINMARKETCAP_API_KEY"); key != "" {
		cfg.CMC.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the cross-package settings the sub-configs cannot check
// themselves.
func (c Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.Ranker.Workers < 0 {
		return fmt.Errorf("ranker workers must not be negative, got %d", c.Ranker.Workers)
	}
	if c.Scan.Limit <= 0 {
		return fmt.Errorf("scan limit must be positive, got %d", c.Scan.Limit)
	}
	if c.Monitor.Interval < 0 {
		return fmt.Errorf("monitor interval must not be negative, got %s", c.Monitor.Interval)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis enabled but no addr configured")
	}
	return nil
}
