/*
Package config manages TOML config for ListServe services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/chmc/listall/pkg/suggest"
)

// Config holds the entire config structure
type Config struct {
	Suggest SuggestConfig `toml:"suggest"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
}

// SuggestConfig tunes the scoring engine.
type SuggestConfig struct {
	MaxResults      int     `toml:"max_results"`
	FuzzyThreshold  float64 `toml:"fuzzy_threshold"`
	MatchWeight     float64 `toml:"match_weight"`
	RecencyWeight   float64 `toml:"recency_weight"`
	FrequencyWeight float64 `toml:"frequency_weight"`
}

// CacheConfig bounds the suggestion result cache.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxEntries int `toml:"max_entries"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxQueryLen int `toml:"max_query_len"`
	MaxLimit    int `toml:"max_limit"`
}

// StoreConfig selects the item storage backend.
type StoreConfig struct {
	Driver string `toml:"driver"` // "memory" or "sqlite"
	Path   string `toml:"path"`   // database file for the sqlite driver
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Suggest: SuggestConfig{
			MaxResults:      suggest.DefaultMaxResults,
			FuzzyThreshold:  suggest.DefaultFuzzyThreshold,
			MatchWeight:     suggest.DefaultMatchWeight,
			RecencyWeight:   suggest.DefaultRecencyWeight,
			FrequencyWeight: suggest.DefaultFrequencyWeight,
		},
		Cache: CacheConfig{
			TTLSeconds: int(suggest.DefaultCacheTTL / time.Second),
			MaxEntries: suggest.DefaultCacheSize,
		},
		Server: ServerConfig{
			MaxQueryLen: 120,
			MaxLimit:    64,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
	}
}

// Params maps the suggest and cache sections onto engine parameters.
func (c *Config) Params() suggest.Params {
	return suggest.Params{
		MaxResults:      c.Suggest.MaxResults,
		FuzzyThreshold:  c.Suggest.FuzzyThreshold,
		MatchWeight:     c.Suggest.MatchWeight,
		RecencyWeight:   c.Suggest.RecencyWeight,
		FrequencyWeight: c.Suggest.FrequencyWeight,
		CacheTTL:        time.Duration(c.Cache.TTLSeconds) * time.Second,
		CacheSize:       c.Cache.MaxEntries,
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "listserve", "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/listserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		config, err := LoadConfig(customConfigPath)
		if err != nil {
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Debugf("Loaded config from custom path: %s", customConfigPath)
			return config, customConfigPath, nil
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", configPath, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
