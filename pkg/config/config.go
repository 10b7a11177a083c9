/*
Package config manages TOML config for wordexpand.
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordexpand/internal/utils"
	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the user config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Engine   EngineConfig   `toml:"engine"`
	Triggers TriggersConfig `toml:"triggers"`
	Metrics  MetricsConfig  `toml:"metrics"`
	CLI      CliConfig      `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	// MaxText is the longest buffer, in runes, a request may carry.
	MaxText int `toml:"max_text"`
	// MaxCandidates truncates candidate lists, 0 keeps all of them.
	MaxCandidates int `toml:"max_candidates"`
	// ReloadEvery re-reads this file after that many requests, 0 disables it.
	ReloadEvery int `toml:"reload_every"`
}

// EngineConfig selects matching options.
type EngineConfig struct {
	// Normalizer is "ascii" or "unicode".
	Normalizer string `toml:"normalizer"`
}

// TriggersConfig locates the trigger file.
type TriggersConfig struct {
	Path       string `toml:"path"`
	Watch      bool   `toml:"watch"`
	DebounceMS int    `toml:"debounce_ms"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowStrategies bool `toml:"show_strategies"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxText:       100000,
			MaxCandidates: 0,
			ReloadEvery:   1000,
		},
		Engine: EngineConfig{
			Normalizer: "ascii",
		},
		Triggers: TriggersConfig{
			Path:       "triggers.toml",
			Watch:      true,
			DebounceMS: 150,
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
		CLI: CliConfig{
			ShowStrategies: true,
		},
	}
}

// EngineOptions turns the engine section into expand options. Unknown normalizer
// names fall back to ascii.
func (c *Config) EngineOptions() []expand.Option {
	switch c.Engine.Normalizer {
	case "unicode":
		return []expand.Option{expand.WithNormalizer(expand.UnicodeFold)}
	case "", "ascii":
		return nil
	default:
		log.Warnf("Unknown normalizer %q, using ascii", c.Engine.Normalizer)
		return nil
	}
}

// Debounce returns the watcher debounce as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Triggers.DebounceMS) * time.Millisecond
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordexpand/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, pr *utils.PathResolver) (*Config, string) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	if pr == nil {
		return DefaultConfig(), ""
	}
	defaultPath, err := pr.GetConfigPath(FileName)
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	config := InitConfig(defaultPath)
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing. It never
// fails; problems are logged and defaults returned.
func InitConfig(configPath string) *Config {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig()
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig()
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}
	return config
}

// LoadConfig loads from a TOML file. A malformed file is parsed section by
// section and whatever can be read overrides the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		if val, ok := utils.ExtractString(section, "normalizer"); ok {
			config.Engine.Normalizer = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "triggers"); ok {
		extractTriggersConfig(section, &config.Triggers)
	}
	if section, ok := utils.ExtractSection(tempConfig, "metrics"); ok {
		if val, ok := utils.ExtractString(section, "addr"); ok {
			config.Metrics.Addr = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_strategies"); ok {
			config.CLI.ShowStrategies = val
		}
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_text"); ok {
		server.MaxText = val
	}
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		server.MaxCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "reload_every"); ok {
		server.ReloadEvery = val
	}
}

func extractTriggersConfig(data map[string]any, triggers *TriggersConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		triggers.Path = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		triggers.Watch = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		triggers.DebounceMS = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// ErrInvalidValue is returned by Update for negative limits.
var ErrInvalidValue = errors.New("config value must not be negative")

// Update changes the server values and saves to file. An empty configPath only
// changes the values in memory.
func (c *Config) Update(configPath string, maxText, maxCandidates *int) error {
	for _, v := range []*int{maxText, maxCandidates} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidValue, *v)
		}
	}
	if maxText != nil {
		c.Server.MaxText = *maxText
	}
	if maxCandidates != nil {
		c.Server.MaxCandidates = *maxCandidates
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
