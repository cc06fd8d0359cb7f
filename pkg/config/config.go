/*
Package config manages the TOML config for jokak.

The file is created with defaults on first run. When it fails to decode, the
sections that still parse are salvaged and everything else falls back to the
builtin defaults:

	[engine]
	strip_whitespace = true
	sort_tiles = true
	deadline_ms = 0
	max_tiles = 0

	[dict]
	data_dir = "data/"

	[[dict.tiers]]
	name = "len6"
	file = "len6_words.txt"
	length = 6
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Dict   DictConfig   `toml:"dict"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig has tile handling and extraction options.
type EngineConfig struct {
	StripWhitespace bool `toml:"strip_whitespace"`
	SortTiles       bool `toml:"sort_tiles"`
	DeadlineMS      int  `toml:"deadline_ms"`
	MaxTiles        int  `toml:"max_tiles"` // 0 means no limit
}

// TierConfig names one word list and the word length it holds.
// Length 0 keeps every word of the file.
type TierConfig struct {
	Name   string `toml:"name"`
	File   string `toml:"file"`
	Length int    `toml:"length"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	DataDir string       `toml:"data_dir"`
	Tiers   []TierConfig `toml:"tiers"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxHTMLBytes  int `toml:"max_html_bytes"`
	MaxWordsLimit int `toml:"max_words_limit"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowLeftover bool `toml:"show_leftover"`
	Color        bool `toml:"color"`
}

// Deadline returns the per-invocation engine deadline, zero when disabled.
func (e EngineConfig) Deadline() time.Duration {
	if e.DeadlineMS <= 0 {
		return 0
	}
	return time.Duration(e.DeadlineMS) * time.Millisecond
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			StripWhitespace: true,
			SortTiles:       true,
			DeadlineMS:      0,
			MaxTiles:        0,
		},
		Dict: DictConfig{
			DataDir: "data/",
			Tiers: []TierConfig{
				{Name: "len6", File: "len6_words.txt", Length: 6},
				{Name: "len5", File: "len5_words.txt", Length: 5},
			},
		},
		Server: ServerConfig{
			MaxHTMLBytes:  4 << 20,
			MaxWordsLimit: 200,
		},
		CLI: CliConfig{
			ShowLeftover: true,
			Color:        true,
		},
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath("config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/jokak/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
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
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	// tiers given in the file replace the default list rather than merging into it
	config.Dict.Tiers = nil

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	if len(config.Dict.Tiers) == 0 {
		config.Dict.Tiers = DefaultConfig().Dict.Tiers
	}
	return config, nil
}

// tryPartialParse salvages whichever sections of a broken file still decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractBool(data, "strip_whitespace"); ok {
		engine.StripWhitespace = val
	}
	if val, ok := utils.ExtractBool(data, "sort_tiles"); ok {
		engine.SortTiles = val
	}
	if val, ok := utils.ExtractInt64(data, "deadline_ms"); ok {
		engine.DeadlineMS = val
	}
	if val, ok := utils.ExtractInt64(data, "max_tiles"); ok {
		engine.MaxTiles = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		dict.DataDir = val
	}
	tables, ok := utils.ExtractTables(data, "tiers")
	if !ok {
		return
	}
	var tiers []TierConfig
	for _, table := range tables {
		var tier TierConfig
		tier.Name, _ = utils.ExtractString(table, "name")
		tier.File, _ = utils.ExtractString(table, "file")
		tier.Length, _ = utils.ExtractInt64(table, "length")
		if tier.Name == "" || tier.File == "" {
			log.Warnf("Skipping tier without name or file: %v", table)
			continue
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) > 0 {
		dict.Tiers = tiers
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_html_bytes"); ok {
		server.MaxHTMLBytes = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words_limit"); ok {
		server.MaxWordsLimit = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_leftover"); ok {
		cli.ShowLeftover = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
