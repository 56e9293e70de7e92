/*
Package config manages TOML config for typeaid.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/typeaid/internal/utils"
	"github.com/bastiangx/typeaid/pkg/suggest"
	"github.com/bastiangx/typeaid/pkg/vocab"
	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "typeaid"

// Config holds the entire config structure
type Config struct {
	Vocab   VocabConfig   `toml:"vocab"`
	Suggest SuggestConfig `toml:"suggest"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// VocabConfig says where tier files live and how large tiers get.
type VocabConfig struct {
	DataDir      string    `toml:"data_dir"`
	TierCapacity int       `toml:"tier_capacity"`
	Files        TierFiles `toml:"files"`
}

// TierFiles names the source file of each tier, relative to DataDir.
type TierFiles struct {
	FunctionWords   string `toml:"function_words"`
	CommonLemmas    string `toml:"common_lemmas"`
	ChatSlang       string `toml:"chat_slang"`
	Fillers         string `toml:"fillers"`
	FormalDiscourse string `toml:"formal_discourse"`
}

// SuggestConfig holds query defaults.
type SuggestConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	WatchConfig bool `toml:"watch_config"`
}

// LogConfig holds the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Map converts the file names into the form vocab.NewFSSource takes.
func (f TierFiles) Map() map[vocab.TierID]string {
	return map[vocab.TierID]string{
		vocab.FunctionWords:   f.FunctionWords,
		vocab.CommonLemmas:    f.CommonLemmas,
		vocab.ChatSlang:       f.ChatSlang,
		vocab.Fillers:         f.Fillers,
		vocab.FormalDiscourse: f.FormalDiscourse,
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/typeaid/config.toml
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

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Vocab: VocabConfig{
			DataDir:      "data/",
			TierCapacity: vocab.DefaultCapacity,
			Files: TierFiles{
				FunctionWords:   vocab.DefaultFiles[vocab.FunctionWords],
				CommonLemmas:    vocab.DefaultFiles[vocab.CommonLemmas],
				ChatSlang:       vocab.DefaultFiles[vocab.ChatSlang],
				Fillers:         vocab.DefaultFiles[vocab.Fillers],
				FormalDiscourse: vocab.DefaultFiles[vocab.FormalDiscourse],
			},
		},
		Suggest: SuggestConfig{
			DefaultLimit: suggest.MaxSuggestions,
		},
		Server: ServerConfig{
			WatchConfig: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() *Config {
	def := DefaultConfig()
	if c.Vocab.DataDir == "" {
		c.Vocab.DataDir = def.Vocab.DataDir
	}
	if c.Vocab.TierCapacity <= 0 {
		log.Warnf("tier_capacity %d is not positive, using %d", c.Vocab.TierCapacity, def.Vocab.TierCapacity)
		c.Vocab.TierCapacity = def.Vocab.TierCapacity
	}
	if c.Suggest.DefaultLimit <= 0 || c.Suggest.DefaultLimit > suggest.MaxSuggestions {
		log.Warnf("default_limit %d out of range 1..%d, using %d", c.Suggest.DefaultLimit, suggest.MaxSuggestions, def.Suggest.DefaultLimit)
		c.Suggest.DefaultLimit = def.Suggest.DefaultLimit
	}
	return c
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

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config.normalize(), nil
}

// tryPartialParse keeps every section that still decodes and defaults the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if vocabSection, ok := utils.ExtractSection(tempConfig, "vocab"); ok {
		extractVocabConfig(vocabSection, &config.Vocab)
	}
	if suggestSection, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		if val, ok := utils.ExtractInt64(suggestSection, "default_limit"); ok {
			config.Suggest.DefaultLimit = val
		}
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractBool(serverSection, "watch_config"); ok {
			config.Server.WatchConfig = val
		}
	}
	if logSection, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(logSection, "level"); ok {
			config.Log.Level = val
		}
	}
	return config.normalize(), nil
}

// extractVocabConfig extracts vocab configuration from a map
func extractVocabConfig(data map[string]any, v *VocabConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		v.DataDir = val
	}
	if val, ok := utils.ExtractInt64(data, "tier_capacity"); ok {
		v.TierCapacity = val
	}
	files, ok := utils.ExtractSection(data, "files")
	if !ok {
		return
	}
	for key, dst := range map[string]*string{
		"function_words":   &v.Files.FunctionWords,
		"common_lemmas":    &v.Files.CommonLemmas,
		"chat_slang":       &v.Files.ChatSlang,
		"fillers":          &v.Files.Fillers,
		"formal_discourse": &v.Files.FormalDiscourse,
	} {
		if val, ok := utils.ExtractString(files, key); ok {
			*dst = val
		}
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file
func (c *Config) Update(configPath string, defaultLimit *int, watchConfig *bool) error {
	if defaultLimit != nil {
		c.Suggest.DefaultLimit = *defaultLimit
	}
	if watchConfig != nil {
		c.Server.WatchConfig = *watchConfig
	}
	c.normalize()
	return SaveConfig(c, configPath)
}
