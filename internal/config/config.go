package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"qatrack/backend"
	"qatrack/internal/utils"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	_ "embed"
)

var configOnce sync.Once

var globalConfig *Config

var customConfigPath string // Custom config path set via --config flag

//go:embed config.sample.json
var sampleConfig []byte

const (
	CONFIG_DIR_PATH  = "qatrack"
	CONFIG_FILE_PATH = "config.json"
	CONFIG_DIR_PERM  = 0755
	CONFIG_FILE_PERM = 0644
)

// Config represents the application configuration
type Config struct {
	Remote backend.GatewayConfig `json:"remote"`

	// DBPath is the local snapshot database; empty uses the XDG data dir
	DBPath   string   `json:"db_path,omitempty"`
	IDWidth  int      `json:"id_width" validate:"oneof=3 4"`
	Locale   string   `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Settings Settings `json:"settings"`
}

// Settings are the user preferences components consume at runtime.
// Distribute changes through a SettingsHub.
type Settings struct {
	PageSize       int `json:"page_size" validate:"min=1,max=500"`
	TooltipDelayMS int `json:"tooltip_delay_ms" validate:"min=0,max=10000"`
}

// DefaultSettings is used when the config file leaves settings out
var DefaultSettings = Settings{PageSize: 25, TooltipDelayMS: 500}

func (c *Config) applyDefaults() {
	if c.IDWidth == 0 {
		c.IDWidth = 3
	}
	if c.Settings == (Settings{}) {
		c.Settings = DefaultSettings
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = 10
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	// Type-specific validation
	switch c.Remote.Type {
	case "http":
		if c.Remote.URL == "" {
			return fmt.Errorf("remote: url is required for http gateway")
		}
	case "sqlite":
		// empty db_path falls back to the default location
	}

	return nil
}

// LocaleTag returns the collation locale for category ordering
func (c *Config) LocaleTag() language.Tag {
	if c.Locale == "" {
		return language.German
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		utils.Warnf("config: unknown locale %q, using de", c.Locale)
		return language.German
	}
	return tag
}

// ExpandedDBPath returns DBPath with ~ and environment variables expanded
func (c *Config) ExpandedDBPath() (string, error) {
	return utils.ExpandPath(c.DBPath)
}

// SetCustomConfigPath sets a custom config path to use instead of the default user config directory.
// If path is empty or ".", it uses "./qatrack/config.json" (current directory).
// If path is a directory, it looks for "config.json" inside it.
// If path is a file, it uses that file directly.
// This must be called before GetConfig() is called for the first time.
func SetCustomConfigPath(path string) {
	if path == "" || path == "." {
		customConfigPath = filepath.Join(".", CONFIG_DIR_PATH, CONFIG_FILE_PATH)
	} else {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			customConfigPath = filepath.Join(path, CONFIG_FILE_PATH)
		} else {
			customConfigPath = path
		}
	}
}

// GetConfig loads the configuration once and exits the process if it is unusable
func GetConfig() *Config {
	configOnce.Do(func() {
		config, err := LoadUserOrSampleConfig()
		if err != nil {
			log.Fatal(err)
		}
		globalConfig = config
	})
	return globalConfig
}

// LoadUserOrSampleConfig reads the config file, writing the sample first if none exists
func LoadUserOrSampleConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	configData, err := configDataFromPath(configPath)
	if err != nil {
		return nil, err
	}
	return parseConfig(configData, configPath)
}

func GetConfigPath() (string, error) {
	if customConfigPath != "" {
		// may not exist yet; the sample is written there
		return customConfigPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, CONFIG_DIR_PATH, CONFIG_FILE_PATH), nil
}

func configDataFromPath(configPath string) ([]byte, error) {
	data, err := os.ReadFile(configPath)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	utils.Infof("No config found, writing sample config to %s", configPath)
	return createConfigFromSample(configPath)
}

func createConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), CONFIG_DIR_PERM)
}

func WriteConfigFile(configPath string, data []byte) error {
	return os.WriteFile(configPath, data, CONFIG_FILE_PERM)
}

func createConfigFromSample(configPath string) ([]byte, error) {
	if err := createConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := WriteConfigFile(configPath, sampleConfig); err != nil {
		return nil, fmt.Errorf("failed to write sample config: %w", err)
	}
	return sampleConfig, nil
}

func parseConfig(configData []byte, configPath string) (*Config, error) {
	var configObj Config
	if err := json.Unmarshal(configData, &configObj); err != nil {
		return nil, utils.WrapWithSuggestion(
			fmt.Errorf("invalid JSON in config file %s: %w", configPath, err),
			"Fix the syntax error or delete the file to regenerate the sample",
		)
	}

	configObj.applyDefaults()
	if err := configObj.Validate(); err != nil {
		return nil, utils.WrapWithSuggestion(
			fmt.Errorf("invalid config %s: %w", configPath, err),
			"Compare the file with the sample: remote.type must be sqlite or http, id_width 3 or 4",
		)
	}
	return &configObj, nil
}
