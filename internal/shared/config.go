package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Cache    CacheConfig    `toml:"cache"`
	Download DownloadConfig `toml:"download"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains connection settings for the anheyu backend.
type APIConfig struct {
	BaseURL   string  `toml:"base_url" validate:"required,url"`
	Token     string  `toml:"token"`
	Timeout   int     `toml:"timeout" validate:"gte=0"`
	RateLimit float64 `toml:"rate_limit" validate:"gte=0"`
}

// TimeoutDuration returns the request timeout, falling back to 30 seconds when unset.
func (c APIConfig) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// CacheConfig selects and configures the persisted key/value backend.
type CacheConfig struct {
	Driver    string `toml:"driver" validate:"oneof=sqlite redis memory"`
	Path      string `toml:"path" validate:"required_if=Driver sqlite"`
	RedisAddr string `toml:"redis_addr" validate:"required_if=Driver redis"`
	RedisDB   int    `toml:"redis_db" validate:"gte=0"`
	KeyPrefix string `toml:"key_prefix"`
}

// DownloadConfig contains defaults for the wallpaper download task.
type DownloadConfig struct {
	Dir       string  `toml:"dir" validate:"required"`
	Workers   int     `toml:"workers" validate:"gte=0,lte=10"`
	RateLimit float64 `toml:"rate_limit" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
