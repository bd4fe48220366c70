package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Console  ConsoleConfig  `toml:"console"`
}

// APIConfig contains the WP Engine API endpoint and credentials.
//
// Username and Password may be left blank in the file and supplied via the
// WPE_API_USER and WPE_API_PASS environment variables instead.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`
	Username  string  `toml:"username"`
	Password  string  `toml:"password"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains settings for the local batch-history database.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ConsoleConfig contains TUI settings.
type ConsoleConfig struct {
	PageSize int    `toml:"page_size"`
	LogFile  string `toml:"log_file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Credentials found in the environment override values from the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidArgument)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HasCredentials reports whether both API credentials are present.
func (c *Config) HasCredentials() bool {
	return c.API.Username != "" && c.API.Password != ""
}

func (c *Config) applyEnv() {
	if user := os.Getenv("WPE_API_USER"); user != "" {
		c.API.Username = user
	}
	if pass := os.Getenv("WPE_API_PASS"); pass != "" {
		c.API.Password = pass
	}
}
