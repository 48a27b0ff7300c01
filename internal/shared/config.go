package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Discogs     DiscogsConfig     `toml:"discogs"`
	Cache       CacheConfig       `toml:"cache"`
	Sync        SyncConfig        `toml:"sync"`
}

// CredentialsConfig contains the Discogs personal access token.
type CredentialsConfig struct {
	UserToken string `toml:"user_token"`
	Username  string `toml:"username"`
}

// DiscogsConfig contains Discogs API client settings.
type DiscogsConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	Currency  string `toml:"currency"`
}

// CacheConfig contains settings for the local list cache.
type CacheConfig struct {
	Path     string  `toml:"path"`
	TTLHours float64 `toml:"ttl_hours"`
}

// SyncConfig contains default tunables for sync operations.
type SyncConfig struct {
	Threshold float64 `toml:"threshold"`
	FolderID  int     `toml:"folder_id"`
}

// TTL returns the cache time-to-live as a [time.Duration].
// A zero or negative ttl_hours falls back to one hour.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return time.Hour
	}
	return time.Duration(c.TTLHours * float64(time.Hour))
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the config back to disk with owner-only permissions.
// The file carries the personal access token, so 0600 matters.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
