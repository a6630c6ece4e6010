// Package config provides configuration management for tonhold.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Storage  StorageConfig  `yaml:"storage"`
	Networks NetworksConfig `yaml:"networks"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig defines where the key-value store lives.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// NetworksConfig holds the per-network settings.
type NetworksConfig struct {
	Mainnet NetworkConfig `yaml:"mainnet"`
	Testnet NetworkConfig `yaml:"testnet"`
}

// NetworkConfig defines one TON network environment.
type NetworkConfig struct {
	Name   string `yaml:"name"`
	RPC    string `yaml:"rpc"`
	APIKey string `yaml:"api_key"`

	// TestOnly marks addresses rendered for this network with the
	// test-only flag.
	TestOnly bool `yaml:"test_only,omitempty"`
}

// SecurityConfig defines security settings.
type SecurityConfig struct {
	MemoryLock bool `yaml:"memory_lock"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Network returns the configuration for the named network.
func (c *Config) Network(name string) (NetworkConfig, error) {
	switch name {
	case c.Networks.Mainnet.Name:
		return c.Networks.Mainnet, nil
	case c.Networks.Testnet.Name:
		return c.Networks.Testnet, nil
	default:
		return NetworkConfig{}, walleterr.WithDetails(walleterr.ErrUnknownNetwork,
			map[string]string{"network": name})
	}
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, walleterr.Wrap(walleterr.ErrConfigInvalid, "parsing %s", path)
	}

	return cfg, nil
}

// LoadOrDefaults reads the configuration, falling back to defaults when
// the file does not exist yet.
func LoadOrDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	return cfg, err
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the configuration file path under the given home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tonhold"
	}
	return filepath.Join(home, ".tonhold")
}
