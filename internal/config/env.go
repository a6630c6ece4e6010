package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvHome       = "TONHOLD_HOME"
	EnvMainnetRPC = "TONHOLD_MAINNET_RPC"
	EnvTestnetRPC = "TONHOLD_TESTNET_RPC"
	EnvAPIKey     = "TONHOLD_API_KEY" // #nosec G101 -- false positive, this is a const name not a credential
	EnvLogLevel   = "TONHOLD_LOG_LEVEL"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvMainnetRPC); v != "" {
		cfg.Networks.Mainnet.RPC = v
	}

	if v := os.Getenv(EnvTestnetRPC); v != "" {
		cfg.Networks.Testnet.RPC = v
	}

	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Networks.Mainnet.APIKey = v
		cfg.Networks.Testnet.APIKey = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

// ExpandHome expands a leading "~/" against the user home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home + path[1:]
	}
	return path
}
