package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultMainnetRPCURL, cfg.Networks.Mainnet.RPC)
	assert.Equal(t, DefaultTestnetRPCURL, cfg.Networks.Testnet.RPC)
	assert.True(t, cfg.Networks.Testnet.TestOnly)
	assert.False(t, cfg.Networks.Mainnet.TestOnly)
	assert.True(t, cfg.Security.MemoryLock)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Defaults()
	cfg.Networks.Mainnet.APIKey = "key-123"
	cfg.Logging.Level = "debug"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "key-123", loaded.Networks.Mainnet.APIKey)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadOrDefaults(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadOrDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

		_, err := LoadOrDefaults(path)
		assert.True(t, walleterr.Is(err, walleterr.ErrConfigInvalid))
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

		cfg, err := LoadOrDefaults(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, DefaultMainnetRPCURL, cfg.Networks.Mainnet.RPC)
	})
}

func TestNetworkLookup(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	mainnet, err := cfg.Network("mainnet")
	require.NoError(t, err)
	assert.Equal(t, DefaultMainnetRPCURL, mainnet.RPC)

	testnet, err := cfg.Network("testnet")
	require.NoError(t, err)
	assert.True(t, testnet.TestOnly)

	_, err = cfg.Network("devnet")
	assert.True(t, walleterr.Is(err, walleterr.ErrUnknownNetwork))
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvMainnetRPC, "https://rpc.example/mainnet")
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "https://rpc.example/mainnet", cfg.Networks.Mainnet.RPC)
	assert.Equal(t, "env-key", cfg.Networks.Mainnet.APIKey)
	assert.Equal(t, "env-key", cfg.Networks.Testnet.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), ExpandHome("~/x"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "relative", ExpandHome("relative"))
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  LogLevel
	}{
		{"off", LogLevelOff},
		{"none", LogLevelOff},
		{"error", LogLevelError},
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{" error ", LogLevelError},
		{"unknown", LogLevelError},
		{"", LogLevelError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run("level "+tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "tonhold.log")

	logger, err := NewLogger(LogLevelDebug, path)
	require.NoError(t, err)

	logger.Debug("debug %d", 1)
	logger.Error("error %d", 2)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] debug 1")
	assert.Contains(t, string(data), "[ERROR] error 2")
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tonhold.log")

	logger, err := NewLogger(LogLevelError, path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Error("shown")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()

	logger := NullLogger()
	logger.Debug("discarded")
	logger.Error("discarded")
	require.NoError(t, logger.Close())
}
