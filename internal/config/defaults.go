package config

// Default toncenter endpoints. Public instances work without an API
// key at a reduced rate limit.
const (
	DefaultMainnetRPCURL = "https://toncenter.com/api/v2/jsonRPC"
	DefaultTestnetRPCURL = "https://testnet.toncenter.com/api/v2/jsonRPC"
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.tonhold",
		Storage: StorageConfig{
			Path: "~/.tonhold/store",
		},
		Networks: NetworksConfig{
			Mainnet: NetworkConfig{
				Name: "mainnet",
				RPC:  DefaultMainnetRPCURL,
			},
			Testnet: NetworkConfig{
				Name:     "testnet",
				RPC:      DefaultTestnetRPCURL,
				TestOnly: true,
			},
		},
		Security: SecurityConfig{
			MemoryLock: true,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.tonhold/tonhold.log",
		},
	}
}
