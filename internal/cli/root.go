// Package cli implements the tonhold command-line interface.
//
// This package uses global variables to manage CLI state, which is the
// standard pattern for Cobra-based CLI applications. The globals are
// initialized in PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonhold/tonhold/internal/config"
	"github.com/tonhold/tonhold/internal/storage"
	"github.com/tonhold/tonhold/internal/store"
	"github.com/tonhold/tonhold/internal/ton"
	"github.com/tonhold/tonhold/internal/version"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

var (
	// Global flags
	homeDir     string
	networkFlag string
	dryRun      bool

	// Global state initialized in PersistentPreRunE
	cfg     *config.Config
	logger  *config.Logger
	backend storage.Backend
	st      *store.Store
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tonhold",
	Short: "Local persistence and signing core for a TON wallet",
	Long: `tonhold manages the durable state of a TON browser-extension wallet
(accounts, connections, configuration, cached quotes) and signs coin and
jetton transfers without ever persisting a plaintext mnemonic.

Example:
  tonhold wallet import --address EQ... --name main
  tonhold send --to alice.ton --amount 1.5 --comment "lunch"
  tonhold connections list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var we *walleterr.WalletError
		if walleterr.As(err, &we) && we.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", we.Suggestion)
		}
	}
	return err
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return walleterr.ExitCode(err)
}

// initGlobals initializes configuration, logging and the store.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.LoadOrDefaults(config.Path(home))
	if err != nil {
		return err
	}
	cfg.Home = home
	config.ApplyEnvironment(cfg)

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		return err
	}

	if dryRun {
		backend = storage.NewMemoryBackend()
	} else {
		backend, err = storage.OpenBadger(config.ExpandHome(cfg.Storage.Path))
		if err != nil {
			return err
		}
	}
	st = store.New(backend)

	logger.Debug("initialized store at %s", cfg.Storage.Path)
	return nil
}

// cleanup releases global resources.
func cleanup() {
	if backend != nil {
		_ = backend.Close()
	}
	if logger != nil {
		_ = logger.Close()
	}
}

// currentNetwork resolves the effective network: the --network flag
// when given, the stored selection otherwise.
func currentNetwork(ctx context.Context) (store.NetworkID, error) {
	if networkFlag != "" {
		return store.NetworkID(networkFlag), nil
	}
	return st.Network(ctx)
}

// networkClient builds a toncenter client for the effective network.
func networkClient(ctx context.Context) (*ton.HTTPClient, config.NetworkConfig, error) {
	network, err := currentNetwork(ctx)
	if err != nil {
		return nil, config.NetworkConfig{}, err
	}
	netCfg, err := cfg.Network(string(network))
	if err != nil {
		return nil, config.NetworkConfig{}, err
	}
	return ton.NewHTTPClient(netCfg.RPC, netCfg.APIKey), netCfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("tonhold %s (%s, %s)\n", version.Version, version.Commit, version.Date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (default ~/.tonhold)")
	rootCmd.PersistentFlags().StringVar(&networkFlag, "network", "", "network to operate on (mainnet or testnet)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "use a throwaway in-memory store, writing nothing to disk")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(sendJettonCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(networkCmd)
}
