package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tonhold/tonhold/internal/crypto"
	"github.com/tonhold/tonhold/internal/store"
	"github.com/tonhold/tonhold/internal/ton"
	"github.com/tonhold/tonhold/internal/wallet"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets on the current network",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		network, err := currentNetwork(ctx)
		if err != nil {
			return err
		}
		account, err := st.AccountState(ctx, network)
		if err != nil {
			return err
		}

		if len(account.Wallets) == 0 {
			cmd.Printf("No wallets on %s. Import one with 'tonhold wallet import'.\n", network)
			return nil
		}

		active := account.Active()
		for _, w := range account.Wallets {
			marker := " "
			if active != nil && w.Address == active.Address {
				marker = "*"
			}
			name := w.Name
			if name == "" {
				name = "(unnamed)"
			}
			cmd.Printf("%s %-20s %s  %s\n", marker, name, w.Version, w.Address)
		}
		return nil
	},
}

var (
	importName    string
	importAddress string
	importVersion string
)

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a wallet from its recovery phrase",
	Long: `Import a wallet by entering its 24-word recovery phrase. The phrase
is validated, encrypted with a password of your choice, and stored.
Only the encrypted blob is ever written to disk.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		version := wallet.Version(importVersion)
		if !version.IsValid() {
			return walleterr.WithDetails(walleterr.ErrInvalidInput,
				map[string]string{"version": importVersion})
		}

		// Validate the address before touching any secret input.
		if _, err := ton.ParseAddress(importAddress); err != nil {
			return err
		}

		raw, err := promptMnemonic()
		if err != nil {
			return err
		}
		phrase := wallet.NormalizeMnemonicInput(raw)

		if err := wallet.ValidateMnemonic(phrase); err != nil {
			for _, typo := range wallet.DetectTypos(phrase) {
				if typo.Suggestion != "" {
					cmd.PrintErrf("word %d: %q is not a valid word, did you mean %q?\n",
						typo.Index+1, typo.Word, typo.Suggestion)
				} else {
					cmd.PrintErrf("word %d: %q is not a valid word\n", typo.Index+1, typo.Word)
				}
			}
			return err
		}

		// Derive the key pair once to verify the seed version and record
		// the public key alongside the wallet.
		keys, err := wallet.MnemonicToKeyPair(phrase)
		if err != nil {
			return err
		}
		publicKey := hex.EncodeToString(keys.PublicKey)
		keys.Destroy()

		password, err := promptNewPassword()
		if err != nil {
			return err
		}
		defer crypto.ZeroBytes(password)

		blob, err := crypto.Encrypt([]byte(phrase), string(password))
		if err != nil {
			return err
		}

		network, err := currentNetwork(ctx)
		if err != nil {
			return err
		}
		account, err := st.AccountState(ctx, network)
		if err != nil {
			return err
		}

		if account.WalletByAddress(importAddress) != nil {
			return walleterr.WithDetails(
				walleterr.New("WALLET_EXISTS", "wallet is already imported"),
				map[string]string{"address": importAddress})
		}

		account.Wallets = append(account.Wallets, wallet.State{
			Name:      importName,
			Address:   importAddress,
			PublicKey: publicKey,
			Version:   version,
			Mnemonic:  blob,
		})
		if account.ActiveWallet == "" {
			account.ActiveWallet = importAddress
		}

		if err := st.SetAccountState(ctx, account, network); err != nil {
			return err
		}

		logger.Debug("imported wallet %s on %s", importAddress, network)
		cmd.Printf("Imported wallet %s on %s\n", importAddress, network)
		return nil
	},
}

var walletSelectCmd = &cobra.Command{
	Use:   "select <address>",
	Short: "Select the active wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		address := args[0]

		network, err := currentNetwork(ctx)
		if err != nil {
			return err
		}
		account, err := st.AccountState(ctx, network)
		if err != nil {
			return err
		}

		if account.WalletByAddress(address) == nil {
			return walleterr.WithDetails(walleterr.ErrWalletNotFound,
				map[string]string{"address": address, "network": string(network)})
		}

		account.ActiveWallet = address
		if err := st.SetAccountState(ctx, account, network); err != nil {
			return err
		}

		cmd.Printf("Active wallet is now %s\n", address)
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new recovery phrase",
	Long: `Generate a new 24-word recovery phrase. The phrase is printed once
and never stored; write it down, then import it with 'wallet import'.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		phrase, err := wallet.GenerateMnemonic()
		if err != nil {
			return err
		}

		words := wallet.MnemonicWords(phrase)
		for i, word := range words {
			cmd.Printf("%2d. %s\n", i+1, word)
		}
		return nil
	},
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the coin balance of a wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var address string
		if len(args) == 1 {
			address = args[0]
		} else {
			w, err := activeWallet(cmd)
			if err != nil {
				return err
			}
			address = w.Address
		}

		addr, err := ton.ParseAddress(address)
		if err != nil {
			return err
		}

		// Balances are memoized so repeated queries inside the TTL do
		// not hit the endpoint again.
		cache := store.NewCache(st)
		cacheKey := string(store.KeyBalance) + "_" + addr.String()
		if cached, ok, err := store.GetCached[string](ctx, cache, cacheKey); err == nil && ok {
			cmd.Printf("%s TON (cached)\n", cached)
			return nil
		}

		client, _, err := networkClient(ctx)
		if err != nil {
			return err
		}

		balance, err := client.GetBalance(ctx, addr)
		if err != nil {
			return err
		}

		formatted := ton.FormatNano(balance)
		if err := store.SetCached(ctx, cache, cacheKey, formatted); err != nil {
			logger.Error("caching balance for %s: %v", addr.String(), err)
		}

		cmd.Printf("%s TON\n", formatted)
		return nil
	},
}

// activeWallet resolves the wallet a command operates on: the --wallet
// flag when given, the account's active wallet otherwise.
func activeWallet(cmd *cobra.Command) (*wallet.State, error) {
	ctx := cmd.Context()

	network, err := currentNetwork(ctx)
	if err != nil {
		return nil, err
	}
	account, err := st.AccountState(ctx, network)
	if err != nil {
		return nil, err
	}

	if walletFlag != "" {
		w := account.WalletByAddress(walletFlag)
		if w == nil {
			return nil, walleterr.WithDetails(walleterr.ErrWalletNotFound,
				map[string]string{"address": walletFlag, "network": string(network)})
		}
		return w, nil
	}

	w := account.Active()
	if w == nil {
		return nil, walleterr.WithSuggestion(walleterr.ErrWalletNotFound,
			fmt.Sprintf("no wallets on %s yet, import one with 'tonhold wallet import'", network))
	}
	return w, nil
}

// networkFromName validates a user-supplied network name.
func networkFromName(name string) (store.NetworkID, error) {
	switch store.NetworkID(strings.ToLower(name)) {
	case store.NetworkMainnet:
		return store.NetworkMainnet, nil
	case store.NetworkTestnet:
		return store.NetworkTestnet, nil
	default:
		return "", walleterr.WithDetails(walleterr.ErrUnknownNetwork,
			map[string]string{"network": name})
	}
}

func init() {
	walletImportCmd.Flags().StringVar(&importName, "name", "", "display name for the wallet")
	walletImportCmd.Flags().StringVar(&importAddress, "address", "", "wallet address (required)")
	walletImportCmd.Flags().StringVar(&importVersion, "version", string(wallet.VersionV3R2), "wallet contract version")
	_ = walletImportCmd.MarkFlagRequired("address")

	walletCmd.AddCommand(walletGenerateCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletSelectCmd)
	walletCmd.AddCommand(walletBalanceCmd)
}
