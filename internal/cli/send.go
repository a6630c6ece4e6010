package cli

import (
	"encoding/hex"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/tonhold/tonhold/internal/service/send"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

var (
	walletFlag  string
	sendTo      string
	sendAmount  string
	sendComment string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a coin transfer",
	Long: `Sign a transfer of coins from the active wallet. The destination may
be a raw address, a user-friendly address, or a .ton DNS name. The
signed message is printed; submission is a separate step.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		w, err := activeWallet(cmd)
		if err != nil {
			return err
		}

		client, _, err := networkClient(ctx)
		if err != nil {
			return err
		}

		coordinator := send.NewCoordinator(client, termSecretService{}, logger)
		signed, err := coordinator.SignTransfer(ctx, w, send.Request{
			To:      sendTo,
			Amount:  sendAmount,
			Comment: sendComment,
		})
		if err != nil {
			return err
		}

		cmd.Printf("Signed transfer from %s\n", w.Address)
		cmd.Printf("  seqno: %d\n", signed.Seqno)
		cmd.Printf("  hash:  %s\n", hex.EncodeToString(signed.Method.Hash[:]))
		return nil
	},
}

var (
	jettonWalletFlag  string
	jettonSymbolFlag  string
	jettonBalanceFlag string
	jettonGasFlag     string
)

var sendJettonCmd = &cobra.Command{
	Use:   "send-jetton",
	Short: "Sign a jetton transfer",
	Long: `Sign a transfer of jetton tokens through the sender's jetton wallet
contract. The balance check, when a balance is supplied, happens before
the password prompt.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		w, err := activeWallet(cmd)
		if err != nil {
			return err
		}

		var balance *big.Int
		if jettonBalanceFlag != "" {
			var ok bool
			balance, ok = new(big.Int).SetString(jettonBalanceFlag, 10)
			if !ok {
				return walleterr.WithDetails(walleterr.ErrInvalidAmount,
					map[string]string{"balance": jettonBalanceFlag})
			}
		}

		client, _, err := networkClient(ctx)
		if err != nil {
			return err
		}

		coordinator := send.NewCoordinator(client, termSecretService{}, logger)
		signed, err := coordinator.SignJettonTransfer(ctx, w, send.JettonAsset{
			Symbol:        jettonSymbolFlag,
			WalletAddress: jettonWalletFlag,
			Balance:       balance,
		}, send.Request{
			To:                sendTo,
			Amount:            sendAmount,
			Comment:           sendComment,
			TransactionAmount: jettonGasFlag,
		})
		if err != nil {
			return err
		}

		cmd.Printf("Signed jetton transfer from %s\n", w.Address)
		cmd.Printf("  seqno: %d\n", signed.Seqno)
		cmd.Printf("  hash:  %s\n", hex.EncodeToString(signed.Method.Hash[:]))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{sendCmd, sendJettonCmd} {
		cmd.Flags().StringVar(&walletFlag, "wallet", "", "sender wallet address (default: active wallet)")
		cmd.Flags().StringVar(&sendTo, "to", "", "destination address or .ton name (required)")
		cmd.Flags().StringVar(&sendAmount, "amount", "", "decimal amount to transfer (required)")
		cmd.Flags().StringVar(&sendComment, "comment", "", "text comment to attach")
		_ = cmd.MarkFlagRequired("to")
		_ = cmd.MarkFlagRequired("amount")
	}

	sendJettonCmd.Flags().StringVar(&jettonWalletFlag, "jetton-wallet", "", "sender's jetton wallet contract address (required)")
	sendJettonCmd.Flags().StringVar(&jettonSymbolFlag, "symbol", "", "token symbol, for messages only")
	sendJettonCmd.Flags().StringVar(&jettonBalanceFlag, "balance", "", "known jetton balance in minimal units, checked before signing")
	sendJettonCmd.Flags().StringVar(&jettonGasFlag, "gas", "", "TON attached for gas (default 0.1)")
	_ = sendJettonCmd.MarkFlagRequired("jetton-wallet")
}
