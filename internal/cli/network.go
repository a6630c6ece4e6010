package cli

import (
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "net",
	Short: "Show or switch the selected network",
}

var networkShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the selected network",
	RunE: func(cmd *cobra.Command, _ []string) error {
		network, err := st.Network(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("%s\n", network)
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <mainnet|testnet>",
	Short: "Switch the selected network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		network, err := networkFromName(args[0])
		if err != nil {
			return err
		}

		if err := st.SetNetwork(ctx, network); err != nil {
			return err
		}

		logger.Debug("switched network to %s", network)
		cmd.Printf("Now using %s\n", network)
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkShowCmd)
	networkCmd.AddCommand(networkUseCmd)
}
