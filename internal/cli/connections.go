package cli

import (
	"sort"

	"github.com/spf13/cobra"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Manage dApp connections",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected origins and their permissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		network, err := currentNetwork(ctx)
		if err != nil {
			return err
		}
		table, err := st.Connections(ctx, network)
		if err != nil {
			return err
		}

		if len(table) == 0 {
			cmd.Printf("No connected origins on %s.\n", network)
			return nil
		}

		origins := make([]string, 0, len(table))
		for origin := range table {
			origins = append(origins, origin)
		}
		sort.Strings(origins)

		for _, origin := range origins {
			cmd.Printf("%s\n", origin)
			conn := table[origin]

			addresses := make([]string, 0, len(conn.Connect))
			for address := range conn.Connect {
				addresses = append(addresses, address)
			}
			sort.Strings(addresses)

			for _, address := range addresses {
				cmd.Printf("  %s:", address)
				for _, perm := range conn.Connect[address] {
					cmd.Printf(" %s", perm)
				}
				cmd.Printf("\n")
			}
		}
		return nil
	},
}

var revokeAddress string

var connectionsRevokeCmd = &cobra.Command{
	Use:   "revoke <origin>",
	Short: "Revoke a dApp connection",
	Long: `Revoke the connection for an origin. With --address only that wallet's
grant is removed; the origin disappears entirely once its last grant is
gone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		origin := args[0]

		network, err := currentNetwork(ctx)
		if err != nil {
			return err
		}
		table, err := st.Connections(ctx, network)
		if err != nil {
			return err
		}

		conn, ok := table[origin]
		if !ok {
			return walleterr.WithDetails(
				walleterr.New("CONNECTION_NOT_FOUND", "origin is not connected"),
				map[string]string{"origin": origin})
		}

		if revokeAddress != "" {
			delete(conn.Connect, revokeAddress)
			table[origin] = conn
		} else {
			delete(table, origin)
		}

		// Origins left without grants are dropped by the store on write.
		if err := st.SetConnections(ctx, table, network); err != nil {
			return err
		}

		cmd.Printf("Revoked %s\n", origin)
		return nil
	},
}

func init() {
	connectionsRevokeCmd.Flags().StringVar(&revokeAddress, "address", "", "revoke only this wallet's grant")

	connectionsCmd.AddCommand(connectionsListCmd)
	connectionsCmd.AddCommand(connectionsRevokeCmd)
}
