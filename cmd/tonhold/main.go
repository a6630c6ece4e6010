// tonhold is the local persistence and signing core for a TON wallet.
package main

import (
	"os"

	"github.com/tonhold/tonhold/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
