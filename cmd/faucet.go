package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/pkg/account"
)

var faucetCmd = &cobra.Command{
	Use:   "faucet",
	Short: "Request test tokens from the faucet and wait for them to arrive",
	Long: `Request base tokens from the test-network faucet, then poll the account
balance until the funds land or the wait budget runs out.

The faucet is only available on the test network.

Examples:
  keecli faucet -p "my passphrase"
  keecli faucet -s 6fe2...91ab`,
	Run: runFaucet,
}

func init() {
	rootCmd.AddCommand(faucetCmd)
}

func runFaucet(cmd *cobra.Command, args []string) {
	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if cl.identity.Network != account.NetworkTest {
		printError(fmt.Errorf("the faucet is only available on the test network, but you specified %q", cl.identity.Network))
		os.Exit(1)
	}

	address := cl.identity.Address()
	fmt.Printf("\nRequesting %d tokens from the faucet for %s\n", cl.faucet.Amount, color.CyanString(address))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Waiting for tokens to arrive..."
	s.Start()
	received, err := cl.faucet.RequestAndWait(context.Background(), cl.ledger, address)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printSuccess("Faucet request completed successfully!")
	fmt.Printf("  Received: %s KTA\n\n", color.GreenString(received.String()))
}
