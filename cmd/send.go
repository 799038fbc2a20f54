package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/pkg/account"
	"github.com/xescure/keecli/pkg/types"
)

var sendCmd = &cobra.Command{
	Use:   "send <token> <recipient> <amount>",
	Short: "Send tokens to another account",
	Long: `Send tokens directly to another account. The token may be a currency
ticker or a token account address; the amount is in raw units.

Examples:
  keecli send USD keeta_abc... 1000 -p "my passphrase"
  keecli send keeta_tok... keeta_abc... 50 -s 6fe2...91ab`,
	Args: cobra.ExactArgs(3),
	Run:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) {
	tokenArg, recipient, amountArg := args[0], args[1], args[2]

	amount, ok := new(big.Int).SetString(amountArg, 10)
	if !ok || amount.Sign() <= 0 {
		printError(fmt.Errorf("%w: amount must be a positive integer in raw units, got %q", types.ErrValidation, amountArg))
		os.Exit(1)
	}

	if _, err := account.DecodeAddress(recipient); err != nil {
		printError(fmt.Errorf("recipient: %w", err))
		os.Exit(1)
	}

	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()
	token := cl.fx.ResolveToken(ctx, tokenArg)

	fmt.Printf("\nSending %s %s to %s...\n", amount, tokenArg, color.CyanString(recipient))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Sending transaction..."
	s.Start()
	err = cl.ledger.Send(ctx, cl.identity, recipient, token, amount)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printSuccess("Transfer completed successfully!")
}
