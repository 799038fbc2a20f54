package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/pkg/fx"
	"github.com/xescure/keecli/pkg/parser"
	"github.com/xescure/keecli/pkg/types"
)

var swapAffinity string

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Execute a token swap",
	Long: `Swap tokens through the FX negotiation protocol: price estimates are
fetched, the first estimate is upgraded to a firm quote, and the quote is
submitted for settlement. Amounts are raw (undecimaled) integer units.

The --affinity flag says which token the amount is denominated in:
'from' (the default) means you are spending that many source units,
'to' means you want to receive that many destination units.

Examples:
  keecli swap 1000 USD to EUR -p "my passphrase"
  keecli swap 500 keeta_abc... to USD -s 6fe2...91ab --affinity to`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapAffinity, "affinity", "from", "Which token the amount refers to ('from' or 'to')")
}

func runSwap(cmd *cobra.Command, args []string) {
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	affinity, ok := types.ParseAffinity(swapAffinity)
	if !ok {
		printError(fmt.Errorf("invalid affinity %q (expected 'from' or 'to')", swapAffinity))
		os.Exit(1)
	}
	swapReq.Affinity = affinity

	if err := parser.ValidateSwapRequest(swapReq); err != nil {
		printError(err)
		os.Exit(1)
	}

	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	denominated := swapReq.From
	if affinity == types.AffinityTo {
		denominated = swapReq.To
	}
	fmt.Printf("\nPreparing to swap %s %s...\n", swapReq.Amount, denominated)
	fmt.Printf("  From:   %s\n", swapReq.From)
	fmt.Printf("  To:     %s\n", swapReq.To)
	fmt.Printf("  Signer: %s\n", color.CyanString(cl.identity.Address()))

	ctx := context.Background()

	// Tickers are display sugar; the protocol wants addresses.
	toDisplay := swapReq.To
	swapReq.From = cl.fx.ResolveToken(ctx, swapReq.From)
	swapReq.To = cl.fx.ResolveToken(ctx, swapReq.To)

	cl.fx.Progress = func(phase fx.Phase, result any) {
		switch phase {
		case fx.PhaseEstimate:
			est := result.(fx.Estimate)
			fmt.Println("\n1. Getting price estimates...")
			fmt.Printf("   Estimate: %s %s\n", est.ConvertedAmount, toDisplay)
		case fx.PhaseQuote:
			quote := result.(*fx.Quote)
			fmt.Println("2. Requesting firm quote...")
			fmt.Printf("   Quote signed by %s\n", color.HiBlackString(quote.Signer))
			fmt.Printf("   Guaranteed conversion: %s\n", quote.ConvertedAmount)
		case fx.PhaseExchange:
			fmt.Println("3. Creating exchange...")
		}
	}

	result, err := cl.fx.ExecuteSwap(ctx, *swapReq)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printSuccess("Swap completed successfully!")
	fmt.Printf("  Exchange ID:      %s\n", color.CyanString(result.Exchange.ID))
	fmt.Printf("  Final conversion: %s %s\n\n", result.Exchange.ConvertedAmount, toDisplay)
}
