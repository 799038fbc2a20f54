package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/pkg/types"
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List all tokens published by the resolver",
	Long: `List the token/currency registry published by the resolver account.

Examples:
  keecli list-tokens -p "my passphrase"
  keecli list-tokens -p "my passphrase" -r keeta_abc...`,
	Run: runListTokens,
}

var conversionsCmd = &cobra.Command{
	Use:   "list-conversions <token>",
	Short: "List possible conversions from a token",
	Long: `List the tokens a given source token can be converted into.

The argument may be a currency ticker or a token account address.

Examples:
  keecli list-conversions USD -p "my passphrase"
  keecli list-conversions keeta_abc... -p "my passphrase"`,
	Args: cobra.ExactArgs(1),
	Run:  runListConversions,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(conversionsCmd)
}

func runListTokens(cmd *cobra.Command, args []string) {
	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Discovering available tokens..."
	s.Start()
	tokens := cl.fx.ListTokens(context.Background())
	s.Stop()

	displayTokens(tokens)
}

func runListConversions(cmd *cobra.Command, args []string) {
	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()
	from := cl.fx.ResolveToken(ctx, args[0])

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching possible conversions..."
	s.Start()
	conversions := cl.fx.ListConversions(ctx, from)
	tokens := cl.fx.ListTokens(ctx)
	s.Stop()

	if len(conversions) == 0 {
		fmt.Printf("\nNo conversions available from %s.\n", args[0])
		return
	}

	// Best-effort ticker lookup; unknown addresses display raw.
	tickers := make(map[string]string, len(tokens))
	for _, t := range tokens {
		if _, seen := tickers[t.Token]; !seen {
			tickers[t.Token] = t.Currency
		}
	}

	fmt.Printf("\n%s can convert into:\n\n", color.YellowString(args[0]))
	for _, token := range conversions {
		if ticker, ok := tickers[token]; ok {
			fmt.Printf("  %-10s %s\n", color.YellowString(ticker), color.HiBlackString(token))
		} else {
			fmt.Printf("  %s\n", color.HiBlackString(token))
		}
	}
	fmt.Printf("\nTotal: %d conversions\n\n", len(conversions))
}

func displayTokens(tokens []types.TokenRecord) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found. The resolver registry may be unavailable.")
		return
	}

	sorted := make([]types.TokenRecord, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Currency < sorted[j].Currency })

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green("                          AVAILABLE TOKENS")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	for _, token := range sorted {
		fmt.Printf("  %-10s %s\n", color.YellowString(token.Currency), color.HiBlackString(token.Token))
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
