package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/pkg/keeta"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show account balances for all tokens",
	Long: `Show every token balance held by the account, resolving tickers and
decimal formatting from the registry and token metadata where possible.

Examples:
  keecli balance -p "my passphrase"
  keecli balance -s 6fe2...91ab -o 2`,
	Run: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching account balances..."
	s.Start()

	balances, err := cl.ledger.AllBalances(ctx, cl.identity.ActingAddress())
	tokens := cl.fx.ListTokens(ctx)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if len(balances) == 0 {
		fmt.Println("\nNo balances found.")
		return
	}

	tickers := make(map[string]string, len(tokens))
	for _, t := range tokens {
		if _, seen := tickers[t.Token]; !seen {
			tickers[t.Token] = t.Currency
		}
	}

	// Sort by ticker (or raw address) for readability.
	sort.Slice(balances, func(i, j int) bool {
		return displayName(tickers, balances[i].Token) < displayName(tickers, balances[j].Token)
	})

	fmt.Printf("\nBalances for %s:\n\n", color.CyanString(cl.identity.ActingAddress()))
	for _, entry := range balances {
		name := balanceLabel(tickers, entry.Token)
		fmt.Printf("  %s: %s\n", name, formatBalance(ctx, cl.ledger, entry.Token, entry.Balance))
	}
	fmt.Println()
}

func displayName(tickers map[string]string, token string) string {
	if ticker, ok := tickers[token]; ok {
		return ticker
	}
	return token
}

func balanceLabel(tickers map[string]string, token string) string {
	if ticker, ok := tickers[token]; ok {
		return fmt.Sprintf("%s (%s)", color.YellowString(ticker), color.HiBlackString(token))
	}
	return color.HiBlackString(token)
}

// formatBalance renders a raw amount using the token's published decimal
// places, falling back to the raw integer when metadata is unavailable.
// Decimal formatting is presentation only; the protocol always deals in
// raw units.
func formatBalance(ctx context.Context, ledger *keeta.Client, token string, raw *big.Int) string {
	info, err := ledger.AccountInfo(ctx, token)
	if err != nil || info.Metadata == "" {
		return raw.String()
	}

	decoded, err := base64.StdEncoding.DecodeString(info.Metadata)
	if err != nil {
		return raw.String()
	}
	var meta struct {
		DecimalPlaces int `json:"decimalPlaces"`
	}
	if err := json.Unmarshal(decoded, &meta); err != nil || meta.DecimalPlaces <= 0 {
		return raw.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(meta.DecimalPlaces)), nil)
	whole, frac := new(big.Int).QuoRem(raw, divisor, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := frac.String()
	if len(fracStr) < meta.DecimalPlaces {
		fracStr = strings.Repeat("0", meta.DecimalPlaces-len(fracStr)) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return whole.String()
	}
	return whole.String() + "." + fracStr
}
