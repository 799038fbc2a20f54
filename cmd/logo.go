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
	"github.com/xescure/keecli/pkg/metadata"
)

var logoCmd = &cobra.Command{
	Use:   "change-logo <token> <logo>",
	Short: "Update token account metadata with a logo",
	Long: `Set the logo of a token account. The logo may be an https:, ipfs: or
data: URI, or a local image file (.png, .jpg, .jpeg, .webp) which is
embedded as a base64 data: URI.

Existing metadata fields on the account are preserved; only the logo is
replaced.

Examples:
  keecli change-logo keeta_tok... https://example.com/logo.png -p "my passphrase"
  keecli change-logo keeta_tok... ./logo.png -s 6fe2...91ab`,
	Args: cobra.ExactArgs(2),
	Run:  runChangeLogo,
}

func init() {
	rootCmd.AddCommand(logoCmd)
}

func runChangeLogo(cmd *cobra.Command, args []string) {
	tokenAddress, logoInput := args[0], args[1]

	if _, err := account.DecodeAddress(tokenAddress); err != nil {
		printError(fmt.Errorf("token account: %w", err))
		os.Exit(1)
	}

	logoURI, err := metadata.LogoURI(logoInput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fmt.Printf("\nUpdating logo for %s\n", color.CyanString(tokenAddress))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Updating account metadata..."
	s.Start()
	err = metadata.NewUpdater(cl.ledger, cl.identity).SetLogo(context.Background(), tokenAddress, logoURI)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printSuccess("Logo updated successfully!")
	fmt.Printf("  Account:  %s\n", tokenAddress)
	fmt.Printf("  Logo URI: %s\n\n", truncate(logoURI, 100))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
