package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/pkg/metadata"
	"github.com/xescure/keecli/pkg/types"
)

var resolverMetadataCmd = &cobra.Command{
	Use:   "set-resolver-metadata <json-file>",
	Short: "Set resolver metadata from a JSON file",
	Long: `Replace an account's resolver metadata with the contents of a JSON
file. The target is the acting account (--account) or the signing
account itself.

Examples:
  keecli set-resolver-metadata ./resolver.json -p "my passphrase"
  keecli set-resolver-metadata ./resolver.json -p "my passphrase" --account keeta_abc...`,
	Args: cobra.ExactArgs(1),
	Run:  runSetResolverMetadata,
}

func init() {
	rootCmd.AddCommand(resolverMetadataCmd)
}

func runSetResolverMetadata(cmd *cobra.Command, args []string) {
	jsonPath := args[0]

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			printError(fmt.Errorf("%w: file %s", types.ErrNotFound, jsonPath))
		} else {
			printError(err)
		}
		os.Exit(1)
	}

	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	target := cl.identity.ActingAddress()
	fmt.Printf("\nSetting resolver metadata for %s from %s\n", color.CyanString(target), jsonPath)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Updating account metadata..."
	s.Start()
	err = metadata.NewUpdater(cl.ledger, cl.identity).SetResolverMetadata(context.Background(), target, raw)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printSuccess("Resolver metadata updated successfully!")
	fmt.Printf("  Account: %s\n", target)

	// Echo a couple of schema highlights when present.
	var parsed map[string]any
	if json.Unmarshal(raw, &parsed) == nil {
		if version, ok := parsed["version"]; ok {
			fmt.Printf("  Metadata version: %v\n", version)
		}
		if currencyMap, ok := parsed["currencyMap"].(map[string]any); ok {
			fmt.Printf("  Currencies registered: %d\n", len(currencyMap))
		}
	}
	fmt.Println()
}
