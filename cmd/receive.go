package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Show your account address to receive tokens",
	Run:   runReceive,
}

func init() {
	rootCmd.AddCommand(receiveCmd)
}

func runReceive(cmd *cobra.Command, args []string) {
	cl, err := authenticate()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fmt.Println("\nYour account address:")
	color.Cyan("  %s\n", cl.identity.Address())
	fmt.Println("\nShare this address to receive tokens.")
	fmt.Println()
}
