package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/xescure/keecli/cmd"
)

func main() {
	// A .env file is optional; flags and KEECLI_* env vars are the
	// primary configuration surface.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
