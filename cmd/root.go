package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xescure/keecli/config"
	"github.com/xescure/keecli/pkg/account"
	"github.com/xescure/keecli/pkg/faucet"
	"github.com/xescure/keecli/pkg/fx"
	"github.com/xescure/keecli/pkg/keeta"
)

var (
	authPassphrase string
	authSeed       string
	authOffset     uint32
	authNetwork    string
	authResolver   string
	authActing     string
)

var rootCmd = &cobra.Command{
	Use:   "keecli",
	Short: "A CLI for the Keeta FX network",
	Long: `keecli is a command-line client for the Keeta asset-exchange network:
swap tokens through the FX negotiation protocol, query the resolver's
token registry, request test funds from the faucet, and manage account
metadata.

Examples:
  keecli swap 1000 USD to EUR -p "my passphrase"
  keecli list-tokens -p "my passphrase"
  keecli faucet -s 6fe2...91ab
  keecli balance -p "my passphrase"`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&authPassphrase, "passphrase", "p", "", "User passphrase for authentication (mutually exclusive with seed)")
	rootCmd.PersistentFlags().StringVarP(&authSeed, "seed", "s", "", "Hex seed for authentication (mutually exclusive with passphrase)")
	rootCmd.PersistentFlags().Uint32VarP(&authOffset, "offset", "o", 0, "Account offset for seed derivation")
	rootCmd.PersistentFlags().StringVarP(&authNetwork, "network", "n", "test", "Network to connect to (test, main, staging, dev)")
	rootCmd.PersistentFlags().StringVarP(&authResolver, "resolver", "r", "", "Resolver account address (uses the network default if not provided)")
	rootCmd.PersistentFlags().StringVar(&authActing, "account", "", "Acting account address (signing account acts on its own behalf if not provided)")
}

// clients bundles everything a command needs after authentication.
type clients struct {
	identity *account.Identity
	cfg      *config.Config
	ledger   *keeta.Client
	fx       *fx.Client
	faucet   *faucet.Client
	log      zerolog.Logger
}

// authenticate derives the signing identity from the persistent auth
// flags and wires up the network clients.
func authenticate() (*clients, error) {
	network, err := account.ParseNetwork(authNetwork)
	if err != nil {
		return nil, err
	}

	id, err := account.Derive(account.Options{
		Passphrase:    authPassphrase,
		Seed:          authSeed,
		Offset:        authOffset,
		Network:       network,
		ActingAccount: authActing,
	})
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(string(network))
	if err != nil {
		return nil, err
	}

	resolver := authResolver
	if resolver == "" {
		resolver = cfg.Resolver
	}

	log := newLogger(cfg.LogLevel)

	fc := faucet.New(cfg.FaucetURL, log)
	fc.Amount = cfg.FaucetAmount
	fc.Interval = cfg.FaucetInterval
	fc.MaxAttempts = cfg.FaucetMaxAttempts

	return &clients{
		identity: id,
		cfg:      cfg,
		ledger:   keeta.NewClient(cfg.NodeURL, cfg.BaseToken, log),
		fx:       fx.NewClient(fx.NewHTTPProtocol(cfg.FXURL, resolver, log), log),
		faucet:   fc,
		log:      log,
	}, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
