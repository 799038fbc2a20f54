package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xescure/keecli/pkg/faucet"
)

// Config holds the endpoints and tunables for one network.
type Config struct {
	NodeURL   string
	FXURL     string
	BaseToken string
	Resolver  string

	FaucetURL         string
	FaucetAmount      int64
	FaucetInterval    time.Duration
	FaucetMaxAttempts int

	LogLevel string
}

// Load reads configuration from environment variables and an optional
// config file, filling in per-network defaults for anything unset.
func Load(network string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".keecli")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("node_url", fmt.Sprintf("https://node.%s.keeta.com", network))
	v.SetDefault("fx_url", fmt.Sprintf("https://fx.%s.keeta.com", network))
	v.SetDefault("base_token", "KTA")
	v.SetDefault("resolver", "")
	v.SetDefault("faucet_url", faucet.DefaultURL)
	v.SetDefault("faucet_amount", faucet.DefaultAmount)
	v.SetDefault("faucet_poll_interval", faucet.DefaultInterval)
	v.SetDefault("faucet_max_attempts", faucet.DefaultMaxAttempts)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("KEECLI")
	v.AutomaticEnv()

	// Config file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{
		NodeURL:           v.GetString("node_url"),
		FXURL:             v.GetString("fx_url"),
		BaseToken:         v.GetString("base_token"),
		Resolver:          v.GetString("resolver"),
		FaucetURL:         v.GetString("faucet_url"),
		FaucetAmount:      v.GetInt64("faucet_amount"),
		FaucetInterval:    v.GetDuration("faucet_poll_interval"),
		FaucetMaxAttempts: v.GetInt("faucet_max_attempts"),
		LogLevel:          v.GetString("log_level"),
	}

	if cfg.FaucetMaxAttempts <= 0 {
		return nil, fmt.Errorf("faucet_max_attempts must be positive, got %d", cfg.FaucetMaxAttempts)
	}
	if cfg.FaucetInterval <= 0 {
		return nil, fmt.Errorf("faucet_poll_interval must be positive, got %s", cfg.FaucetInterval)
	}

	return cfg, nil
}
