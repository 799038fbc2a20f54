// Package faucet requests test funds and waits for them to land.
package faucet

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xescure/keecli/pkg/keeta"
	"github.com/xescure/keecli/pkg/types"
)

// Defaults preserved from the faucet's first client. All three are
// injectable through Client fields and the config layer.
const (
	DefaultURL         = "https://faucet.test.keeta.com/"
	DefaultAmount      = 10
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 30
)

// Client requests faucet funds and polls balance deltas until they
// arrive. The zero value is not usable; construct with New.
type Client struct {
	URL         string
	Amount      int64
	Interval    time.Duration
	MaxAttempts int

	http *http.Client
	log  zerolog.Logger
}

// New creates a faucet client with the stock tunables.
func New(faucetURL string, log zerolog.Logger) *Client {
	if faucetURL == "" {
		faucetURL = DefaultURL
	}
	return &Client{
		URL:         faucetURL,
		Amount:      DefaultAmount,
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
		http:        &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// Request issues a single funding request for address. Success is
// decided purely by the HTTP status class; the response body carries no
// signal worth parsing. No retry happens at this layer.
func (c *Client) Request(ctx context.Context, address string) error {
	form := url.Values{
		"address": {address},
		"amount":  {strconv.FormatInt(c.Amount, 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: faucet returned status %d", types.ErrRequest, resp.StatusCode)
	}
	return nil
}

// RequestAndWait samples the base-token balance, requests funds, then
// re-samples every Interval until the balance rises or the attempt
// budget runs out. The first strictly positive delta is reported as the
// received amount.
//
// Any concurrent sender to the same account is indistinguishable from
// the faucet's own transfer; the ledger exposes no per-transfer
// provenance, so this stays a documented limitation.
func (c *Client) RequestAndWait(ctx context.Context, ledger keeta.BalanceReader, address string) (*big.Int, error) {
	initial, err := ledger.Balance(ctx, address, ledger.BaseToken())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read initial balance: %v", types.ErrRequest, err)
	}

	if err := c.Request(ctx, address); err != nil {
		return nil, err
	}

	c.log.Info().Str("address", address).Msg("waiting for faucet funds")

	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Interval):
		}

		current, err := ledger.Balance(ctx, address, ledger.BaseToken())
		if err != nil {
			// Transient read failure; try again next tick.
			c.log.Debug().Err(err).Int("attempt", attempt+1).Msg("balance sample failed")
			continue
		}

		delta := new(big.Int).Sub(current, initial)
		if delta.Sign() > 0 {
			return delta, nil
		}
	}

	wait := time.Duration(c.MaxAttempts) * c.Interval
	return nil, fmt.Errorf("%w: funds had not arrived after %s", types.ErrTimedOut, wait)
}
