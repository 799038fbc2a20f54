package keeta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"github.com/xescure/keecli/pkg/account"
	"github.com/xescure/keecli/pkg/types"
)

// Client is the HTTP implementation of Ledger against a Keeta node.
type Client struct {
	base      string
	baseToken string
	http      *http.Client
	log       zerolog.Logger
}

// NewClient creates a node client for the given base URL and base token
// address.
func NewClient(baseURL, baseToken string, log zerolog.Logger) *Client {
	return &Client{
		base:      baseURL,
		baseToken: baseToken,
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

// BaseToken returns the network's base token address.
func (c *Client) BaseToken() string { return c.baseToken }

// Balance returns the raw balance of one token held by acct.
func (c *Client) Balance(ctx context.Context, acct, token string) (*big.Int, error) {
	var out struct {
		Balance string `json:"balance"`
	}
	path := fmt.Sprintf("/v1/account/%s/balance/%s", url.PathEscape(acct), url.PathEscape(token))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return parseAmount(out.Balance)
}

// AllBalances lists every token balance held by acct.
func (c *Client) AllBalances(ctx context.Context, acct string) ([]types.BalanceEntry, error) {
	var out struct {
		Balances []struct {
			Token   string `json:"token"`
			Balance string `json:"balance"`
		} `json:"balances"`
	}
	path := fmt.Sprintf("/v1/account/%s/balances", url.PathEscape(acct))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}

	entries := make([]types.BalanceEntry, 0, len(out.Balances))
	for _, b := range out.Balances {
		amount, err := parseAmount(b.Balance)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", b.Token, err)
		}
		entries = append(entries, types.BalanceEntry{Token: b.Token, Balance: amount})
	}
	return entries, nil
}

// AccountInfo reads the full info record of an account.
func (c *Client) AccountInfo(ctx context.Context, acct string) (*AccountInfo, error) {
	var out struct {
		Info AccountInfo `json:"info"`
	}
	path := fmt.Sprintf("/v1/account/%s/info", url.PathEscape(acct))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out.Info, nil
}

// SetInfo replaces the info record of target, authorized by signer.
func (c *Client) SetInfo(ctx context.Context, signer *account.Identity, target string, info *AccountInfo) error {
	path := fmt.Sprintf("/v1/account/%s/info", url.PathEscape(target))
	return c.post(ctx, signer, path, info, nil)
}

// Send transfers amount raw units of token to recipient.
func (c *Client) Send(ctx context.Context, signer *account.Identity, recipient, token string, amount *big.Int) error {
	body := struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Token  string `json:"token"`
		Amount string `json:"amount"`
	}{
		From:   signer.ActingAddress(),
		To:     recipient,
		Token:  token,
		Amount: amount.String(),
	}
	return c.post(ctx, signer, "/v1/transaction", body, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// post submits a signed write. The signature covers the exact request
// body bytes and travels in headers so the node can verify before
// decoding.
func (c *Client) post(ctx context.Context, signer *account.Identity, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Keeta-Signer", signer.Address())
	req.Header.Set("X-Keeta-Signature", base58.Encode(signer.Sign(payload)))
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("node request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("node request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", types.ErrNotFound, req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the node's error message from the response body when
// it has one, falling back to the raw body or bare status code.
func apiError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err == nil && len(body) > 0 {
		var errorResp map[string]interface{}
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil {
			if message, ok := errorResp["message"].(string); ok {
				return fmt.Errorf("node error (status %d): %s", resp.StatusCode, message)
			}
		}
		return fmt.Errorf("node error (status %d): %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("node returned status code %d", resp.StatusCode)
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: malformed amount %q", types.ErrValidation, s)
	}
	return amount, nil
}
