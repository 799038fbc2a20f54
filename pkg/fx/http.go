package fx

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

	"github.com/rs/zerolog"

	"github.com/xescure/keecli/pkg/types"
)

// HTTPProtocol talks to the FX service published by a resolver account.
type HTTPProtocol struct {
	base     string
	resolver string
	http     *http.Client
	log      zerolog.Logger
}

var _ Protocol = (*HTTPProtocol)(nil)

// NewHTTPProtocol creates a protocol client for the given FX service
// URL. resolver overrides the network's default resolver root when
// non-empty.
func NewHTTPProtocol(baseURL, resolver string, log zerolog.Logger) *HTTPProtocol {
	return &HTTPProtocol{
		base:     baseURL,
		resolver: resolver,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

// ListTokens fetches the resolver's token registry.
func (p *HTTPProtocol) ListTokens(ctx context.Context) ([]types.TokenRecord, error) {
	var out struct {
		Tokens []types.TokenRecord `json:"tokens"`
	}
	if err := p.get(ctx, "/v1/tokens", nil, &out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

// ListConversions lists the token addresses from can convert into.
func (p *HTTPProtocol) ListConversions(ctx context.Context, from string) ([]string, error) {
	var out struct {
		Conversions []string `json:"conversions"`
	}
	if err := p.get(ctx, "/v1/conversions", url.Values{"from": {from}}, &out); err != nil {
		return nil, err
	}
	return out.Conversions, nil
}

// GetEstimates requests price estimates for a swap.
func (p *HTTPProtocol) GetEstimates(ctx context.Context, req EstimateRequest) ([]Estimate, error) {
	body := struct {
		From     string `json:"from"`
		To       string `json:"to"`
		Amount   string `json:"amount"`
		Affinity string `json:"affinity"`
	}{req.From, req.To, req.Amount.String(), string(req.Affinity)}

	var out struct {
		Estimates []struct {
			ConvertedAmount string          `json:"convertedAmount"`
			Provider        string          `json:"provider"`
			Handle          json.RawMessage `json:"handle"`
		} `json:"estimates"`
	}
	if err := p.post(ctx, "/v1/estimates", body, &out); err != nil {
		return nil, err
	}

	estimates := make([]Estimate, 0, len(out.Estimates))
	for _, e := range out.Estimates {
		converted, err := parseWireAmount(e.ConvertedAmount)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, Estimate{
			From:            req.From,
			To:              req.To,
			Amount:          req.Amount,
			ConvertedAmount: converted,
			Provider:        e.Provider,
			handle:          e.Handle,
		})
	}
	return estimates, nil
}

// GetQuote upgrades an estimate into a firm quote.
func (p *HTTPProtocol) GetQuote(ctx context.Context, est Estimate) (*Quote, error) {
	body := struct {
		Handle json.RawMessage `json:"handle"`
	}{est.handle}

	var out struct {
		ConvertedAmount string          `json:"convertedAmount"`
		Signer          string          `json:"signer"`
		Handle          json.RawMessage `json:"handle"`
	}
	if err := p.post(ctx, "/v1/quotes", body, &out); err != nil {
		return nil, err
	}

	converted, err := parseWireAmount(out.ConvertedAmount)
	if err != nil {
		return nil, err
	}
	return &Quote{ConvertedAmount: converted, Signer: out.Signer, handle: out.Handle}, nil
}

// CreateExchange submits a quote for settlement. Rejection, including
// quote expiry, is a settlement error; there is no partial state.
func (p *HTTPProtocol) CreateExchange(ctx context.Context, quote *Quote) (*Exchange, error) {
	body := struct {
		Handle json.RawMessage `json:"handle"`
	}{quote.handle}

	var out struct {
		ExchangeID      string `json:"exchangeID"`
		ConvertedAmount string `json:"convertedAmount"`
	}
	if err := p.post(ctx, "/v1/exchanges", body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSettlement, err)
	}

	converted, err := parseWireAmount(out.ConvertedAmount)
	if err != nil {
		return nil, err
	}
	return &Exchange{ID: out.ExchangeID, ConvertedAmount: converted}, nil
}

func (p *HTTPProtocol) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if p.resolver != "" {
		query.Set("resolver", p.resolver)
	}
	u := p.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return p.do(req, out)
}

func (p *HTTPProtocol) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	u := p.base + path
	if p.resolver != "" {
		u += "?resolver=" + url.QueryEscape(p.resolver)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, out)
}

func (p *HTTPProtocol) do(req *http.Request, out any) error {
	p.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("fx request")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("fx request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(body) > 0 {
			var errorResp map[string]interface{}
			if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil {
				if message, ok := errorResp["message"].(string); ok {
					return fmt.Errorf("fx error (status %d): %s", resp.StatusCode, message)
				}
			}
			return fmt.Errorf("fx error (status %d): %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("fx service returned status code %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseWireAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: malformed amount %q", types.ErrValidation, s)
	}
	return amount, nil
}
