package fx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xescure/keecli/pkg/types"
)

// Phase identifies a step of the negotiation for progress reporting.
type Phase string

const (
	PhaseEstimate Phase = "estimate"
	PhaseQuote    Phase = "quote"
	PhaseExchange Phase = "exchange"
)

// SwapResult is the terminal artifact of a successful negotiation.
type SwapResult struct {
	Exchange *Exchange
	Estimate Estimate
	Quote    *Quote
}

// Client drives the FX protocol. It is a thin policy layer over a
// Protocol implementation: it owns phase ordering, the first-estimate
// selection policy, and the degrade-to-empty registry reads.
type Client struct {
	protocol Protocol
	log      zerolog.Logger

	// Progress, when set, is called as each negotiation phase completes.
	// It lets the command shell narrate the swap without any console
	// writes happening in here.
	Progress func(phase Phase, result any)
}

// NewClient wraps a Protocol implementation.
func NewClient(protocol Protocol, log zerolog.Logger) *Client {
	return &Client{protocol: protocol, log: log}
}

// ListTokens fetches the token registry. Registry reads feed display
// only, so failures degrade to an empty list instead of propagating;
// callers fall back to raw addresses.
func (c *Client) ListTokens(ctx context.Context) []types.TokenRecord {
	tokens, err := c.protocol.ListTokens(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("token registry unavailable")
		return nil
	}
	return tokens
}

// ListConversions lists candidate destination tokens for from. Degrades
// to empty on failure, like ListTokens.
func (c *Client) ListConversions(ctx context.Context, from string) []string {
	conversions, err := c.protocol.ListConversions(ctx, from)
	if err != nil {
		c.log.Warn().Err(err).Str("from", from).Msg("conversion list unavailable")
		return nil
	}
	return conversions
}

// ResolveToken maps a ticker to its token address by exact match against
// the registry. Anything that does not match a ticker is passed through
// unchanged, so explicit addresses always work even when the registry is
// unreachable or a ticker is ambiguous.
func (c *Client) ResolveToken(ctx context.Context, nameOrAddress string) string {
	for _, t := range c.ListTokens(ctx) {
		if t.Currency == nameOrAddress {
			return t.Token
		}
	}
	return nameOrAddress
}

// ExecuteSwap runs the three-phase negotiation: estimate, firm quote,
// exchange. The phases are strictly ordered and never retried; a failure
// at any point surfaces directly and a new negotiation must restart from
// the estimate phase, because estimate handles cannot be reused.
func (c *Client) ExecuteSwap(ctx context.Context, req types.SwapRequest) (*SwapResult, error) {
	affinity := req.Affinity
	if affinity == "" {
		affinity = types.AffinityFrom
	}

	estimates, err := c.protocol.GetEstimates(ctx, EstimateRequest{
		From:     req.From,
		To:       req.To,
		Amount:   req.Amount,
		Affinity: affinity,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate phase: %w", err)
	}
	if len(estimates) == 0 {
		return nil, fmt.Errorf("%w: no estimates for %s -> %s", types.ErrNoLiquidity, req.From, req.To)
	}

	// First estimate wins. No best-price search, and the firm quote is
	// accepted even if it diverges from the estimate; slippage checking
	// between the two is a known gap carried over from the protocol's
	// first client.
	estimate := estimates[0]
	c.report(PhaseEstimate, estimate)

	quote, err := c.protocol.GetQuote(ctx, estimate)
	if err != nil {
		return nil, fmt.Errorf("quote phase: %w", err)
	}
	c.report(PhaseQuote, quote)

	exchange, err := c.protocol.CreateExchange(ctx, quote)
	if err != nil {
		return nil, fmt.Errorf("exchange phase: %w", err)
	}
	c.report(PhaseExchange, exchange)

	c.log.Info().
		Str("exchange_id", exchange.ID).
		Str("from", req.From).
		Str("to", req.To).
		Msg("swap settled")

	return &SwapResult{Exchange: exchange, Estimate: estimate, Quote: quote}, nil
}

func (c *Client) report(phase Phase, result any) {
	if c.Progress != nil {
		c.Progress(phase, result)
	}
}
