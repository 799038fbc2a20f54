// Package fx implements the asset-exchange negotiation protocol: price
// estimates, firm quotes, and exchange settlement, plus the resolver's
// token registry.
package fx

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/xescure/keecli/pkg/types"
)

// EstimateRequest describes the swap being priced. Affinity says whether
// Amount is denominated in the source or the destination token.
type EstimateRequest struct {
	From     string
	To       string
	Amount   *big.Int
	Affinity types.Affinity
}

// Estimate is a non-binding projected conversion price. The handle is an
// opaque capability minted by the provider; it is what GetQuote upgrades
// into a firm quote and cannot be reused after a failure.
type Estimate struct {
	From            string
	To              string
	Amount          *big.Int
	ConvertedAmount *big.Int
	Provider        string

	handle json.RawMessage
}

// Quote is a firm, provider-signed conversion price derived from an
// estimate. Expiry is enforced by the network, not here.
type Quote struct {
	ConvertedAmount *big.Int
	Signer          string

	handle json.RawMessage
}

// Exchange is the finalized, ledger-accepted settlement of a quote.
type Exchange struct {
	ID              string
	ConvertedAmount *big.Int
}

// Protocol is the FX service collaborator. One method per protocol
// operation so call ordering can be asserted against fakes.
type Protocol interface {
	// ListTokens fetches the resolver's token registry.
	ListTokens(ctx context.Context) ([]types.TokenRecord, error)

	// ListConversions lists the token addresses from can convert into.
	ListConversions(ctx context.Context, from string) ([]string, error)

	// GetEstimates requests price estimates for a swap.
	GetEstimates(ctx context.Context, req EstimateRequest) ([]Estimate, error)

	// GetQuote upgrades an estimate into a firm quote.
	GetQuote(ctx context.Context, est Estimate) (*Quote, error)

	// CreateExchange submits a quote for settlement.
	CreateExchange(ctx context.Context, quote *Quote) (*Exchange, error)
}
