// Package keeta talks to Keeta network nodes: balance reads, account
// info reads and writes, and transaction submission.
package keeta

import (
	"context"
	"math/big"

	"github.com/xescure/keecli/pkg/account"
	"github.com/xescure/keecli/pkg/types"
)

// AccountInfo is the full on-chain info record of an account. SetInfo
// replaces the whole record; there is no field-level patch primitive, so
// updates must read, modify and write back the entire struct.
type AccountInfo struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Metadata          string   `json:"metadata"`
	DefaultPermission []string `json:"defaultPermission,omitempty"`
}

// BalanceReader is the read-only slice of the ledger the faucet poller
// needs.
type BalanceReader interface {
	// BaseToken returns the network's base token address.
	BaseToken() string

	// Balance returns the raw balance of one token held by account.
	Balance(ctx context.Context, acct, token string) (*big.Int, error)
}

// Ledger is the node collaborator. Implementations carry their own
// timeout and retry policy; callers treat every method as a single
// attempt.
type Ledger interface {
	BalanceReader

	// AllBalances lists every token balance held by account.
	AllBalances(ctx context.Context, acct string) ([]types.BalanceEntry, error)

	// AccountInfo reads the full info record of an account.
	AccountInfo(ctx context.Context, acct string) (*AccountInfo, error)

	// SetInfo replaces the info record of target, authorized by signer.
	SetInfo(ctx context.Context, signer *account.Identity, target string, info *AccountInfo) error

	// Send transfers amount raw units of token to recipient.
	Send(ctx context.Context, signer *account.Identity, recipient, token string, amount *big.Int) error
}
