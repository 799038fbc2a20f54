package types

import "math/big"

// Affinity says which side of a swap the amount is denominated in.
type Affinity string

const (
	AffinityFrom Affinity = "from"
	AffinityTo   Affinity = "to"
)

// ParseAffinity validates an affinity flag value. Empty defaults to "from".
func ParseAffinity(s string) (Affinity, bool) {
	switch Affinity(s) {
	case "":
		return AffinityFrom, true
	case AffinityFrom, AffinityTo:
		return Affinity(s), true
	}
	return "", false
}

// TokenRecord is one entry of the resolver's token registry. The token
// address is the canonical identity; currency tickers may repeat.
type TokenRecord struct {
	Currency string `json:"currency"`
	Token    string `json:"token"`
}

// SwapRequest represents a user's swap command.
type SwapRequest struct {
	From     string
	To       string
	Amount   *big.Int
	Affinity Affinity
}

// BalanceEntry is one token balance of an account, in raw units.
type BalanceEntry struct {
	Token   string
	Balance *big.Int
}
