package types

import "errors"

// Sentinel errors shared across the client packages. Callers classify
// failures with errors.Is; wrapping adds the operation context.
var (
	// ErrConfiguration covers missing or mutually exclusive auth inputs.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNoLiquidity means the estimate phase returned zero estimates.
	ErrNoLiquidity = errors.New("no liquidity available")

	// ErrSettlement means a firm quote was rejected at submission,
	// typically because it expired or the balance was insufficient.
	ErrSettlement = errors.New("settlement rejected")

	// ErrRequest covers faucet transport failures and the inability to
	// read a baseline balance before polling.
	ErrRequest = errors.New("request failed")

	// ErrTimedOut means faucet funds had not arrived by the deadline.
	ErrTimedOut = errors.New("timed out waiting for funds")

	// ErrNotFound covers absent accounts, tokens, and files.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed inputs such as bad seeds,
	// unsupported logo formats, or invalid metadata JSON.
	ErrValidation = errors.New("invalid input")
)
