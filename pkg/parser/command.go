package parser

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/xescure/keecli/pkg/types"
)

// Pattern: [swap] <amount> <token> to <token>. Amounts are raw integer
// units; tokens are tickers or keeta_ addresses, so their case matters
// and only the keywords are case-insensitive.
var swapPattern = regexp.MustCompile(`^(?i:swap\s+)?(\d+)\s+(\S+)\s+(?i:to)\s+(\S+)$`)

// ParseSwapCommand parses a positional swap command.
// Examples:
//   - "swap 1000 USD to EUR"
//   - "250 keeta_abc... to EUR"
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("%w: invalid swap command, expected '<amount> <token> to <token>' (e.g. 'swap 1000 USD to EUR')", types.ErrValidation)
	}

	amount, ok := new(big.Int).SetString(matches[1], 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid amount %q", types.ErrValidation, matches[1])
	}

	return &types.SwapRequest{
		Amount:   amount,
		From:     matches[2],
		To:       matches[3],
		Affinity: types.AffinityFrom,
	}, nil
}

// ValidateSwapRequest checks that a swap request has all required fields.
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be a positive integer", types.ErrValidation)
	}
	if req.From == "" {
		return fmt.Errorf("%w: source token is required", types.ErrValidation)
	}
	if req.To == "" {
		return fmt.Errorf("%w: destination token is required", types.ErrValidation)
	}
	return nil
}
