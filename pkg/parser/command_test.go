package parser

import (
	"math/big"
	"testing"

	"github.com/xescure/keecli/pkg/types"
)

func TestParseSwapCommand(t *testing.T) {
	cases := []struct {
		command string
		amount  int64
		from    string
		to      string
	}{
		{"swap 1000 USD to EUR", 1000, "USD", "EUR"},
		{"1000 USD to EUR", 1000, "USD", "EUR"},
		{"SWAP 5 EUR TO USD", 5, "EUR", "USD"},
		{"250 keeta_abc123 to EUR", 250, "keeta_abc123", "EUR"},
		{"1 USD to keeta_xyz789", 1, "USD", "keeta_xyz789"},
	}

	for _, tc := range cases {
		req, err := ParseSwapCommand(tc.command)
		if err != nil {
			t.Fatalf("ParseSwapCommand(%q): %v", tc.command, err)
		}
		if req.Amount.Cmp(big.NewInt(tc.amount)) != 0 {
			t.Errorf("%q: amount = %s, want %d", tc.command, req.Amount, tc.amount)
		}
		if req.From != tc.from || req.To != tc.to {
			t.Errorf("%q: pair = %s -> %s, want %s -> %s", tc.command, req.From, req.To, tc.from, tc.to)
		}
		if req.Affinity != types.AffinityFrom {
			t.Errorf("%q: affinity = %q, want %q", tc.command, req.Affinity, types.AffinityFrom)
		}
	}
}

func TestParseSwapCommandRejects(t *testing.T) {
	for _, command := range []string{
		"",
		"swap USD to EUR",
		"swap 1.5 USD to EUR", // raw units are integers
		"swap 10 USD",
		"10 USD EUR",
		"swap -5 USD to EUR",
	} {
		if _, err := ParseSwapCommand(command); err == nil {
			t.Errorf("ParseSwapCommand(%q): expected error", command)
		}
	}
}

func TestValidateSwapRequest(t *testing.T) {
	valid := &types.SwapRequest{From: "USD", To: "EUR", Amount: big.NewInt(10)}
	if err := ValidateSwapRequest(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	zero := &types.SwapRequest{From: "USD", To: "EUR", Amount: big.NewInt(0)}
	if err := ValidateSwapRequest(zero); err == nil {
		t.Error("zero amount accepted")
	}

	missing := &types.SwapRequest{Amount: big.NewInt(10)}
	if err := ValidateSwapRequest(missing); err == nil {
		t.Error("missing tokens accepted")
	}
}
