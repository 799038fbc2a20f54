package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xescure/keecli/pkg/account"
	"github.com/xescure/keecli/pkg/keeta"
	"github.com/xescure/keecli/pkg/types"
)

// fakeLedger serves one info record and captures what gets written back.
type fakeLedger struct {
	info    keeta.AccountInfo
	written *keeta.AccountInfo
}

func (f *fakeLedger) BaseToken() string { return "KTA" }

func (f *fakeLedger) Balance(ctx context.Context, acct, token string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeLedger) AllBalances(ctx context.Context, acct string) ([]types.BalanceEntry, error) {
	return nil, nil
}

func (f *fakeLedger) AccountInfo(ctx context.Context, acct string) (*keeta.AccountInfo, error) {
	info := f.info
	return &info, nil
}

func (f *fakeLedger) SetInfo(ctx context.Context, signer *account.Identity, target string, info *keeta.AccountInfo) error {
	copied := *info
	f.written = &copied
	return nil
}

func (f *fakeLedger) Send(ctx context.Context, signer *account.Identity, recipient, token string, amount *big.Int) error {
	return nil
}

func testIdentity(t *testing.T) *account.Identity {
	t.Helper()
	id, err := account.Derive(account.Options{Passphrase: "metadata tests"})
	require.NoError(t, err)
	return id
}

func encodeMeta(t *testing.T, meta map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(meta)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func decodeMeta(t *testing.T, encoded string) map[string]any {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	return meta
}

func TestSetLogoPreservesExistingFields(t *testing.T) {
	ledger := &fakeLedger{info: keeta.AccountInfo{
		Name:        "Euro Token",
		Description: "resolver-published euro",
		Metadata:    encodeMeta(t, map[string]any{"decimalPlaces": float64(2), "issuer": "acme"}),
	}}
	updater := NewUpdater(ledger, testIdentity(t))

	err := updater.SetLogo(context.Background(), "keeta_eur", "https://example.com/eur.png")
	require.NoError(t, err)
	require.NotNil(t, ledger.written)

	// Everything outside the patch survives byte for byte.
	assert.Equal(t, "Euro Token", ledger.written.Name)
	assert.Equal(t, "resolver-published euro", ledger.written.Description)

	meta := decodeMeta(t, ledger.written.Metadata)
	assert.Equal(t, "https://example.com/eur.png", meta["logoURI"])
	assert.Equal(t, float64(2), meta["decimalPlaces"])
	assert.Equal(t, "acme", meta["issuer"])
}

func TestSetLogoEmptyMetadata(t *testing.T) {
	ledger := &fakeLedger{info: keeta.AccountInfo{Name: "Fresh Token"}}
	updater := NewUpdater(ledger, testIdentity(t))

	err := updater.SetLogo(context.Background(), "keeta_new", "ipfs://logo")
	require.NoError(t, err)

	meta := decodeMeta(t, ledger.written.Metadata)
	assert.Equal(t, "ipfs://logo", meta["logoURI"])
	assert.Equal(t, float64(0), meta["decimalPlaces"])
}

func TestSetLogoRejectsCorruptMetadata(t *testing.T) {
	ledger := &fakeLedger{info: keeta.AccountInfo{Metadata: "not-base64!!"}}
	updater := NewUpdater(ledger, testIdentity(t))

	err := updater.SetLogo(context.Background(), "keeta_bad", "ipfs://logo")
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Nil(t, ledger.written, "nothing must be written when the patch fails")
}

func TestSetResolverMetadata(t *testing.T) {
	ledger := &fakeLedger{info: keeta.AccountInfo{Name: "old", Description: "old"}}
	updater := NewUpdater(ledger, testIdentity(t))

	raw := []byte(`{"version": 1, "currencyMap": {"USD": "keeta_usd"}}`)
	err := updater.SetResolverMetadata(context.Background(), "keeta_resolver", raw)
	require.NoError(t, err)
	require.NotNil(t, ledger.written)

	assert.Empty(t, ledger.written.Name)
	assert.Empty(t, ledger.written.Description)
	meta := decodeMeta(t, ledger.written.Metadata)
	assert.Equal(t, float64(1), meta["version"])
}

func TestSetResolverMetadataRejectsInvalidJSON(t *testing.T) {
	ledger := &fakeLedger{}
	updater := NewUpdater(ledger, testIdentity(t))

	err := updater.SetResolverMetadata(context.Background(), "keeta_resolver", []byte("{nope"))
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Nil(t, ledger.written)
}

func TestLogoURIPassthrough(t *testing.T) {
	for _, input := range []string{
		"https://example.com/logo.png",
		"ipfs://QmHash",
		"data:image/png;base64,aGVsbG8=",
		"data:image/webp;base64,aGVsbG8=",
	} {
		uri, err := LogoURI(input)
		require.NoError(t, err, input)
		assert.Equal(t, input, uri)
	}
}

func TestLogoURIRejectsBadDataURI(t *testing.T) {
	_, err := LogoURI("data:image/gif;base64,aGVsbG8=")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = LogoURI("data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestLogoURIFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("fake png bytes"), 0o644))

	uri, err := LogoURI(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), decoded)
}

func TestLogoURIUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.gif")
	require.NoError(t, os.WriteFile(path, []byte("gif"), 0o644))

	_, err := LogoURI(path)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestLogoURIMissingFile(t *testing.T) {
	_, err := LogoURI(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}
