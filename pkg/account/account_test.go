package account

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xescure/keecli/pkg/types"
)

func TestDeriveDeterministic(t *testing.T) {
	opts := Options{Passphrase: "correct horse battery staple", Offset: 3, Network: NetworkTest}

	first, err := Derive(opts)
	require.NoError(t, err)
	second, err := Derive(opts)
	require.NoError(t, err)

	assert.Equal(t, first.Address(), second.Address())
	assert.Equal(t, first.Sign([]byte("payload")), second.Sign([]byte("payload")))
}

func TestDeriveOffsetSeparation(t *testing.T) {
	base := Options{Passphrase: "correct horse battery staple", Network: NetworkTest}

	zero, err := Derive(base)
	require.NoError(t, err)

	base.Offset = 5
	five, err := Derive(base)
	require.NoError(t, err)

	assert.NotEqual(t, zero.Address(), five.Address())
}

func TestDeriveFromSeed(t *testing.T) {
	opts := Options{Seed: "6fe2c5c7e1b9a0d4883f12ab34cd56ef6fe2c5c7e1b9a0d4883f12ab34cd56ef"}

	id, err := Derive(opts)
	require.NoError(t, err)
	assert.Equal(t, NetworkTest, id.Network, "network defaults to test")

	// 0x prefix is accepted and equivalent.
	prefixed, err := Derive(Options{Seed: "0x" + opts.Seed})
	require.NoError(t, err)
	assert.Equal(t, id.Address(), prefixed.Address())
}

func TestDeriveSecretExclusivity(t *testing.T) {
	_, err := Derive(Options{})
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = Derive(Options{Passphrase: "pass", Seed: "aabb"})
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestDeriveBadSeed(t *testing.T) {
	_, err := Derive(Options{Seed: "not hex at all"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = Derive(Options{Seed: "0x"})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestActingAccount(t *testing.T) {
	other, err := Derive(Options{Passphrase: "other wallet"})
	require.NoError(t, err)

	id, err := Derive(Options{Passphrase: "mine", ActingAccount: other.Address()})
	require.NoError(t, err)

	assert.Equal(t, other.Address(), id.ActingAddress())
	assert.NotEqual(t, id.Address(), id.ActingAddress())

	// Without an acting account the identity acts on its own behalf.
	solo, err := Derive(Options{Passphrase: "mine"})
	require.NoError(t, err)
	assert.Equal(t, solo.Address(), solo.ActingAddress())

	_, err = Derive(Options{Passphrase: "mine", ActingAccount: "keeta_garbage"})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestSignatureVerifies(t *testing.T) {
	id, err := Derive(Options{Passphrase: "signer"})
	require.NoError(t, err)

	msg := []byte("authorize this")
	assert.True(t, ed25519.Verify(id.PublicKey(), msg, id.Sign(msg)))
}

func TestAddressRoundTrip(t *testing.T) {
	id, err := Derive(Options{Passphrase: "round trip"})
	require.NoError(t, err)

	pub, err := DecodeAddress(id.Address())
	require.NoError(t, err)
	assert.Equal(t, id.PublicKey(), pub)

	_, err = DecodeAddress("nacl_something")
	assert.ErrorIs(t, err, types.ErrValidation)

	// Flip a character to break the checksum.
	addr := []byte(id.Address())
	last := len(addr) - 1
	if addr[last] == '1' {
		addr[last] = '2'
	} else {
		addr[last] = '1'
	}
	_, err = DecodeAddress(string(addr))
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestParseNetwork(t *testing.T) {
	for _, valid := range []string{"test", "main", "staging", "dev"} {
		network, err := ParseNetwork(valid)
		require.NoError(t, err)
		assert.Equal(t, Network(valid), network)
	}

	_, err := ParseNetwork("localnet")
	assert.ErrorIs(t, err, types.ErrValidation)
}
