// Package account derives Keeta signing identities from user secrets.
package account

import (
	"bytes"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/pbkdf2"

	"github.com/xescure/keecli/pkg/types"
)

// Network selects which Keeta network an identity talks to.
type Network string

const (
	NetworkTest    Network = "test"
	NetworkMain    Network = "main"
	NetworkStaging Network = "staging"
	NetworkDev     Network = "dev"
)

// ParseNetwork validates a network selector string.
func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case NetworkTest, NetworkMain, NetworkStaging, NetworkDev:
		return Network(s), nil
	}
	return "", fmt.Errorf("%w: unknown network %q (expected test, main, staging or dev)", types.ErrValidation, s)
}

const addressPrefix = "keeta_"

// Passphrase KDF parameters. These are fixed: the same passphrase must
// yield the same seed on every invocation, forever.
const (
	kdfSalt   = "keeta/seed/v1"
	kdfRounds = 4096
	seedLen   = 32
)

// Options are the inputs to Derive. Exactly one of Passphrase and Seed
// must be set; Seed is hex-encoded.
type Options struct {
	Passphrase    string
	Seed          string
	Offset        uint32
	Network       Network
	ActingAccount string
}

// Identity is a derived signing keypair bound to a network. The keypair
// authorizes operations; the acting account, when set, is the distinct
// address whose state those operations read or mutate.
type Identity struct {
	Network Network
	Offset  uint32

	priv    ed25519.PrivateKey
	address string
	acting  string
}

// Derive turns a secret plus an offset into a signing identity. It is a
// pure function of its inputs: no network I/O happens here.
func Derive(opts Options) (*Identity, error) {
	if opts.Passphrase == "" && opts.Seed == "" {
		return nil, fmt.Errorf("%w: either a passphrase or a seed must be provided", types.ErrConfiguration)
	}
	if opts.Passphrase != "" && opts.Seed != "" {
		return nil, fmt.Errorf("%w: cannot provide both a passphrase and a seed", types.ErrConfiguration)
	}

	var seed []byte
	if opts.Passphrase != "" {
		seed = SeedFromPassphrase(opts.Passphrase)
	} else {
		var err error
		seed, err = hex.DecodeString(strings.TrimPrefix(opts.Seed, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: seed is not valid hex: %v", types.ErrValidation, err)
		}
		if len(seed) == 0 {
			return nil, fmt.Errorf("%w: seed is empty", types.ErrValidation)
		}
	}

	network := opts.Network
	if network == "" {
		network = NetworkTest
	}

	priv := keyFromSeed(seed, opts.Offset)
	id := &Identity{
		Network: network,
		Offset:  opts.Offset,
		priv:    priv,
		address: EncodeAddress(priv.Public().(ed25519.PublicKey)),
	}

	if opts.ActingAccount != "" {
		if _, err := DecodeAddress(opts.ActingAccount); err != nil {
			return nil, fmt.Errorf("acting account: %w", err)
		}
		id.acting = opts.ActingAccount
	}
	return id, nil
}

// SeedFromPassphrase deterministically stretches a passphrase into a
// 32-byte seed.
func SeedFromPassphrase(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(kdfSalt), kdfRounds, seedLen, sha256.New)
}

// keyFromSeed derives the keypair at the given index. HMAC-SHA512 keyed
// by the seed over the big-endian offset gives independent keys per index.
func keyFromSeed(seed []byte, offset uint32) ed25519.PrivateKey {
	mac := hmac.New(sha512.New, seed)
	mac.Write([]byte("keeta/account"))
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], offset)
	mac.Write(idx[:])
	sum := mac.Sum(nil)
	return ed25519.NewKeyFromSeed(sum[:ed25519.SeedSize])
}

// Address returns the identity's own account address.
func (id *Identity) Address() string { return id.address }

// ActingAddress returns the account of record for reads and writes: the
// configured acting account if one was supplied, the identity's own
// address otherwise.
func (id *Identity) ActingAddress() string {
	if id.acting != "" {
		return id.acting
	}
	return id.address
}

// Sign produces the identity's ed25519 signature over msg.
func (id *Identity) Sign(msg []byte) []byte {
	return ed25519.Sign(id.priv, msg)
}

// PublicKey returns the raw verifying key.
func (id *Identity) PublicKey() ed25519.PublicKey {
	return id.priv.Public().(ed25519.PublicKey)
}

// EncodeAddress renders a public key as a keeta_ address: base58 over the
// key bytes followed by a 4-byte checksum.
func EncodeAddress(pub ed25519.PublicKey) string {
	return addressPrefix + base58.Encode(append([]byte(pub), checksum(pub)...))
}

// DecodeAddress parses and verifies a keeta_ address, returning the
// public key it encodes.
func DecodeAddress(addr string) (ed25519.PublicKey, error) {
	body, ok := strings.CutPrefix(addr, addressPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: address %q does not start with %q", types.ErrValidation, addr, addressPrefix)
	}
	raw, err := base58.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: address is not valid base58: %v", types.ErrValidation, err)
	}
	if len(raw) != ed25519.PublicKeySize+4 {
		return nil, fmt.Errorf("%w: address has wrong length", types.ErrValidation)
	}
	pub := ed25519.PublicKey(raw[:ed25519.PublicKeySize])
	if !bytes.Equal(raw[ed25519.PublicKeySize:], checksum(pub)) {
		return nil, fmt.Errorf("%w: address checksum mismatch", types.ErrValidation)
	}
	return pub, nil
}

func checksum(pub ed25519.PublicKey) []byte {
	sum := sha256.Sum256(pub)
	return sum[:4]
}
