// Package signing implements the provenance signer over Ed25519. Keys are
// either generated fresh per process or derived from a configured seed so
// that verdict records remain verifiable across restarts.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// Signer signs and verifies serialized verdict records.
type Signer struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// NewSigner generates a fresh Ed25519 key pair.
func NewSigner() (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return &Signer{private: priv, public: pub}, nil
}

// NewSignerFromSeed derives a deterministic key pair from a hex-encoded
// 32-byte seed.
func NewSignerFromSeed(hexSeed string) (*Signer, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("decode signing seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Signer{
		private: priv,
		public:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// Sign attests the record. An empty record is refused so that a silently
// truncated verdict can never carry a valid signature.
func (s *Signer) Sign(record []byte) ([]byte, error) {
	if len(record) == 0 {
		return nil, errors.New("refusing to sign empty record")
	}
	return ed25519.Sign(s.private, record), nil
}

// Verify reports whether signature attests record under this signer's key.
func (s *Signer) Verify(record, signature []byte) bool {
	if len(record) == 0 || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(s.public, record, signature)
}

// PublicKeyHex returns the hex-encoded public key for out-of-band
// distribution to verifiers.
func (s *Signer) PublicKeyHex() string {
	return hex.EncodeToString(s.public)
}
