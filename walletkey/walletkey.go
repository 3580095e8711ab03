// Package walletkey wraps btcec/v2 key generation and ECDSA signing, acting
// as the verifier primitive the ledger treats as an opaque collaborator:
// it never needs to know how a signature was produced, only whether
// Verify says one is valid.
package walletkey

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// KeyPair is a generated signing identity: a private key and the public
// key bytes that identify it on the ledger.
type KeyPair struct {
	private *btcec.PrivateKey
}

// Generate creates a new random key pair.
func Generate() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &KeyPair{private: priv}, nil
}

// PublicKey returns the compressed public key bytes this key pair is
// identified by on the ledger.
func (k *KeyPair) PublicKey() []byte {
	return k.private.PubKey().SerializeCompressed()
}

// Serialize returns the raw private key bytes, suitable for writing to a
// wallet file and later recovering with FromHex.
func (k *KeyPair) Serialize() []byte {
	return k.private.Serialize()
}

// FromHex reconstructs a KeyPair from the hex-encoded private key bytes
// produced by Serialize.
func FromHex(s string) (*KeyPair, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("walletkey: decoding key: %w", err)
	}
	priv, pub := btcec.PrivKeyFromBytes(raw)
	if pub == nil {
		return nil, fmt.Errorf("walletkey: invalid private key bytes")
	}
	return &KeyPair{private: priv}, nil
}

// Sign produces a DER-encoded ECDSA signature over hash.
func (k *KeyPair) Sign(hash chainhash.Hash) []byte {
	sig := ecdsa.Sign(k.private, hash[:])
	return sig.Serialize()
}

// Verify reports whether signature is a valid DER-encoded ECDSA signature
// over hash under the compressed public key pubkey. Any malformed input
// (unparseable key or signature) is treated as an invalid signature rather
// than an error, matching the ledger's use of this as a boolean predicate.
func Verify(pubkey []byte, hash chainhash.Hash, signature []byte) bool {
	pub, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash[:], pub)
}
