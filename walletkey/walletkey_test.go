package walletkey

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	key, err := Generate()
	require.NoError(t, err)

	hash := chainhash.HashH([]byte("hello"))
	sig := key.Sign(hash)

	assert.True(t, Verify(key.PublicKey(), hash, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	key, err := Generate()
	require.NoError(t, err)
	other, err := Generate()
	require.NoError(t, err)

	hash := chainhash.HashH([]byte("hello"))
	sig := key.Sign(hash)

	assert.False(t, Verify(other.PublicKey(), hash, sig))
}

func TestVerifyRejectsTamperedHash(t *testing.T) {
	key, err := Generate()
	require.NoError(t, err)

	hash := chainhash.HashH([]byte("hello"))
	sig := key.Sign(hash)

	tampered := chainhash.HashH([]byte("goodbye"))
	assert.False(t, Verify(key.PublicKey(), tampered, sig))
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	hash := chainhash.HashH([]byte("hello"))
	assert.False(t, Verify([]byte("not-a-key"), hash, []byte("not-a-sig")))
}

func TestSerializeFromHexRoundTrip(t *testing.T) {
	key, err := Generate()
	require.NoError(t, err)

	encoded := key.Serialize()
	restored, err := FromHex(hex.EncodeToString(encoded))
	require.NoError(t, err)

	assert.Equal(t, key.PublicKey(), restored.PublicKey())
}

func TestFromHexRejectsGarbage(t *testing.T) {
	_, err := FromHex("not-hex")
	assert.Error(t, err)
}
