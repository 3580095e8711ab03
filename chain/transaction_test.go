package chain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wgoldie/coin/internal/wireutil"
)

func TestNewTransactionRejectsEmptySides(t *testing.T) {
	out := TransactionOutput{Value: 1, RecipientPubKey: []byte("a")}
	in := TransactionInput{Outpoint: TransactionOutpoint{Index: 0}}

	_, err := NewTransaction(nil, []TransactionOutput{out})
	assert.ErrorIs(t, err, ErrEmptyInputs)

	_, err = NewTransaction([]TransactionInput{in}, nil)
	assert.ErrorIs(t, err, ErrEmptyOutputs)

	tx, err := NewTransaction([]TransactionInput{in}, []TransactionOutput{out})
	require.NoError(t, err)
	assert.False(t, tx.IsCoinbase())
}

func TestCoinbaseRecognition(t *testing.T) {
	coinbase := NewCoinbaseTransaction([]byte("miner"))
	assert.True(t, coinbase.IsCoinbase())
	assert.Equal(t, uint64(BlockReward), coinbase.Outputs[0].Value)

	ordinary, err := NewTransaction(
		[]TransactionInput{{Outpoint: TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]TransactionOutput{{Value: 1, RecipientPubKey: []byte("x")}},
	)
	require.NoError(t, err)
	assert.False(t, ordinary.IsCoinbase())
}

func TestHashForSignatureIgnoresInputs(t *testing.T) {
	outputs := []TransactionOutput{{Value: 5, RecipientPubKey: []byte("bob")}}
	tx1, err := NewTransaction([]TransactionInput{{Outpoint: TransactionOutpoint{Index: 0}}}, outputs)
	require.NoError(t, err)
	tx2, err := NewTransaction([]TransactionInput{{Outpoint: TransactionOutpoint{Index: 1}}}, outputs)
	require.NoError(t, err)

	assert.Equal(t, tx1.HashForSignature(), tx2.HashForSignature())
	assert.NotEqual(t, tx1.Hash(), tx2.Hash())
}

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	tx, err := NewTransaction(
		[]TransactionInput{
			{Outpoint: TransactionOutpoint{PreviousTransactionHash: ZeroHash, Index: 3}, Signature: []byte("sig")},
		},
		[]TransactionOutput{
			{Value: 42, RecipientPubKey: []byte("alice")},
			{Value: 7, RecipientPubKey: []byte("bob")},
		},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.Encode(&buf))

	var decoded Transaction
	require.NoError(t, decoded.Decode(&buf))

	assert.Equal(t, tx.Hash(), decoded.Hash())
	assert.Equal(t, tx.Outputs, decoded.Outputs)
}

func TestTransactionDecodeRejectsOversizedCounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wireutil.WriteVarInt(&buf, maxTxElements+1))

	var decoded Transaction
	err := decoded.Decode(&buf)
	assert.Error(t, err)
}
