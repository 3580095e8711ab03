package chain

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysValid(pubkey []byte, hash chainhash.Hash, signature []byte) bool { return true }

func TestUpdateLedgerCoinbase(t *testing.T) {
	ledger := NewLedger()
	coinbase := NewCoinbaseTransaction([]byte("miner"))

	next, err := UpdateLedger(ledger, coinbase, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(BlockReward), next.Balance([]byte("miner")))

	prev, ok := next.PreviousTransaction(coinbase.Hash())
	require.True(t, ok)
	assert.Equal(t, coinbase.Hash(), prev.Hash())
}

func TestUpdateLedgerSpendsOutput(t *testing.T) {
	ledger := NewLedger()
	coinbase := NewCoinbaseTransaction([]byte("alice"))
	ledger, err := UpdateLedger(ledger, coinbase, nil)
	require.NoError(t, err)

	spend, err := NewTransaction(
		[]TransactionInput{{Outpoint: TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]TransactionOutput{{Value: BlockReward, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	next, err := UpdateLedger(ledger, spend, alwaysValid)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next.Balance([]byte("alice")))
	assert.Equal(t, uint64(BlockReward), next.Balance([]byte("bob")))
}

func TestUpdateLedgerRejectsOverspend(t *testing.T) {
	ledger := NewLedger()
	coinbase := NewCoinbaseTransaction([]byte("alice"))
	ledger, err := UpdateLedger(ledger, coinbase, nil)
	require.NoError(t, err)

	overspend, err := NewTransaction(
		[]TransactionInput{{Outpoint: TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]TransactionOutput{{Value: BlockReward + 1, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	_, err = UpdateLedger(ledger, overspend, alwaysValid)
	assert.Error(t, err)
}

func TestUpdateLedgerRejectsInvalidSignature(t *testing.T) {
	ledger := NewLedger()
	coinbase := NewCoinbaseTransaction([]byte("alice"))
	ledger, err := UpdateLedger(ledger, coinbase, nil)
	require.NoError(t, err)

	spend, err := NewTransaction(
		[]TransactionInput{{Outpoint: TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]TransactionOutput{{Value: 1, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	neverValid := func(pubkey []byte, hash chainhash.Hash, signature []byte) bool { return false }
	_, err = UpdateLedger(ledger, spend, neverValid)
	assert.Error(t, err)
}

// TestUpdateLedgerDrainRuleQuirk pins down the deliberately preserved
// quirk: a transaction's total available balance sums every distinct
// input key's *entire* balance, but draining only removes the transferred
// amount, walking input keys in first-seen order. Any balance left in a
// later key beyond what was needed to cover the transfer is untouched,
// and any shortfall in an earlier key is not made up by a later one
// contributing more than its share.
func TestUpdateLedgerDrainRuleQuirk(t *testing.T) {
	ledger := NewLedger()

	smallCoinbase := NewCoinbaseTransaction([]byte("small"))
	ledger, err := UpdateLedger(ledger, smallCoinbase, nil)
	require.NoError(t, err)

	seedBig, err := NewTransaction(
		[]TransactionInput{{Outpoint: TransactionOutpoint{PreviousTransactionHash: smallCoinbase.Hash(), Index: 0}}},
		[]TransactionOutput{{Value: BlockReward, RecipientPubKey: []byte("big")}},
	)
	require.NoError(t, err)
	ledger, err = UpdateLedger(ledger, seedBig, alwaysValid)
	require.NoError(t, err)

	secondCoinbase := NewCoinbaseTransaction([]byte("small"))
	ledger, err = UpdateLedger(ledger, secondCoinbase, nil)
	require.NoError(t, err)

	require.Equal(t, uint64(BlockReward), ledger.Balance([]byte("small")))
	require.Equal(t, uint64(BlockReward), ledger.Balance([]byte("big")))

	spend, err := NewTransaction(
		[]TransactionInput{
			{Outpoint: TransactionOutpoint{PreviousTransactionHash: secondCoinbase.Hash(), Index: 0}},
			{Outpoint: TransactionOutpoint{PreviousTransactionHash: seedBig.Hash(), Index: 0}},
		},
		[]TransactionOutput{{Value: BlockReward, RecipientPubKey: []byte("recipient")}},
	)
	require.NoError(t, err)

	next, err := UpdateLedger(ledger, spend, alwaysValid)
	require.NoError(t, err)

	// totalAvailable is small's + big's balance (2*BlockReward), but only
	// BlockReward is transferred, so only "small" (first-seen) is drained;
	// "big" keeps its full balance untouched.
	assert.Equal(t, uint64(0), next.Balance([]byte("small")))
	assert.Equal(t, uint64(BlockReward), next.Balance([]byte("big")))
	assert.Equal(t, uint64(BlockReward), next.Balance([]byte("recipient")))
}

func TestValidateTransactionsRequiresCoinbaseFirst(t *testing.T) {
	coinbase := NewCoinbaseTransaction([]byte("miner"))
	ordinary, err := NewTransaction(
		[]TransactionInput{{Outpoint: TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]TransactionOutput{{Value: 1, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	tree := BuildTree([]Transaction{*ordinary, *coinbase})
	block := &SealedBlock{TransactionTree: tree}

	_, err = ValidateTransactions(NewLedger(), block, alwaysValid)
	assert.Error(t, err)
}
