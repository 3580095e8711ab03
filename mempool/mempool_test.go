package mempool

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wgoldie/coin/chain"
)

func alwaysValid(pubkey []byte, hash chainhash.Hash, signature []byte) bool { return true }

func TestNewRejectsNonCoinbaseSeed(t *testing.T) {
	notCoinbase, err := chain.NewTransaction(
		[]chain.TransactionInput{{Outpoint: chain.TransactionOutpoint{Index: 1}}},
		[]chain.TransactionOutput{{Value: 1, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	_, err = New(chain.NewLedger(), notCoinbase)
	assert.ErrorIs(t, err, ErrNotCoinbase)
}

func TestNewSeedsLedgerWithCoinbase(t *testing.T) {
	coinbase := chain.NewCoinbaseTransaction([]byte("miner"))
	pool, err := New(chain.NewLedger(), coinbase)
	require.NoError(t, err)

	assert.Equal(t, uint64(chain.BlockReward), pool.Ledger().Balance([]byte("miner")))
	leaves := chain.Leaves(pool.Transactions().Merge())
	require.Len(t, leaves, 1)
	assert.True(t, leaves[0].Payload.IsCoinbase())
}

func TestTryAddTransactionAcceptsValidSpend(t *testing.T) {
	coinbase := chain.NewCoinbaseTransaction([]byte("miner"))
	pool, err := New(chain.NewLedger(), coinbase)
	require.NoError(t, err)

	spend, err := chain.NewTransaction(
		[]chain.TransactionInput{{Outpoint: chain.TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]chain.TransactionOutput{{Value: chain.BlockReward, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	next := pool.TryAddTransaction(spend, alwaysValid)
	assert.Equal(t, uint64(0), next.Ledger().Balance([]byte("miner")))
	assert.Equal(t, uint64(chain.BlockReward), next.Ledger().Balance([]byte("bob")))
}

func TestTryAddTransactionRejectsInvalidSpendWithoutPanicking(t *testing.T) {
	coinbase := chain.NewCoinbaseTransaction([]byte("miner"))
	pool, err := New(chain.NewLedger(), coinbase)
	require.NoError(t, err)

	overspend, err := chain.NewTransaction(
		[]chain.TransactionInput{{Outpoint: chain.TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]chain.TransactionOutput{{Value: chain.BlockReward + 1, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)

	next := pool.TryAddTransaction(overspend, alwaysValid)
	assert.Same(t, pool, next)
}

func TestPruneDropsConfirmedAndKeepsOutstanding(t *testing.T) {
	coinbase := chain.NewCoinbaseTransaction([]byte("miner"))
	pool, err := New(chain.NewLedger(), coinbase)
	require.NoError(t, err)

	confirmed, err := chain.NewTransaction(
		[]chain.TransactionInput{{Outpoint: chain.TransactionOutpoint{PreviousTransactionHash: coinbase.Hash(), Index: 0}}},
		[]chain.TransactionOutput{{Value: 10, RecipientPubKey: []byte("bob")}},
	)
	require.NoError(t, err)
	pool = pool.TryAddTransaction(confirmed, alwaysValid)

	outstanding, err := chain.NewTransaction(
		[]chain.TransactionInput{{Outpoint: chain.TransactionOutpoint{PreviousTransactionHash: confirmed.Hash(), Index: 0}}},
		[]chain.TransactionOutput{{Value: 5, RecipientPubKey: []byte("carol")}},
	)
	require.NoError(t, err)
	pool = pool.TryAddTransaction(outstanding, alwaysValid)

	// Simulate a block having mined "confirmed": the new ledger already
	// knows about it, reached via the same coinbase confirmed's input
	// spends from.
	newLedger, err := chain.UpdateLedger(chain.NewLedger(), coinbase, nil)
	require.NoError(t, err)
	newLedger, err = chain.UpdateLedger(newLedger, confirmed, alwaysValid)
	require.NoError(t, err)

	freshCoinbase := chain.NewCoinbaseTransaction([]byte("miner"))
	pruned, err := Prune(pool, newLedger, freshCoinbase, alwaysValid)
	require.NoError(t, err)

	leaves := chain.Leaves(pruned.Transactions().Merge())
	keptOutstanding := false
	for _, leaf := range leaves {
		assert.NotEqual(t, confirmed.Hash(), leaf.Payload.Hash())
		if leaf.Payload.Hash() == outstanding.Hash() {
			keptOutstanding = true
		}
	}
	assert.True(t, keptOutstanding)
}
