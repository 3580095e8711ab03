package chain

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealEmptyBlock(t *testing.T, previousHash chainhash.Hash, nonce uint64) *SealedBlock {
	t.Helper()
	tree := NullNode{}
	header := OpenBlockHeader{TransactionTreeHash: tree.Hash(), PreviousBlockHash: previousHash}
	return &SealedBlock{
		Header:          SealedBlockHeader{OpenBlockHeader: header, Nonce: nonce, BlockHash: header.Hash(nonce)},
		TransactionTree: tree,
	}
}

func newTestGenesisStore(t *testing.T) (*Store, *SealedBlock) {
	t.Helper()
	genesis := sealEmptyBlock(t, ZeroHash, 0)
	store := NewStore(genesis, NewLedger(), alwaysValid)
	return store, genesis
}

func TestStoreExtendsBestHead(t *testing.T) {
	store, genesis := newTestGenesisStore(t)

	block2 := sealEmptyBlock(t, genesis.Header.BlockHash, 1)
	next, outcome, err := store.TryAddBlock(block2)
	require.NoError(t, err)
	assert.Equal(t, BlockAdded, outcome)
	assert.Equal(t, uint64(2), next.BestHead().Height)
	assert.Equal(t, block2.Header.BlockHash, next.BestHead().Block.Header.BlockHash)
}

func TestStoreRejectsInvalidHashes(t *testing.T) {
	store, genesis := newTestGenesisStore(t)

	block := sealEmptyBlock(t, genesis.Header.BlockHash, 1)
	block.Header.Nonce = 99 // now BlockHash no longer matches Hash(Nonce)

	_, outcome, err := store.TryAddBlock(block)
	assert.Equal(t, BlockRejected, outcome)
	assert.ErrorIs(t, err, ErrInvalidBlockHashes)
}

func TestStoreParksOrphans(t *testing.T) {
	store, genesis := newTestGenesisStore(t)

	orphanParent := sealEmptyBlock(t, genesis.Header.BlockHash, 1)
	orphanChild := sealEmptyBlock(t, orphanParent.Header.BlockHash, 2)

	store, outcome, err := store.TryAddBlock(orphanChild)
	require.NoError(t, err)
	assert.Equal(t, BlockOrphaned, outcome)
	assert.Equal(t, 1, store.OrphanCount())
	assert.Equal(t, uint64(1), store.BestHead().Height)

	store, outcome, err = store.TryAddBlock(orphanParent)
	require.NoError(t, err)
	assert.Equal(t, BlockAdded, outcome)
	assert.Equal(t, 0, store.OrphanCount())
	assert.Equal(t, uint64(3), store.BestHead().Height)
	assert.Equal(t, orphanChild.Header.BlockHash, store.BestHead().Block.Header.BlockHash)
}

func TestStoreForkTieGoesToIncumbent(t *testing.T) {
	store, genesis := newTestGenesisStore(t)

	incumbent := sealEmptyBlock(t, genesis.Header.BlockHash, 1)
	store, _, err := store.TryAddBlock(incumbent)
	require.NoError(t, err)

	// A same-height competitor (different nonce, same parent) must not
	// move bestHead away from the first-seen incumbent.
	challenger := sealEmptyBlock(t, genesis.Header.BlockHash, 2)
	store, outcome, err := store.TryAddBlock(challenger)
	require.NoError(t, err)
	assert.Equal(t, BlockAdded, outcome)
	assert.Equal(t, incumbent.Header.BlockHash, store.BestHead().Block.Header.BlockHash)

	// A strictly taller block built on the challenger does take over.
	overtake := sealEmptyBlock(t, challenger.Header.BlockHash, 3)
	store, outcome, err = store.TryAddBlock(overtake)
	require.NoError(t, err)
	assert.Equal(t, BlockAdded, outcome)
	assert.Equal(t, uint64(3), store.BestHead().Height)
	assert.Equal(t, overtake.Header.BlockHash, store.BestHead().Block.Header.BlockHash)
}

func TestStoreImmutableAcrossAdds(t *testing.T) {
	store, genesis := newTestGenesisStore(t)
	originalHeight := store.BestHead().Height

	_, _, err := store.TryAddBlock(sealEmptyBlock(t, genesis.Header.BlockHash, 1))
	require.NoError(t, err)

	assert.Equal(t, originalHeight, store.BestHead().Height)
}
