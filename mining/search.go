// Package mining implements proof-of-work block assembly and the nonce
// search that seals a candidate block.
package mining

import (
	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/mempool"
)

// DefaultMaxTries bounds a single search invocation when the caller has no
// more specific budget in mind.
const DefaultMaxTries = 1 << 32

// FindBlock searches nonces starting at startingNonce, trying up to
// maxTries of them, for one whose resulting block hash meets difficulty.
// It returns the sealed header and true on success, or false if the
// search space was exhausted without finding one.
func FindBlock(header chain.OpenBlockHeader, difficulty int, startingNonce uint64, maxTries uint64) (*chain.SealedBlockHeader, bool) {
	for i := uint64(0); i < maxTries; i++ {
		nonce := startingNonce + i
		hash := header.Hash(nonce)
		sealed := chain.SealedBlockHeader{OpenBlockHeader: header, Nonce: nonce, BlockHash: hash}
		if sealed.MeetsDifficulty(difficulty) {
			return &sealed, true
		}
	}
	return nil, false
}

// BuildNextBlock assembles the next candidate block atop bestHead using
// whatever transactions pool currently holds.
func BuildNextBlock(bestHead *chain.ChainNode, pool *mempool.Pool) *chain.OpenBlock {
	tree := pool.Transactions().Merge()
	header := chain.OpenBlockHeader{
		TransactionTreeHash: tree.Hash(),
		PreviousBlockHash:   bestHead.Block.Header.BlockHash,
	}
	return &chain.OpenBlock{Header: header, TransactionTree: tree}
}
