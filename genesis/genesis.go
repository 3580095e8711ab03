// Package genesis holds the single hardcoded block every chain Store is
// seeded with.
package genesis

import "github.com/wgoldie/coin/chain"

// Nonce is the nonce baked into Block. Since the genesis block carries no
// transactions, its transaction tree hash is always the zero hash, and
// nonce 0 already produces a block hash satisfying any difficulty of 0 (the
// block is never checked against a running difficulty target; it is
// accepted unconditionally as the root of the tree).
const Nonce = 0

// Block is the fixed genesis block every node starts from: no previous
// block, an empty transaction tree, and the nonce/hash pair above.
var Block *chain.SealedBlock

// Ledger is the ledger genesis produces: empty, since genesis mints
// nothing.
var Ledger = chain.NewLedger()

func init() {
	header := chain.OpenBlockHeader{
		TransactionTreeHash: chain.NullNode{}.Hash(),
		PreviousBlockHash:   chain.ZeroHash,
	}
	Block = &chain.SealedBlock{
		Header: chain.SealedBlockHeader{
			OpenBlockHeader: header,
			Nonce:           Nonce,
			BlockHash:       header.Hash(Nonce),
		},
		TransactionTree: chain.NullNode{},
	}
	if !Block.ValidateHashes() {
		panic("genesis: hardcoded genesis block fails its own hash validation")
	}
}
