package protocol

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/wgoldie/coin/chain"
)

// maxInventoryHashes bounds how many hashes AccumulateInventories will
// return in a single response, the way a real peer would paginate a long
// chain history instead of dumping it all into one message.
const maxInventoryHashes = 500

// FindInventory walks the chain starting at head looking for a block with
// the given hash, returning its ChainNode if found.
func FindInventory(head *chain.ChainNode, target chainhash.Hash) (*chain.ChainNode, bool) {
	for n := head; n != nil; n = n.Parent {
		if n.Block.Header.BlockHash == target {
			return n, true
		}
	}
	return nil, false
}

// AccumulateInventories walks the chain starting at start, collecting
// block hashes until it reaches stop (exclusive), runs out of ancestors, or
// hits maxInventoryHashes entries, whichever comes first.
func AccumulateInventories(start *chain.ChainNode, stop *chainhash.Hash) []chainhash.Hash {
	var out []chainhash.Hash
	for n := start; n != nil && len(out) < maxInventoryHashes; n = n.Parent {
		if stop != nil && n.Block.Header.BlockHash == *stop {
			break
		}
		out = append(out, n.Block.Header.BlockHash)
	}
	return out
}
