package chain

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ErrInvalidBlockHashes is returned by Store.TryAddBlock when a block's
// header nonce/hash or transaction tree root do not pass ValidateHashes.
var ErrInvalidBlockHashes = errors.New("chain: block fails hash validation")

// ChainNode is one block's position within the tree of all blocks this
// store has accepted: its parent, its height (genesis is height 1), the
// block itself, and the ledger that results from applying every block from
// genesis down to this one.
type ChainNode struct {
	Parent *ChainNode
	Height uint64
	Block  *SealedBlock
	Ledger *Ledger
}

// AddBlockOutcome classifies what Store.TryAddBlock did with a block.
type AddBlockOutcome int

const (
	// BlockRejected means the block failed hash or ledger validation and
	// was discarded.
	BlockRejected AddBlockOutcome = iota
	// BlockOrphaned means the block's previous-block-hash names a block
	// this store has not seen yet; it is held until that parent arrives.
	BlockOrphaned
	// BlockAdded means the block (and possibly one or more orphans that
	// were waiting on it) was attached to the tree.
	BlockAdded
)

// Store holds every chain this node has seen branch from genesis, tracking
// the best (tallest) head by strict height: a new block must be strictly
// taller than the current best head to replace it, so ties always leave
// the incumbent, first-seen branch in place.
type Store struct {
	bestHead *ChainNode
	byHash   map[chainhash.Hash]*ChainNode
	orphans  map[chainhash.Hash]*SealedBlock
	verify   SignatureVerifier
}

// NewStore seeds a Store with a genesis block and the ledger it produces
// (ordinarily the empty ledger, since genesis has no transactions).
func NewStore(genesis *SealedBlock, genesisLedger *Ledger, verify SignatureVerifier) *Store {
	node := &ChainNode{Height: 1, Block: genesis, Ledger: genesisLedger}
	return &Store{
		bestHead: node,
		byHash:   map[chainhash.Hash]*ChainNode{genesis.Header.BlockHash: node},
		orphans:  map[chainhash.Hash]*SealedBlock{},
		verify:   verify,
	}
}

// BestHead returns the tallest chain tip this store has accepted.
func (s *Store) BestHead() *ChainNode {
	return s.bestHead
}

// Lookup finds the node for a previously accepted block hash.
func (s *Store) Lookup(hash chainhash.Hash) (*ChainNode, bool) {
	n, ok := s.byHash[hash]
	return n, ok
}

// OrphanCount reports how many blocks are waiting on a parent that has not
// arrived yet. Exposed mainly for tests and diagnostics.
func (s *Store) OrphanCount() int {
	return len(s.orphans)
}

func (s *Store) clone() *Store {
	byHash := make(map[chainhash.Hash]*ChainNode, len(s.byHash))
	for k, v := range s.byHash {
		byHash[k] = v
	}
	orphans := make(map[chainhash.Hash]*SealedBlock, len(s.orphans))
	for k, v := range s.orphans {
		orphans[k] = v
	}
	return &Store{bestHead: s.bestHead, byHash: byHash, orphans: orphans, verify: s.verify}
}

// TryAddBlock attempts to attach block to the tree of known chains. If
// block's parent is unknown, it is parked in the orphan pool and later
// reconciled once that parent arrives (recursively, in case more than one
// orphan was waiting on the same chain of ancestors). If its parent is
// known, the block is validated (hashes, then ledger rules over its
// transactions) and, on success, attached as a new ChainNode; the best
// head moves to it only if its height is strictly greater than the
// current best head's, so same-height forks never displace the
// first-seen incumbent.
//
// TryAddBlock never mutates the receiver; it returns the Store resulting
// from the attempt, which is the receiver itself when nothing changed.
func (s *Store) TryAddBlock(block *SealedBlock) (*Store, AddBlockOutcome, error) {
	parent, ok := s.byHash[block.Header.PreviousBlockHash]
	if !ok {
		next := s.clone()
		next.orphans[block.Header.BlockHash] = block
		return next, BlockOrphaned, nil
	}

	if !block.ValidateHashes() {
		return s, BlockRejected, ErrInvalidBlockHashes
	}

	newLedger, err := ValidateTransactions(parent.Ledger, block, s.verify)
	if err != nil {
		return s, BlockRejected, err
	}

	node := &ChainNode{Parent: parent, Height: parent.Height + 1, Block: block, Ledger: newLedger}

	next := s.clone()
	next.byHash[block.Header.BlockHash] = node
	if node.Height > next.bestHead.Height {
		next.bestHead = node
	}

	var reconciled *SealedBlock
	for hash, orphan := range next.orphans {
		if orphan.Header.PreviousBlockHash == block.Header.BlockHash {
			reconciled = orphan
			delete(next.orphans, hash)
			break
		}
	}

	if reconciled != nil {
		return next.TryAddBlock(reconciled)
	}
	return next, BlockAdded, nil
}
