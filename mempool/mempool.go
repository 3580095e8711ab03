// Package mempool holds the pool of candidate transactions a node has
// accepted but not yet seen mined into a block, layered atop the ledger
// produced by the chain store's current best head.
package mempool

import (
	"errors"

	"github.com/davecgh/go-spew/spew"
	"github.com/wgoldie/coin/chain"
)

// ErrNotCoinbase is returned by New when seeded with a transaction that
// isn't shaped like a coinbase transaction.
var ErrNotCoinbase = errors.New("mempool: seed transaction is not a coinbase transaction")

// Pool is an immutable snapshot of accepted candidate transactions layered
// on the ledger they were validated against, plus the transaction tree
// those candidates currently fold into (always seeded with a coinbase
// transaction as its first leaf, standing in for the block reward a miner
// assembling this pool's contents would claim).
type Pool struct {
	ledger       *chain.Ledger
	transactions *chain.Forest
}

// New seeds an empty pool atop ledger with coinbase as its first
// transaction.
func New(ledger *chain.Ledger, coinbase *chain.Transaction) (*Pool, error) {
	if !coinbase.IsCoinbase() {
		return nil, ErrNotCoinbase
	}
	forest := chain.NewForest().Add(*coinbase)
	ledgerWithCoinbase, err := chain.UpdateLedger(ledger, coinbase, nil)
	if err != nil {
		return nil, err
	}
	return &Pool{ledger: ledgerWithCoinbase, transactions: forest}, nil
}

// Ledger returns the ledger resulting from applying every transaction
// currently in the pool.
func (p *Pool) Ledger() *chain.Ledger {
	return p.ledger
}

// Transactions returns the pool's transaction tree, ready to become a
// candidate block's transaction tree.
func (p *Pool) Transactions() *chain.Forest {
	return p.transactions
}

// TryAddTransaction validates tx against the pool's current ledger and, if
// it passes, returns a new Pool with tx appended. An invalid transaction is
// logged and the pool is returned unchanged; this mirrors try_add_block's
// reject-and-continue behavior rather than surfacing an error the caller
// must handle.
func (p *Pool) TryAddTransaction(tx *chain.Transaction, verify chain.SignatureVerifier) *Pool {
	newLedger, err := chain.UpdateLedger(p.ledger, tx, verify)
	if err != nil {
		log.Debugf("rejecting mempool transaction %v: %v", tx.Hash(), err)
		log.Tracef("rejected transaction: %s", spew.Sdump(tx))
		return p
	}
	return &Pool{ledger: newLedger, transactions: p.transactions.Add(*tx)}
}

// Prune rebuilds a pool atop newLedger, re-applying every non-coinbase
// transaction from old that newLedger has not already recorded. This is
// how a pool is carried forward across a new best head: transactions the
// new block already includes drop out, and everything else is
// re-validated against the post-block ledger (which may now reject
// transactions that double-spent something the new block itself spent).
func Prune(old *Pool, newLedger *chain.Ledger, coinbase *chain.Transaction, verify chain.SignatureVerifier) (*Pool, error) {
	fresh, err := New(newLedger, coinbase)
	if err != nil {
		return nil, err
	}
	for _, leaf := range chain.Leaves(old.transactions.Merge()) {
		tx := leaf.Payload
		if tx.IsCoinbase() {
			continue
		}
		if _, known := newLedger.PreviousTransaction(tx.Hash()); known {
			continue
		}
		fresh = fresh.TryAddTransaction(&tx, verify)
	}
	return fresh, nil
}
