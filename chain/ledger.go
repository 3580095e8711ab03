package chain

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// SignatureVerifier checks a signature over hash under pubkey. It is a
// collaborator injected from outside the package (walletkey supplies the
// real ECDSA implementation) so the ledger's bookkeeping stays independent
// of any particular signature scheme.
type SignatureVerifier func(pubkey []byte, hash chainhash.Hash, signature []byte) bool

// Ledger is an immutable snapshot of every key's balance together with the
// set of transactions that have been folded into it, keyed by hash so
// inputs can look up the outputs they spend. UpdateLedger never mutates an
// existing Ledger; it returns a new one.
type Ledger struct {
	balances             map[string]uint64
	previousTransactions map[chainhash.Hash]*Transaction
}

// NewLedger returns an empty ledger: no balances, no recorded transactions.
func NewLedger() *Ledger {
	return &Ledger{
		balances:             map[string]uint64{},
		previousTransactions: map[chainhash.Hash]*Transaction{},
	}
}

// Balance returns the units currently credited to pubkey.
func (l *Ledger) Balance(pubkey []byte) uint64 {
	return l.balances[string(pubkey)]
}

// PreviousTransaction looks up a transaction this ledger has already
// recorded, for outputs that a later input might spend.
func (l *Ledger) PreviousTransaction(hash chainhash.Hash) (*Transaction, bool) {
	tx, ok := l.previousTransactions[hash]
	return tx, ok
}

func (l *Ledger) clone() *Ledger {
	balances := make(map[string]uint64, len(l.balances))
	for k, v := range l.balances {
		balances[k] = v
	}
	previous := make(map[chainhash.Hash]*Transaction, len(l.previousTransactions))
	for k, v := range l.previousTransactions {
		previous[k] = v
	}
	return &Ledger{balances: balances, previousTransactions: previous}
}

// UpdateLedger folds tx into starting, returning the resulting ledger. It
// implements the following accounting rule, which is an account/balance
// model rather than a UTXO set: a coinbase transaction simply mints
// BlockReward units to its one output. A non-coinbase transaction first
// sums the *entire current balance* of every key referenced by one of its
// inputs into total_available (each distinct key counted once, no matter
// how many inputs reference it), verifies every input's signature, and
// rejects the transaction if the sum of its output values exceeds
// total_available. It then drains exactly the transferred amount — not the
// full total_available — from the referenced keys in the order their
// inputs first appeared, subtracting min(remaining_transfer, balance) from
// each key until the transfer is accounted for.
//
// This means a spending key's balance in excess of what was actually
// transferred stays credited to that key: the drain never removes more than
// the sum of the outputs, so the total of all balances only grows by what
// coinbase transactions mint. Keys that appear later in input order are
// drained only for whatever the earlier keys could not cover.
func UpdateLedger(starting *Ledger, tx *Transaction, verify SignatureVerifier) (*Ledger, error) {
	var totalAvailable uint64
	var keysToDrain [][]byte
	seen := map[string]bool{}

	if tx.IsCoinbase() {
		totalAvailable = BlockReward
	} else {
		sigHash := tx.HashForSignature()
		for _, in := range tx.Inputs {
			prevTx, ok := starting.previousTransactions[in.Outpoint.PreviousTransactionHash]
			if !ok || int(in.Outpoint.Index) >= len(prevTx.Outputs) {
				return nil, ruleError("input references an unknown previous transaction")
			}
			prevOut := prevTx.Outputs[in.Outpoint.Index]
			pubkey := prevOut.RecipientPubKey

			if !seen[string(pubkey)] {
				seen[string(pubkey)] = true
				keysToDrain = append(keysToDrain, pubkey)
				totalAvailable += starting.balances[string(pubkey)]
			}

			if verify != nil && !verify(pubkey, sigHash, in.Signature) {
				return nil, ruleError("invalid input signature")
			}
		}
	}

	var totalTransferred uint64
	for _, out := range tx.Outputs {
		totalTransferred += out.Value
	}
	if totalTransferred > totalAvailable {
		return nil, ruleError("transaction spends more than its inputs make available")
	}

	next := starting.clone()

	remaining := totalTransferred
	for _, key := range keysToDrain {
		if remaining == 0 {
			break
		}
		bal := next.balances[string(key)]
		drain := remaining
		if bal < drain {
			drain = bal
		}
		next.balances[string(key)] = bal - drain
		remaining -= drain
	}

	for _, out := range tx.Outputs {
		next.balances[string(out.RecipientPubKey)] += out.Value
	}

	next.previousTransactions[tx.Hash()] = tx
	return next, nil
}

// ValidateTransactions folds every transaction in block's transaction tree
// into start, in DFS leaf order, requiring that the first leaf (and only
// the first) be a coinbase transaction. It returns the resulting ledger, or
// the first rule violation encountered.
func ValidateTransactions(start *Ledger, block *SealedBlock, verify SignatureVerifier) (*Ledger, error) {
	ledger := start
	for i, leaf := range Leaves(block.TransactionTree) {
		tx := leaf.Payload
		if tx.IsCoinbase() != (i == 0) {
			return nil, ruleError("coinbase transaction must be first and only leaf")
		}
		next, err := UpdateLedger(ledger, &tx, verify)
		if err != nil {
			return nil, err
		}
		ledger = next
	}
	return ledger, nil
}
