package mining

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Job is what the coordinator sends a mining subprocess over its stdin,
// gob-encoded: everything the subprocess needs to run its own FindBlock
// search without access to the rest of the node's state.
type Job struct {
	TransactionTreeHash chainhash.Hash
	PreviousBlockHash   chainhash.Hash
	Difficulty          int
	StartingNonce       uint64
	MaxTries            uint64
}

// Response is what a mining subprocess writes to its stdout before
// exiting, gob-encoded.
type Response struct {
	Found  bool
	Nonce  uint64
	Hash   chainhash.Hash
}
