package protocol

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/mempool"
	"github.com/wgoldie/coin/wire"
)

const seenCacheSize = 5000

// State is everything a node's protocol handling needs: the accepted
// chain, the mempool layered on its best head, the node's own bootstrap
// progress, and its address book. It is immutable; Handle and the other
// functions in this package return a new State rather than mutating one.
type State struct {
	Chain           *chain.Store
	Mempool         *mempool.Pool
	Startup         StartupState
	Self            wire.Address
	RecipientPubKey []byte
	Verify          chain.SignatureVerifier

	Peers             map[wire.Address]struct{}
	awaitingAck       map[wire.Address]struct{}
	awaitingInventory map[wire.Address]struct{}
	requestedData     map[chainhash.Hash]struct{}

	seenBlocks       *lru.Cache[chainhash.Hash]
	seenTransactions *lru.Cache[chainhash.Hash]
}

// NewState builds the initial state for a node: a chain store seeded with
// genesis, a mempool seeded with a coinbase transaction paying
// recipientPubKey, and a startup state of StatePeering if any peers are
// configured or StateSynced if the node is meant to run standalone.
func NewState(genesis *chain.SealedBlock, genesisLedger *chain.Ledger, self wire.Address, recipientPubKey []byte, peers []wire.Address, verify chain.SignatureVerifier) (*State, error) {
	store := chain.NewStore(genesis, genesisLedger, verify)
	pool, err := mempool.New(store.BestHead().Ledger, chain.NewCoinbaseTransaction(recipientPubKey))
	if err != nil {
		return nil, err
	}

	peerSet := make(map[wire.Address]struct{}, len(peers))
	for _, p := range peers {
		peerSet[p] = struct{}{}
	}

	startup := StateSynced
	if len(peerSet) > 0 {
		startup = StatePeering
	}

	return &State{
		Chain:             store,
		Mempool:           pool,
		Startup:           startup,
		Self:              self,
		RecipientPubKey:   recipientPubKey,
		Verify:            verify,
		Peers:             peerSet,
		awaitingAck:       map[wire.Address]struct{}{},
		awaitingInventory: map[wire.Address]struct{}{},
		requestedData:     map[chainhash.Hash]struct{}{},
		seenBlocks:        lru.NewCache[chainhash.Hash](seenCacheSize),
		seenTransactions:  lru.NewCache[chainhash.Hash](seenCacheSize),
	}, nil
}

func (s *State) clone() *State {
	cp := *s
	cp.Peers = cloneAddrSet(s.Peers)
	cp.awaitingAck = cloneAddrSet(s.awaitingAck)
	cp.awaitingInventory = cloneAddrSet(s.awaitingInventory)
	cp.requestedData = cloneHashSet(s.requestedData)
	return &cp
}

func cloneAddrSet(m map[wire.Address]struct{}) map[wire.Address]struct{} {
	out := make(map[wire.Address]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func cloneHashSet(m map[chainhash.Hash]struct{}) map[chainhash.Hash]struct{} {
	out := make(map[chainhash.Hash]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
