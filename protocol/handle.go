package protocol

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/mempool"
	"github.com/wgoldie/coin/wire"
)

// Result carries the outbound traffic a Handle call produces: direct
// replies to whoever sent the triggering message, messages to broadcast to
// every known peer (inventory/transaction relay), and messages directed at
// one specific peer that is neither the sender nor the whole peer set (a
// newly-discovered address's GetAddr).
type Result struct {
	Responses []wire.Message
	Broadcast []wire.Message
	Directed  []wire.AddressedMessage
}

func (r *Result) reply(msg wire.Message) {
	r.Responses = append(r.Responses, msg)
}

func (r *Result) broadcast(msg wire.Message) {
	r.Broadcast = append(r.Broadcast, msg)
}

func (r *Result) direct(to wire.Address, msg wire.Message) {
	r.Directed = append(r.Directed, wire.AddressedMessage{Recipient: to, Message: msg})
}

// BeginHandshake transitions a node out of StatePeering: it announces
// itself to every configured peer and starts waiting for their acks.
func BeginHandshake(state *State) (*State, Result) {
	if state.Startup != StatePeering {
		return state, Result{}
	}
	next := state.clone()
	next.Startup = StateConnecting
	var result Result
	for peer := range next.Peers {
		next.awaitingAck[peer] = struct{}{}
	}
	if len(next.Peers) > 0 {
		result.broadcast(&wire.MsgVersion{Version: wire.ProtocolVersion})
	} else {
		next.Startup = StateSynced
	}
	return next, result
}

// Handle dispatches a single message received from peer `from` against
// state, returning the resulting state (unchanged when nothing about it
// needed to change) and any outbound traffic the message triggered.
// Messages that don't make sense in the node's current startup state are
// logged and otherwise ignored; this is a day-to-day occurrence (a peer's
// retransmission, a race between two nodes' handshakes) rather than a
// fatal condition.
func Handle(state *State, from wire.Address, msg wire.Message) (*State, Result, error) {
	switch m := msg.(type) {
	case *wire.MsgVersion:
		return handleVersion(state, from, m)
	case *wire.MsgVersionAck:
		return handleVersionAck(state, from, m)
	case *wire.MsgGetBlocks:
		return handleGetBlocks(state, from, m)
	case *wire.MsgInventory:
		return handleInventory(state, from, m)
	case *wire.MsgGetData:
		return handleGetData(state, from, m)
	case *wire.MsgBlock:
		return handleBlock(state, from, m)
	case *wire.MsgTransaction:
		return handleTransaction(state, from, m)
	case *wire.MsgGetAddr:
		return handleGetAddr(state, from, m)
	case *wire.MsgAddr:
		return handleAddr(state, from, m)
	default:
		log.Warnf("received message of unrecognized type from %s", from)
		return state, Result{}, nil
	}
}

func logWrongState(from wire.Address, state StartupState, msg wire.Message) {
	log.Debugf("ignoring %s from %s while in state %s", msg.Command(), from, state)
}

func handleVersion(state *State, from wire.Address, m *wire.MsgVersion) (*State, Result, error) {
	next := state.clone()
	next.Peers[from] = struct{}{}
	var result Result
	result.reply(&wire.MsgVersionAck{})
	return next, result, nil
}

func handleVersionAck(state *State, from wire.Address, m *wire.MsgVersionAck) (*State, Result, error) {
	if state.Startup != StateConnecting {
		logWrongState(from, state.Startup, m)
		return state, Result{}, nil
	}
	next := state.clone()
	delete(next.awaitingAck, from)

	var result Result
	if len(next.awaitingAck) > 0 {
		return next, result, nil
	}

	next.Startup = StateInventory
	for peer := range next.Peers {
		next.awaitingInventory[peer] = struct{}{}
	}
	if len(next.Peers) > 0 {
		locator := AccumulateInventories(next.Chain.BestHead(), nil)
		result.broadcast(&wire.MsgGetBlocks{HeaderHashes: locator})
		result.broadcast(&wire.MsgGetAddr{})
	} else {
		next.Startup = StateSynced
	}
	return next, result, nil
}

// handleGetBlocks walks our own best-head chain looking for the first
// hash the requester's locator names, then replies with the inventory
// from that shared point forward. A locator that shares nothing with our
// chain (the requester is on a wholly divergent fork) is dropped silently.
func handleGetBlocks(state *State, from wire.Address, m *wire.MsgGetBlocks) (*State, Result, error) {
	for _, h := range m.HeaderHashes {
		found, ok := FindInventory(state.Chain.BestHead(), h)
		if !ok {
			continue
		}
		var result Result
		result.reply(&wire.MsgInventory{HeaderHashes: AccumulateInventories(found, m.StoppingHash)})
		return state, result, nil
	}
	return state, Result{}, nil
}

func handleInventory(state *State, from wire.Address, m *wire.MsgInventory) (*State, Result, error) {
	if state.Startup != StateInventory && state.Startup != StateSynced {
		logWrongState(from, state.Startup, m)
		return state, Result{}, nil
	}

	next := state.clone()
	var result Result

	var wanted []chainhash.Hash
	for _, h := range m.HeaderHashes {
		if _, ok := next.Chain.Lookup(h); ok {
			continue
		}
		if next.seenBlocks.Contains(h) {
			continue
		}
		wanted = append(wanted, h)
		next.seenBlocks.Add(h)
		next.requestedData[h] = struct{}{}
	}

	if len(wanted) > 0 {
		result.reply(&wire.MsgGetData{ObjectsRequested: wanted})
	}

	if next.Startup == StateInventory {
		delete(next.awaitingInventory, from)
		if len(next.awaitingInventory) == 0 {
			if len(next.requestedData) == 0 {
				next.Startup = StateSynced
			} else {
				next.Startup = StateData
			}
		}
	}

	return next, result, nil
}

func handleGetData(state *State, from wire.Address, m *wire.MsgGetData) (*State, Result, error) {
	var result Result
	for _, hash := range m.ObjectsRequested {
		node, ok := state.Chain.Lookup(hash)
		if !ok {
			continue
		}
		result.reply(&wire.MsgBlock{Block: node.Block})
	}
	return state, result, nil
}

func handleBlock(state *State, from wire.Address, m *wire.MsgBlock) (*State, Result, error) {
	next, outcome, err := ApplyBlock(state, m.Block)
	if err != nil {
		log.Debugf("rejecting block from %s: %v", from, err)
		log.Tracef("rejected block: %s", spew.Sdump(m.Block))
		return state, Result{}, nil
	}

	var result Result
	if next.Startup == StateData {
		delete(next.requestedData, m.Block.Header.BlockHash)
		if len(next.requestedData) == 0 {
			next.Startup = StateSynced
		}
	}

	if outcome == chain.BlockAdded {
		next.seenBlocks.Add(m.Block.Header.BlockHash)
		for peer := range next.Peers {
			if peer == from {
				continue
			}
			result.broadcast(&wire.MsgBlock{Block: m.Block})
		}
	}
	return next, result, nil
}

func handleTransaction(state *State, from wire.Address, m *wire.MsgTransaction) (*State, Result, error) {
	hash := m.Tx.Hash()
	if state.seenTransactions.Contains(hash) {
		return state, Result{}, nil
	}
	next := state.clone()
	before := next.Mempool
	next.Mempool = next.Mempool.TryAddTransaction(m.Tx, next.Verify)
	next.seenTransactions.Add(hash)

	var result Result
	if next.Mempool != before {
		for peer := range next.Peers {
			if peer == from {
				continue
			}
			result.broadcast(&wire.MsgTransaction{Tx: m.Tx})
		}
	}
	return next, result, nil
}

func handleGetAddr(state *State, from wire.Address, m *wire.MsgGetAddr) (*State, Result, error) {
	addrs := make([]wire.Address, 0, len(state.Peers))
	for peer := range state.Peers {
		addrs = append(addrs, peer)
	}
	var result Result
	result.reply(&wire.MsgAddr{Addresses: addrs})
	return state, result, nil
}

func handleAddr(state *State, from wire.Address, m *wire.MsgAddr) (*State, Result, error) {
	next := state.clone()
	var result Result
	for _, addr := range m.Addresses {
		if addr == next.Self {
			continue
		}
		if _, known := next.Peers[addr]; known {
			continue
		}
		next.Peers[addr] = struct{}{}
		result.direct(addr, &wire.MsgGetAddr{})
	}
	return next, result, nil
}

// ApplyBlock runs a candidate block through the chain store's acceptance
// rules and, if it was actually attached to the tree (as opposed to
// rejected or parked as an orphan) and the best head moved as a result,
// reprunes the mempool atop the new best head's ledger. A block attached
// to a side branch that does not overtake the best head leaves the mempool
// as it was.
func ApplyBlock(state *State, block *chain.SealedBlock) (*State, chain.AddBlockOutcome, error) {
	newChain, outcome, err := state.Chain.TryAddBlock(block)
	if err != nil {
		return state, outcome, err
	}

	next := state.clone()
	next.Chain = newChain

	if outcome == chain.BlockAdded && newChain.BestHead() != state.Chain.BestHead() {
		coinbase := chain.NewCoinbaseTransaction(next.RecipientPubKey)
		newPool, err := mempoolPrune(next, coinbase)
		if err != nil {
			return state, outcome, err
		}
		next.Mempool = newPool
	}

	return next, outcome, nil
}

func mempoolPrune(state *State, coinbase *chain.Transaction) (*mempool.Pool, error) {
	return mempool.Prune(state.Mempool, state.Chain.BestHead().Ledger, coinbase, state.Verify)
}
