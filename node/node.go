// Package node implements the single-threaded event loop that ties the
// chain store, mempool, peer protocol, and mining coordinator together
// into one running node.
package node

import (
	"context"
	"time"

	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/genesis"
	"github.com/wgoldie/coin/mining"
	"github.com/wgoldie/coin/notify"
	"github.com/wgoldie/coin/protocol"
	"github.com/wgoldie/coin/wire"
)

const defaultPollInterval = 250 * time.Millisecond

// Node drains its Mailbox, applies the resulting state transitions, and
// manages a mining coordinator, all from a single goroutine. Every
// iteration of Run does, in order: check for termination, poll for at
// most one inbound message and dispatch it, advance the handshake if the
// node hasn't announced itself yet, ensure a mining attempt is running
// whenever the node is synced and idle, and check whether the current
// mining attempt has found a block.
type Node struct {
	cfg   Config
	state *protocol.State
	mail  Mailbox
	miner *mining.Coordinator
	mine  *mining.Handle
	poll  time.Duration
}

// New constructs a Node seeded with the hardcoded genesis block.
func New(cfg Config, mail Mailbox) (*Node, error) {
	state, err := protocol.NewState(genesis.Block, genesis.Ledger, cfg.ID, cfg.RecipientPubKey, cfg.Peers, cfg.Verify)
	if err != nil {
		return nil, err
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Node{
		cfg:   cfg,
		state: state,
		mail:  mail,
		miner: mining.NewCoordinator(cfg.MinerPath, cfg.Difficulty),
		poll:  poll,
	}, nil
}

// State returns the node's current protocol state. Safe to call only
// between Run iterations (e.g. after Run returns); it is not synchronized
// against a concurrently running Run.
func (n *Node) State() *protocol.State {
	return n.state
}

// Run drives the event loop until the chain reaches cfg.TargetHeight or
// ctx is cancelled, whichever comes first.
func (n *Node) Run(ctx context.Context) (*protocol.State, error) {
	for {
		if n.terminationMet() {
			n.stopMining()
			return n.state, nil
		}
		select {
		case <-ctx.Done():
			n.stopMining()
			return n.state, ctx.Err()
		default:
		}

		if msg, ok := n.mail.Receive(n.poll); ok {
			n.dispatch(msg)
		}

		n.advanceHandshake()
		n.ensureMining()
		n.collectMinedBlock()
	}
}

func (n *Node) terminationMet() bool {
	return n.state.Chain.BestHead().Height >= n.cfg.TargetHeight
}

func (n *Node) advanceHandshake() {
	if n.state.Startup != protocol.StatePeering {
		return
	}
	next, result := protocol.BeginHandshake(n.state)
	n.state = next
	n.deliver(result)
}

func (n *Node) dispatch(msg wire.AddressedMessage) {
	wasSynced := n.state.Startup == protocol.StateSynced
	beforePool := n.state.Mempool
	beforeHead := n.state.Chain.BestHead()

	next, result, err := protocol.Handle(n.state, msg.Sender, msg.Message)
	if err != nil {
		log.Warnf("error handling %s from %s: %v", msg.Message.Command(), msg.Sender, err)
		return
	}
	n.state = next
	for _, reply := range result.Responses {
		n.send(wire.AddressedMessage{Sender: n.cfg.ID, Recipient: msg.Sender, Message: reply})
	}
	n.deliver(result)

	becameUnsynced := wasSynced && n.state.Startup != protocol.StateSynced
	mempoolChanged := n.state.Mempool != beforePool
	headChanged := n.state.Chain.BestHead() != beforeHead
	if n.mine != nil && (becameUnsynced || mempoolChanged || headChanged) {
		n.stopMining()
	}

	if headChanged {
		n.notify(notify.Event{
			Type:   notify.EventBestHeadChanged,
			NodeID: string(n.cfg.ID),
			Height: n.state.Chain.BestHead().Height,
		})
	}
}

func (n *Node) ensureMining() {
	if n.state.Startup != protocol.StateSynced || n.mine != nil {
		return
	}
	if n.terminationMet() {
		return
	}
	candidate := mining.BuildNextBlock(n.state.Chain.BestHead(), n.state.Mempool)
	n.mine = n.miner.Spawn(candidate)
}

func (n *Node) collectMinedBlock() {
	if n.mine == nil {
		return
	}
	select {
	case header := <-n.mine.Result():
		candidate := n.mine.Candidate()
		n.mine.Terminate()
		n.mine = nil
		n.integrateMinedBlock(header, candidate)
	default:
	}
}

func (n *Node) integrateMinedBlock(header *chain.SealedBlockHeader, candidate *chain.OpenBlock) {
	block := &chain.SealedBlock{Header: *header, TransactionTree: candidate.TransactionTree}

	beforeHead := n.state.Chain.BestHead()
	next, outcome, err := protocol.ApplyBlock(n.state, block)
	if err != nil {
		log.Warnf("mined block rejected by our own chain store: %v", err)
		return
	}
	n.state = next

	if outcome != chain.BlockAdded {
		return
	}

	n.notify(notify.Event{
		Type:   notify.EventBlockMined,
		NodeID: string(n.cfg.ID),
		Height: n.state.Chain.BestHead().Height,
	})

	if n.state.Chain.BestHead() == beforeHead {
		return
	}
	for peer := range n.state.Peers {
		n.send(wire.AddressedMessage{Sender: n.cfg.ID, Recipient: peer, Message: &wire.MsgBlock{Block: block}})
	}
}

func (n *Node) stopMining() {
	if n.mine == nil {
		return
	}
	n.mine.Terminate()
	n.mine = nil
}

// deliver fans Result.Broadcast out to every known peer and routes
// Result.Directed traffic to the one peer each message names.
// Result.Responses is routed separately by dispatch, since a reply only
// makes sense addressed back to whichever peer sent the triggering
// message.
func (n *Node) deliver(result protocol.Result) {
	for _, msg := range result.Broadcast {
		for peer := range n.state.Peers {
			n.send(wire.AddressedMessage{Sender: n.cfg.ID, Recipient: peer, Message: msg})
		}
	}
	for _, addressed := range result.Directed {
		n.send(wire.AddressedMessage{Sender: n.cfg.ID, Recipient: addressed.Recipient, Message: addressed.Message})
	}
}

func (n *Node) send(msg wire.AddressedMessage) {
	if err := n.mail.Send(msg); err != nil {
		log.Debugf("dropping outbound message to %s: %v", msg.Recipient, err)
	}
}

func (n *Node) notify(ev notify.Event) {
	if n.cfg.Notify != nil {
		n.cfg.Notify(ev)
	}
}
