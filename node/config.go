package node

import (
	"time"

	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/notify"
	"github.com/wgoldie/coin/wire"
)

// Notifier receives lifecycle events as the node runs. It is optional;
// the zero value of Config leaves it nil and nothing is ever called.
type Notifier func(notify.Event)

// Config bootstraps a Node.
type Config struct {
	// ID is this node's own address, used as the sender on every
	// outbound message.
	ID wire.Address
	// Difficulty is the number of leading ASCII '0' bytes a mined block
	// hash must have. It is fixed for the lifetime of a run; there is no
	// retargeting.
	Difficulty int
	// TargetHeight is the chain height at which Run returns.
	TargetHeight uint64
	// MinerPath is the path to the coin-miner binary the mining
	// coordinator spawns.
	MinerPath string
	// Peers lists the addresses this node announces itself to at
	// startup.
	Peers []wire.Address
	// RecipientPubKey is the public key this node's mined blocks and
	// mempool coinbase transactions pay their reward to.
	RecipientPubKey []byte
	// Verify checks a transaction input's signature. Supply
	// walletkey.Verify in production; tests may supply a stub.
	Verify chain.SignatureVerifier
	// Notify, if non-nil, is called for every node lifecycle event.
	Notify Notifier
	// PollInterval bounds how long each iteration of the event loop
	// waits for an inbound message before checking for other work
	// (a mined block, termination). Defaults to 250ms if zero.
	PollInterval time.Duration
}
