package protocol

// StartupState is where a node sits in its bootstrap lifecycle: it starts
// out (if it has peers configured) not yet having contacted any of them,
// and works its way through a handshake and initial block download before
// settling into steady-state operation.
type StartupState int

const (
	// StatePeering means the node has not yet announced itself to its
	// configured peers.
	StatePeering StartupState = iota
	// StateConnecting means Version has been sent to every configured
	// peer and the node is waiting for VersionAck from all of them.
	StateConnecting
	// StateInventory means the handshake is complete and GetBlocks has
	// been sent to every peer; the node is waiting for their Inventory
	// responses.
	StateInventory
	// StateData means the node has requested, via GetData, every block
	// it learned about during StateInventory that it didn't already
	// have, and is waiting for the corresponding Block messages.
	StateData
	// StateSynced is steady-state operation: the node participates in
	// mining, relays transactions and blocks, and answers peer requests.
	StateSynced
)

func (s StartupState) String() string {
	switch s {
	case StatePeering:
		return "Peering"
	case StateConnecting:
		return "Connecting"
	case StateInventory:
		return "Inventory"
	case StateData:
		return "Data"
	case StateSynced:
		return "Synced"
	default:
		return "Unknown"
	}
}
