package node

import (
	"time"

	"github.com/wgoldie/coin/wire"
)

// Mailbox is how a Node sends and receives addressed messages. It is
// intentionally minimal: the event loop only ever needs to poll for the
// next message with a bound on how long to wait, and to hand off outbound
// messages one at a time. Wiring many nodes' mailboxes together into a
// simulated network is left to the caller (typically a test); this
// package only needs one node's end of that wiring.
type Mailbox interface {
	// Receive waits up to timeout for the next inbound message, returning
	// ok=false if none arrived in that window.
	Receive(timeout time.Duration) (wire.AddressedMessage, bool)
	// Send delivers an outbound message. Delivery to an address nobody is
	// listening on is not an error; it is simply never received.
	Send(wire.AddressedMessage) error
}

// ChannelMailbox is a Mailbox backed by a single buffered Go channel,
// suitable for driving a Node in tests or for standalone operation where
// outbound messages are never actually collected by anyone.
type ChannelMailbox struct {
	inbox  chan wire.AddressedMessage
	outbox chan wire.AddressedMessage
}

// NewChannelMailbox returns a ChannelMailbox with the given inbox/outbox
// buffer capacity.
func NewChannelMailbox(capacity int) *ChannelMailbox {
	return &ChannelMailbox{
		inbox:  make(chan wire.AddressedMessage, capacity),
		outbox: make(chan wire.AddressedMessage, capacity),
	}
}

// Inbox exposes the channel a test harness feeds inbound messages into.
func (m *ChannelMailbox) Inbox() chan<- wire.AddressedMessage { return m.inbox }

// Outbox exposes the channel a test harness drains outbound messages from.
func (m *ChannelMailbox) Outbox() <-chan wire.AddressedMessage { return m.outbox }

func (m *ChannelMailbox) Receive(timeout time.Duration) (wire.AddressedMessage, bool) {
	select {
	case msg := <-m.inbox:
		return msg, true
	case <-time.After(timeout):
		return wire.AddressedMessage{}, false
	}
}

func (m *ChannelMailbox) Send(msg wire.AddressedMessage) error {
	select {
	case m.outbox <- msg:
		return nil
	default:
		return errMailboxFull
	}
}
