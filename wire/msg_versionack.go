package wire

import "io"

// MsgVersionAck acknowledges a peer's Version message, carrying no payload
// of its own.
type MsgVersionAck struct{}

func (m *MsgVersionAck) Command() MessageType   { return MessageVersionAck }
func (m *MsgVersionAck) Encode(w io.Writer) error { return nil }
func (m *MsgVersionAck) Decode(r io.Reader) error { return nil }
