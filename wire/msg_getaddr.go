package wire

import "io"

// MsgGetAddr asks a peer to share the addresses it knows about.
type MsgGetAddr struct{}

func (m *MsgGetAddr) Command() MessageType   { return MessageGetAddr }
func (m *MsgGetAddr) Encode(w io.Writer) error { return nil }
func (m *MsgGetAddr) Decode(r io.Reader) error { return nil }
