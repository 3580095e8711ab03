package wire

import (
	"io"

	"github.com/wgoldie/coin/internal/wireutil"
)

// MsgVersion is the first message a node sends a newly configured peer,
// announcing the protocol version it speaks.
type MsgVersion struct {
	Version string
}

func (m *MsgVersion) Command() MessageType { return MessageVersion }

func (m *MsgVersion) Encode(w io.Writer) error {
	return wireutil.WriteVarString(w, m.Version)
}

func (m *MsgVersion) Decode(r io.Reader) error {
	v, err := wireutil.ReadVarString(r, maxAddressLen)
	if err != nil {
		return err
	}
	m.Version = v
	return nil
}
