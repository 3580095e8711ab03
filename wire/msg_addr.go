package wire

import (
	"fmt"
	"io"

	"github.com/wgoldie/coin/internal/wireutil"
)

// MsgAddr answers a MsgGetAddr with the addresses the sender knows about.
type MsgAddr struct {
	Addresses []Address
}

func (m *MsgAddr) Command() MessageType { return MessageAddr }

func (m *MsgAddr) Encode(w io.Writer) error {
	if err := wireutil.WriteVarInt(w, uint64(len(m.Addresses))); err != nil {
		return err
	}
	for _, addr := range m.Addresses {
		if err := wireutil.WriteVarString(w, string(addr)); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgAddr) Decode(r io.Reader) error {
	n, err := wireutil.ReadVarInt(r)
	if err != nil {
		return err
	}
	if n > maxAddresses {
		return fmt.Errorf("wire: address list of %d entries exceeds maximum", n)
	}
	addrs := make([]Address, n)
	for i := range addrs {
		s, err := wireutil.ReadVarString(r, maxAddressLen)
		if err != nil {
			return err
		}
		addrs[i] = Address(s)
	}
	m.Addresses = addrs
	return nil
}
