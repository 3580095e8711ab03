package wire

import (
	"io"

	"github.com/wgoldie/coin/chain"
)

// MsgBlock carries a fully mined block, sent in response to MsgGetData or
// broadcast unsolicited when a node mines a new one.
type MsgBlock struct {
	Block *chain.SealedBlock
}

func (m *MsgBlock) Command() MessageType { return MessageBlock }

func (m *MsgBlock) Encode(w io.Writer) error {
	return m.Block.Encode(w)
}

func (m *MsgBlock) Decode(r io.Reader) error {
	var b chain.SealedBlock
	if err := b.Decode(r); err != nil {
		return err
	}
	m.Block = &b
	return nil
}
