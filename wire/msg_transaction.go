package wire

import (
	"io"

	"github.com/wgoldie/coin/chain"
)

// MsgTransaction relays a single candidate transaction to be considered
// for the recipient's mempool.
type MsgTransaction struct {
	Tx *chain.Transaction
}

func (m *MsgTransaction) Command() MessageType { return MessageTransaction }

func (m *MsgTransaction) Encode(w io.Writer) error {
	return m.Tx.Encode(w)
}

func (m *MsgTransaction) Decode(r io.Reader) error {
	var tx chain.Transaction
	if err := tx.Decode(r); err != nil {
		return err
	}
	m.Tx = &tx
	return nil
}
