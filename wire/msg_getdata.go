package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MsgGetData requests the full blocks behind a set of hashes previously
// announced via MsgInventory.
type MsgGetData struct {
	ObjectsRequested []chainhash.Hash
}

func (m *MsgGetData) Command() MessageType { return MessageGetData }

func (m *MsgGetData) Encode(w io.Writer) error {
	return encodeHashes(w, m.ObjectsRequested)
}

func (m *MsgGetData) Decode(r io.Reader) error {
	hashes, err := decodeHashes(r)
	if err != nil {
		return err
	}
	m.ObjectsRequested = hashes
	return nil
}
