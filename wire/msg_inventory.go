package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MsgInventory announces block hashes the sender has and believes the
// recipient might not.
type MsgInventory struct {
	HeaderHashes []chainhash.Hash
}

func (m *MsgInventory) Command() MessageType { return MessageInventory }

func (m *MsgInventory) Encode(w io.Writer) error {
	return encodeHashes(w, m.HeaderHashes)
}

func (m *MsgInventory) Decode(r io.Reader) error {
	hashes, err := decodeHashes(r)
	if err != nil {
		return err
	}
	m.HeaderHashes = hashes
	return nil
}
