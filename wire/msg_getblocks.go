package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MsgGetBlocks asks a peer for inventory hashes: block hashes known to the
// sender, used as locators, and an optional hash at which the peer should
// stop listing inventory.
type MsgGetBlocks struct {
	HeaderHashes []chainhash.Hash
	StoppingHash *chainhash.Hash
}

func (m *MsgGetBlocks) Command() MessageType { return MessageGetBlocks }

func (m *MsgGetBlocks) Encode(w io.Writer) error {
	if err := encodeHashes(w, m.HeaderHashes); err != nil {
		return err
	}
	if m.StoppingHash == nil {
		_, err := w.Write([]byte{0})
		return err
	}
	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}
	_, err := w.Write(m.StoppingHash[:])
	return err
}

func (m *MsgGetBlocks) Decode(r io.Reader) error {
	hashes, err := decodeHashes(r)
	if err != nil {
		return err
	}
	m.HeaderHashes = hashes

	var present [1]byte
	if _, err := io.ReadFull(r, present[:]); err != nil {
		return err
	}
	if present[0] == 0 {
		m.StoppingHash = nil
		return nil
	}
	var h chainhash.Hash
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return err
	}
	m.StoppingHash = &h
	return nil
}
