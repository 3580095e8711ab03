package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/wgoldie/coin/internal/wireutil"
)

const (
	maxCommandLen = 32
	maxPayloadLen = 32 * 1024 * 1024
	maxHashes     = 50000
	maxAddresses  = 50000
	maxAddressLen = 256
)

// WriteMessage frames msg as a command string, a length-prefixed payload,
// and writes both to w.
func WriteMessage(w io.Writer, msg Message) error {
	if err := wireutil.WriteVarString(w, string(msg.Command())); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := msg.Encode(&buf); err != nil {
		return err
	}
	if err := wireutil.WriteVarInt(w, uint64(buf.Len())); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadMessage reverses WriteMessage, constructing the concrete Message type
// named by the command string before decoding its payload into it.
func ReadMessage(r io.Reader) (Message, error) {
	cmd, err := wireutil.ReadVarString(r, maxCommandLen)
	if err != nil {
		return nil, err
	}
	length, err := wireutil.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length > maxPayloadLen {
		return nil, fmt.Errorf("wire: payload of %d bytes exceeds maximum", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	msg, err := makeEmptyMessage(MessageType(cmd))
	if err != nil {
		return nil, err
	}
	if err := msg.Decode(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	return msg, nil
}

func makeEmptyMessage(cmd MessageType) (Message, error) {
	switch cmd {
	case MessageVersion:
		return &MsgVersion{}, nil
	case MessageVersionAck:
		return &MsgVersionAck{}, nil
	case MessageGetBlocks:
		return &MsgGetBlocks{}, nil
	case MessageInventory:
		return &MsgInventory{}, nil
	case MessageGetData:
		return &MsgGetData{}, nil
	case MessageBlock:
		return &MsgBlock{}, nil
	case MessageTransaction:
		return &MsgTransaction{}, nil
	case MessageGetAddr:
		return &MsgGetAddr{}, nil
	case MessageAddr:
		return &MsgAddr{}, nil
	default:
		return nil, fmt.Errorf("wire: unhandled message command %q", cmd)
	}
}

func encodeHashes(w io.Writer, hashes []chainhash.Hash) error {
	if err := wireutil.WriteVarInt(w, uint64(len(hashes))); err != nil {
		return err
	}
	for _, h := range hashes {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}
	return nil
}

func decodeHashes(r io.Reader) ([]chainhash.Hash, error) {
	n, err := wireutil.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > maxHashes {
		return nil, fmt.Errorf("wire: hash list of %d entries exceeds maximum", n)
	}
	out := make([]chainhash.Hash, n)
	for i := range out {
		if _, err := io.ReadFull(r, out[i][:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
