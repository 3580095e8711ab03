// Package wireutil holds the low-level variable-length encoders shared by
// the wire and chain packages. Kept separate so chain does not have to
// import wire (which in turn embeds chain types in its messages).
package wireutil

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrVarBytesTooLarge is returned by ReadVarBytes/ReadVarString when the
// encoded length exceeds the caller-supplied ceiling.
var ErrVarBytesTooLarge = errors.New("wireutil: varint-prefixed payload exceeds maximum length")

// WriteVarInt serializes val using the same discriminated-prefix scheme as
// the Bitcoin wire protocol: values below 0xfd are a single byte, larger
// values are prefixed with 0xfd/0xfe/0xff followed by a little-endian fixed
// width integer.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		_, err := w.Write([]byte{byte(val)})
		return err
	case val <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	case val <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], val)
		_, err := w.Write(buf)
		return err
	}
}

// ReadVarInt reverses WriteVarInt.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}
	switch prefix[0] {
	case 0xff:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	case 0xfe:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	default:
		return uint64(prefix[0]), nil
	}
}

// WriteVarBytes writes a varint length prefix followed by b.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarBytes reads a varint length prefix followed by that many bytes,
// rejecting lengths above maxLen to bound allocation from untrusted input.
func ReadVarBytes(r io.Reader, maxLen uint64) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > maxLen {
		return nil, ErrVarBytesTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteVarString writes s as varint-length-prefixed bytes.
func WriteVarString(w io.Writer, s string) error {
	return WriteVarBytes(w, []byte(s))
}

// ReadVarString reverses WriteVarString.
func ReadVarString(r io.Reader, maxLen uint64) (string, error) {
	b, err := ReadVarBytes(r, maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
