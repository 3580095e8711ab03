package wireutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWriteVarIntPrefixWidths(t *testing.T) {
	cases := []struct {
		val          uint64
		expectedLen  int
		expectedByte byte
	}{
		{0, 1, 0},
		{0xfc, 1, 0xfc},
		{0xfd, 3, 0xfd},
		{0xffff, 3, 0xfd},
		{0x10000, 5, 0xfe},
		{0xffffffff, 5, 0xfe},
		{0x100000000, 9, 0xff},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, c.val))
		assert.Equal(t, c.expectedLen, buf.Len())
		assert.Equal(t, c.expectedByte, buf.Bytes()[0])
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		val := rapid.Uint64().Draw(tt, "val")
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, val); err != nil {
			tt.Fatal(err)
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			tt.Fatal(err)
		}
		if got != val {
			tt.Fatalf("round trip mismatch: wrote %d, read %d", val, got)
		}
	})
}

func TestVarBytesRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVarInt(&buf, 100))
	_, err := ReadVarBytes(&buf, 10)
	assert.ErrorIs(t, err, ErrVarBytesTooLarge)
}

func TestVarStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVarString(&buf, "hello world"))

	got, err := ReadVarString(&buf, 64)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}
