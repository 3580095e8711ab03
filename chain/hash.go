package chain

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// ZeroHash is the sentinel previous-transaction-hash carried by coinbase
// inputs and the previous-block-hash of the genesis block.
var ZeroHash chainhash.Hash

// beUint renders v as a big-endian integer padded/truncated to width bytes.
// The wire formats this repo hashes over (outpoint indices, transferred
// values, nonces) are all specified as fixed-width big-endian fields wider
// than the natural Go integer width, mirroring the arbitrary-precision
// integer encoding the reference implementation used.
func beUint(v uint64, width int) []byte {
	b := make([]byte, width)
	for i := width - 1; i >= 0 && v != 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
