package chain

import (
	"bytes"
	"errors"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/wgoldie/coin/internal/wireutil"
)

// OpenBlockHeader is a block header before a nonce satisfying the
// difficulty target has been found: everything needed to search for one.
type OpenBlockHeader struct {
	TransactionTreeHash chainhash.Hash
	PreviousBlockHash   chainhash.Hash
}

// Hash computes the block hash the given nonce would produce, without
// allocating a SealedBlockHeader. nonce is rendered as a 32-byte big-endian
// integer, not the 8 bytes a uint64 would naturally occupy, to match the
// arbitrary-precision encoding the reference implementation used; widening
// it changes the value being hashed; preserve the width.
func (h OpenBlockHeader) Hash(nonce uint64) chainhash.Hash {
	var buf bytes.Buffer
	buf.Write(h.TransactionTreeHash[:])
	buf.Write(h.PreviousBlockHash[:])
	buf.Write(beUint(nonce, 32))
	return chainhash.HashH(buf.Bytes())
}

// SealedBlockHeader is a block header together with the nonce a miner
// found and the hash that nonce produces.
type SealedBlockHeader struct {
	OpenBlockHeader
	Nonce     uint64
	BlockHash chainhash.Hash
}

// ValidateHash reports whether BlockHash is actually what hashing
// OpenBlockHeader with Nonce produces. It says nothing about whether
// BlockHash meets any difficulty target; see MeetsDifficulty.
func (h SealedBlockHeader) ValidateHash() bool {
	return h.OpenBlockHeader.Hash(h.Nonce) == h.BlockHash
}

// MeetsDifficulty reports whether BlockHash's leading `difficulty` bytes
// are all the ASCII character '0' (0x30). This compares against the ASCII
// digit, not a zero nibble or zero byte — a hash of all 0x00 bytes does not
// satisfy any positive difficulty under this rule. Interoperating with
// existing chain data depends on this being exactly what it looks like.
func (h SealedBlockHeader) MeetsDifficulty(difficulty int) bool {
	if difficulty < 0 {
		return true
	}
	if difficulty > len(h.BlockHash) {
		return false
	}
	for i := 0; i < difficulty; i++ {
		if h.BlockHash[i] != '0' {
			return false
		}
	}
	return true
}

func (h SealedBlockHeader) encode(w io.Writer) error {
	if _, err := w.Write(h.TransactionTreeHash[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.PreviousBlockHash[:]); err != nil {
		return err
	}
	if err := wireutil.WriteVarInt(w, h.Nonce); err != nil {
		return err
	}
	_, err := w.Write(h.BlockHash[:])
	return err
}

func (h *SealedBlockHeader) decode(r io.Reader) error {
	if _, err := io.ReadFull(r, h.TransactionTreeHash[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PreviousBlockHash[:]); err != nil {
		return err
	}
	nonce, err := wireutil.ReadVarInt(r)
	if err != nil {
		return err
	}
	h.Nonce = nonce
	_, err = io.ReadFull(r, h.BlockHash[:])
	return err
}

// OpenBlock is a candidate block before mining has found a satisfying
// nonce: a header naming the transaction tree's root hash, plus the tree
// itself so the miner (and later validators) can recover its leaves.
type OpenBlock struct {
	Header          OpenBlockHeader
	TransactionTree MerkleNode
}

// SealedBlock is a fully mined block, ready for insertion into a chain
// Store.
type SealedBlock struct {
	Header          SealedBlockHeader
	TransactionTree MerkleNode
}

// ValidateHashes checks the two hash invariants a SealedBlock must satisfy
// before it is eligible for ledger validation: that its transaction tree's
// root actually matches the header's TransactionTreeHash field, and that
// the header's own nonce/hash pair is internally consistent.
func (b SealedBlock) ValidateHashes() bool {
	return b.TransactionTree.Hash() == b.Header.TransactionTreeHash && b.Header.ValidateHash()
}

// Encode serializes a sealed block as its header followed by its leaves in
// DFS (transaction) order; a receiver reconstructs the tree with BuildTree,
// which always reproduces the same root for the same leaf sequence.
func (b *SealedBlock) Encode(w io.Writer) error {
	if err := b.Header.encode(w); err != nil {
		return err
	}
	leaves := Leaves(b.TransactionTree)
	if err := wireutil.WriteVarInt(w, uint64(len(leaves))); err != nil {
		return err
	}
	for _, leaf := range leaves {
		tx := leaf.Payload
		if err := tx.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

// Decode reverses Encode, rebuilding the transaction tree from the decoded
// leaf sequence via BuildTree.
func (b *SealedBlock) Decode(r io.Reader) error {
	if err := b.Header.decode(r); err != nil {
		return err
	}
	n, err := wireutil.ReadVarInt(r)
	if err != nil {
		return err
	}
	if n > maxTxElements {
		return errors.New("chain: block leaf count exceeds maximum")
	}
	txs := make([]Transaction, n)
	for i := range txs {
		if err := txs[i].Decode(r); err != nil {
			return err
		}
	}
	b.TransactionTree = BuildTree(txs)
	return nil
}
