package chain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/wgoldie/coin/internal/wireutil"
)

// BlockReward is the fixed number of units minted by a block's coinbase
// transaction. There is no halving schedule; the reward never changes.
const BlockReward = 25

const (
	maxSignatureLen = 256
	maxPubKeyLen    = 128
	maxTxElements   = 100000
)

// ErrEmptyInputs and ErrEmptyOutputs guard the type invariant that a
// transaction's input and output sequences are both non-empty.
var (
	ErrEmptyInputs  = errors.New("chain: transaction has no inputs")
	ErrEmptyOutputs = errors.New("chain: transaction has no outputs")
)

// TransactionOutpoint names a single output of a previously recorded
// transaction: the hash of the transaction that created it, and the index
// of the output within that transaction.
type TransactionOutpoint struct {
	PreviousTransactionHash chainhash.Hash
	Index                   uint32
}

// hashPreimage appends the outpoint's contribution to a transaction hash
// preimage: the 32-byte previous transaction hash followed by the index
// rendered as a 32-byte big-endian integer.
func (o TransactionOutpoint) hashPreimage(buf *bytes.Buffer) {
	buf.Write(o.PreviousTransactionHash[:])
	buf.Write(beUint(uint64(o.Index), 32))
}

// Encode writes the outpoint in its compact wire transport form.
func (o TransactionOutpoint) Encode(w io.Writer) error {
	if _, err := w.Write(o.PreviousTransactionHash[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, o.Index)
}

// Decode reverses Encode.
func (o *TransactionOutpoint) Decode(r io.Reader) error {
	if _, err := io.ReadFull(r, o.PreviousTransactionHash[:]); err != nil {
		return err
	}
	return binary.Read(r, binary.BigEndian, &o.Index)
}

// TransactionInput spends a previously recorded output, authorizing the
// spend with a signature over the spending transaction's HashForSignature.
type TransactionInput struct {
	Outpoint  TransactionOutpoint
	Signature []byte
}

func (in TransactionInput) hashPreimage(buf *bytes.Buffer) {
	in.Outpoint.hashPreimage(buf)
	buf.Write(in.Signature)
}

func (in TransactionInput) Encode(w io.Writer) error {
	if err := in.Outpoint.Encode(w); err != nil {
		return err
	}
	return wireutil.WriteVarBytes(w, in.Signature)
}

func (in *TransactionInput) Decode(r io.Reader) error {
	if err := in.Outpoint.Decode(r); err != nil {
		return err
	}
	sig, err := wireutil.ReadVarBytes(r, maxSignatureLen)
	if err != nil {
		return err
	}
	in.Signature = sig
	return nil
}

// TransactionOutput credits value units to whoever controls the private key
// behind RecipientPubKey.
type TransactionOutput struct {
	Value           uint64
	RecipientPubKey []byte
}

func (o TransactionOutput) hashPreimage(buf *bytes.Buffer) {
	buf.Write(beUint(o.Value, 32))
	buf.Write(o.RecipientPubKey)
}

func (o TransactionOutput) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, o.Value); err != nil {
		return err
	}
	return wireutil.WriteVarBytes(w, o.RecipientPubKey)
}

func (o *TransactionOutput) Decode(r io.Reader) error {
	if err := binary.Read(r, binary.BigEndian, &o.Value); err != nil {
		return err
	}
	pk, err := wireutil.ReadVarBytes(r, maxPubKeyLen)
	if err != nil {
		return err
	}
	o.RecipientPubKey = pk
	return nil
}

// Transaction moves value from the keys behind its inputs' previously
// recorded outputs to the keys named by its outputs.
type Transaction struct {
	Inputs  []TransactionInput
	Outputs []TransactionOutput
}

// NewTransaction builds a Transaction, rejecting the empty-inputs and
// empty-outputs cases the type's invariants forbid. Use NewCoinbaseTransaction
// for the single-input coinbase case.
func NewTransaction(inputs []TransactionInput, outputs []TransactionOutput) (*Transaction, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyInputs
	}
	if len(outputs) == 0 {
		return nil, ErrEmptyOutputs
	}
	return &Transaction{Inputs: inputs, Outputs: outputs}, nil
}

// NewCoinbaseTransaction builds the reward transaction a miner includes as
// the first leaf of a block it is assembling. Its single input's outpoint
// points at ZeroHash, which is how IsCoinbase recognizes it.
func NewCoinbaseTransaction(recipientPubKey []byte) *Transaction {
	return &Transaction{
		Inputs: []TransactionInput{{
			Outpoint: TransactionOutpoint{PreviousTransactionHash: ZeroHash, Index: 0},
		}},
		Outputs: []TransactionOutput{{
			Value:           BlockReward,
			RecipientPubKey: recipientPubKey,
		}},
	}
}

// IsCoinbase reports whether t is shaped like a coinbase transaction: a
// single input whose previous transaction hash is the zero hash.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 1 && t.Inputs[0].Outpoint.PreviousTransactionHash == ZeroHash
}

// HashForSignature is the digest a spending input's signature is computed
// over: the hash of the transaction's outputs alone, so a signature commits
// to where the value is going without needing to know in advance which
// inputs will ultimately carry it.
func (t *Transaction) HashForSignature() chainhash.Hash {
	var buf bytes.Buffer
	for _, out := range t.Outputs {
		out.hashPreimage(&buf)
	}
	return chainhash.HashH(buf.Bytes())
}

// Hash is the transaction's identity: the hash of its inputs followed by
// its outputs, each rendered via the same canonical preimage encoding used
// for signing.
func (t *Transaction) Hash() chainhash.Hash {
	var buf bytes.Buffer
	for _, in := range t.Inputs {
		in.hashPreimage(&buf)
	}
	for _, out := range t.Outputs {
		out.hashPreimage(&buf)
	}
	return chainhash.HashH(buf.Bytes())
}

// Encode serializes t for wire transport (distinct from the hash preimage
// encoding, which has no length prefixes since it is never parsed back).
func (t *Transaction) Encode(w io.Writer) error {
	if err := wireutil.WriteVarInt(w, uint64(len(t.Inputs))); err != nil {
		return err
	}
	for _, in := range t.Inputs {
		if err := in.Encode(w); err != nil {
			return err
		}
	}
	if err := wireutil.WriteVarInt(w, uint64(len(t.Outputs))); err != nil {
		return err
	}
	for _, out := range t.Outputs {
		if err := out.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

// Decode reverses Encode.
func (t *Transaction) Decode(r io.Reader) error {
	nin, err := wireutil.ReadVarInt(r)
	if err != nil {
		return err
	}
	if nin > maxTxElements {
		return errors.New("chain: transaction input count exceeds maximum")
	}
	t.Inputs = make([]TransactionInput, nin)
	for i := range t.Inputs {
		if err := t.Inputs[i].Decode(r); err != nil {
			return err
		}
	}
	nout, err := wireutil.ReadVarInt(r)
	if err != nil {
		return err
	}
	if nout > maxTxElements {
		return errors.New("chain: transaction output count exceeds maximum")
	}
	t.Outputs = make([]TransactionOutput, nout)
	for i := range t.Outputs {
		if err := t.Outputs[i].Decode(r); err != nil {
			return err
		}
	}
	return nil
}
