// Package txmodel defines the Hoosat transaction shape and its wire
// serializer: version, ordered inputs/outputs, lock time, and the
// subnetwork/gas/payload fields this engine always zeroes (spec.md §3).
//
// Grounded on the teacher codebase's pkg/tx/transaction.go (typed
// Transaction/Input/Output structs, an explicit field-by-field byte-buffer
// serializer rather than a generic encoder) generalized from that chain's
// 4-byte version and BLAKE3 signing-hash scheme to Hoosat's 16-bit version,
// varint-counted inputs/outputs, and length-prefixed hex fields (spec.md §6).
package txmodel

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Outpoint identifies a previous output being spent: a 32-byte transaction
// id and its output index.
type Outpoint struct {
	TxID  [32]byte
	Index uint32
}

// ScriptPubKey is a versioned locking script.
type ScriptPubKey struct {
	Version uint16
	Script  []byte
}

// Input references a previous output. SignatureScript starts empty and is
// populated by the signing stage; SigOpCount is always 1 in this engine
// (spec.md §3).
type Input struct {
	PrevOut         Outpoint
	SignatureScript []byte
	Sequence        uint64
	SigOpCount      uint8
}

// Output pays an amount to a scriptPubKey.
type Output struct {
	Amount       uint64
	ScriptPubKey ScriptPubKey
}

// Transaction is the full Hoosat transaction shape this engine builds.
// SubnetworkID and Gas are always zero and Payload is always empty for
// every operation this engine performs (spec.md §3, §9 open question).
type Transaction struct {
	Version      uint16
	Inputs       []Input
	Outputs      []Output
	LockTime     uint64
	SubnetworkID [20]byte
	Gas          uint64
	Payload      []byte
}

// New builds an empty transaction with the given version.
func New(version uint16) *Transaction {
	return &Transaction{Version: version}
}

// AddInput appends an input spending prevOut, with the given sequence.
// SignatureScript is left empty for later signing.
func (tx *Transaction) AddInput(prevOut Outpoint, sequence uint64) *Transaction {
	tx.Inputs = append(tx.Inputs, Input{PrevOut: prevOut, Sequence: sequence, SigOpCount: 1})
	return tx
}

// AddOutput appends an output paying amount to scriptPubKey.
func (tx *Transaction) AddOutput(amount uint64, scriptPubKey ScriptPubKey) *Transaction {
	tx.Outputs = append(tx.Outputs, Output{Amount: amount, ScriptPubKey: scriptPubKey})
	return tx
}

// TotalOutputValue sums every output's amount, failing on uint64 overflow.
func (tx *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		if total > ^uint64(0)-out.Amount {
			return 0, fmt.Errorf("txmodel: output value overflow")
		}
		total += out.Amount
	}
	return total, nil
}

// TotalInputValue sums the supplied per-input amounts (the model itself
// carries no amount for inputs; callers pass the amounts resolved from the
// UTXO set alongside each input).
func TotalInputValue(amounts []uint64) (uint64, error) {
	var total uint64
	for _, a := range amounts {
		if total > ^uint64(0)-a {
			return 0, fmt.Errorf("txmodel: input value overflow")
		}
		total += a
	}
	return total, nil
}

func putVarint(buf []byte, n uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	l := binary.PutUvarint(tmp, n)
	return append(buf, tmp[:l]...)
}

func putHexField(buf []byte, data []byte) []byte {
	buf = putVarint(buf, uint64(len(data)))
	return append(buf, []byte(hex.EncodeToString(data))...)
}

// Serialize renders the transaction in the wire form spec.md §6 specifies:
// little-endian integers, varint-counted input/output lists, big-endian hex
// txids, length-prefixed hex for signature scripts, scripts, and payload.
func (tx *Transaction) Serialize() []byte {
	buf := make([]byte, 0, 128+64*len(tx.Inputs)+64*len(tx.Outputs))

	buf = binary.LittleEndian.AppendUint16(buf, tx.Version)

	buf = putVarint(buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		// txid is serialized big-endian hex, matching the node's display
		// convention (spec.md §6); wire bytes are stored little-endian
		// internally as produced by hashing, so reverse on output.
		reversed := reverseBytes(in.PrevOut.TxID[:])
		buf = append(buf, []byte(hex.EncodeToString(reversed))...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
		buf = putHexField(buf, in.SignatureScript)
		buf = binary.LittleEndian.AppendUint64(buf, in.Sequence)
		buf = append(buf, in.SigOpCount)
	}

	buf = putVarint(buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, out.Amount)
		buf = binary.LittleEndian.AppendUint16(buf, out.ScriptPubKey.Version)
		buf = putHexField(buf, out.ScriptPubKey.Script)
	}

	buf = binary.LittleEndian.AppendUint64(buf, tx.LockTime)
	buf = append(buf, []byte(hex.EncodeToString(tx.SubnetworkID[:]))...)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Gas)
	buf = putHexField(buf, tx.Payload)

	return buf
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
