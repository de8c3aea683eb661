// Package sighash computes the per-input signing digest for Hoosat
// transactions: a segwit-style scheme with five lazily-computed,
// per-transaction reused hashes, and two entry points for the two signing
// curves this engine supports (spec.md §4.6).
//
// Grounded on the teacher codebase's pkg/crypto/hash.go (thin wrappers
// around a single hash primitive, no external hashing library beyond the
// project's own crypto package) generalized to a five-field reused-value
// cache and dual ECDSA/Schnorr digest schemes, and on pkg/hash for the
// double-SHA-256 and BIP-340 tagged-hash primitives themselves.
package sighash

import (
	"encoding/binary"

	"github.com/hoosat-labs/hrc20-engine/pkg/hash"
	"github.com/hoosat-labs/hrc20-engine/pkg/txmodel"
)

// HashTypeAll is the single supported signature hash type (spec.md §4.7).
const HashTypeAll byte = 0x01

// ReusedValues caches the five transaction-wide hashes used by every
// input's digest. Each field is computed on first access and reused for
// every subsequent input in the same transaction (spec.md §4.6).
type ReusedValues struct {
	previousOutputs *[32]byte
	sequences       *[32]byte
	sigOpCounts     *[32]byte
	outputs         *[32]byte
	payload         *[32]byte
}

// NewReusedValues returns an empty cache. Fields fill in lazily as
// PreviousOutputsHash/etc. are called.
func NewReusedValues() *ReusedValues {
	return &ReusedValues{}
}

func (r *ReusedValues) PreviousOutputsHash(tx *txmodel.Transaction) [32]byte {
	if r.previousOutputs == nil {
		var buf []byte
		for _, in := range tx.Inputs {
			buf = append(buf, in.PrevOut.TxID[:]...)
			buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
		}
		h := hash.DoubleSHA256(buf)
		r.previousOutputs = &h
	}
	return *r.previousOutputs
}

func (r *ReusedValues) SequencesHash(tx *txmodel.Transaction) [32]byte {
	if r.sequences == nil {
		var buf []byte
		for _, in := range tx.Inputs {
			buf = binary.LittleEndian.AppendUint64(buf, in.Sequence)
		}
		h := hash.DoubleSHA256(buf)
		r.sequences = &h
	}
	return *r.sequences
}

func (r *ReusedValues) SigOpCountsHash(tx *txmodel.Transaction) [32]byte {
	if r.sigOpCounts == nil {
		buf := make([]byte, 0, len(tx.Inputs))
		for _, in := range tx.Inputs {
			buf = append(buf, in.SigOpCount)
		}
		h := hash.DoubleSHA256(buf)
		r.sigOpCounts = &h
	}
	return *r.sigOpCounts
}

func (r *ReusedValues) OutputsHash(tx *txmodel.Transaction) [32]byte {
	if r.outputs == nil {
		var buf []byte
		for _, out := range tx.Outputs {
			buf = binary.LittleEndian.AppendUint64(buf, out.Amount)
			buf = binary.LittleEndian.AppendUint16(buf, out.ScriptPubKey.Version)
			buf = binary.LittleEndian.AppendUint64(buf, uint64(len(out.ScriptPubKey.Script)))
			buf = append(buf, out.ScriptPubKey.Script...)
		}
		h := hash.DoubleSHA256(buf)
		r.outputs = &h
	}
	return *r.outputs
}

func (r *ReusedValues) PayloadHash(tx *txmodel.Transaction) [32]byte {
	if r.payload == nil {
		h := hash.DoubleSHA256(tx.Payload)
		r.payload = &h
	}
	return *r.payload
}

// digestPreimage builds the field-ordered preimage bytes for input index i
// spending an output with the given scriptPubKey and amount, per the field
// order spec.md §4.6 specifies.
func digestPreimage(tx *txmodel.Transaction, i int, spentScriptPubKey txmodel.ScriptPubKey, spentAmount uint64, r *ReusedValues, hashType byte) []byte {
	in := tx.Inputs[i]

	var buf []byte
	buf = binary.LittleEndian.AppendUint16(buf, tx.Version)

	prevOutputsHash := r.PreviousOutputsHash(tx)
	buf = append(buf, prevOutputsHash[:]...)

	sequencesHash := r.SequencesHash(tx)
	buf = append(buf, sequencesHash[:]...)

	sigOpCountsHash := r.SigOpCountsHash(tx)
	buf = append(buf, sigOpCountsHash[:]...)

	buf = append(buf, in.PrevOut.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)

	buf = binary.LittleEndian.AppendUint16(buf, spentScriptPubKey.Version)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(spentScriptPubKey.Script)))
	buf = append(buf, spentScriptPubKey.Script...)
	buf = binary.LittleEndian.AppendUint64(buf, spentAmount)

	buf = binary.LittleEndian.AppendUint64(buf, in.Sequence)
	buf = append(buf, in.SigOpCount)

	outputsHash := r.OutputsHash(tx)
	buf = append(buf, outputsHash[:]...)

	buf = binary.LittleEndian.AppendUint64(buf, tx.LockTime)
	buf = append(buf, tx.SubnetworkID[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Gas)

	payloadHash := r.PayloadHash(tx)
	buf = append(buf, payloadHash[:]...)

	buf = append(buf, hashType)

	return buf
}

// ECDSA computes the per-input sighash digest for ECDSA signing: a
// double-SHA-256 of the field-ordered preimage.
func ECDSA(tx *txmodel.Transaction, i int, spentScriptPubKey txmodel.ScriptPubKey, spentAmount uint64, r *ReusedValues, hashType byte) [32]byte {
	preimage := digestPreimage(tx, i, spentScriptPubKey, spentAmount, r, hashType)
	return hash.DoubleSHA256(preimage)
}

// schnorrTag is the BIP-340 domain-separation tag for transaction signing
// hashes.
const schnorrTag = "TransactionSigningHash"

// Schnorr computes the per-input sighash digest for Schnorr signing: the
// domain-separated single-SHA-256 tagged hash per BIP-340.
func Schnorr(tx *txmodel.Transaction, i int, spentScriptPubKey txmodel.ScriptPubKey, spentAmount uint64, r *ReusedValues, hashType byte) [32]byte {
	preimage := digestPreimage(tx, i, spentScriptPubKey, spentAmount, r, hashType)
	return hash.TaggedHashSHA256(schnorrTag, preimage)
}
