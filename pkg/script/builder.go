// Package script builds the raw script byte strings the HRC-20 engine
// needs: minimal push-data encoding, the OP_FALSE OP_IF ... OP_ENDIF
// envelope that carries a payload inside an otherwise-unspendable branch,
// and the P2SH signature script that spends a reveal input.
//
// Grounded on the teacher codebase's pkg/tx package's approach to explicit,
// field-by-field byte-buffer construction (no intermediate AST, append
// directly to a []byte) generalized to opcode-level script emission, which
// the teacher codebase does not itself need (its own Script type is a
// typed {Type, Data} tuple, not a raw opcode stream).
package script

import (
	"encoding/binary"
	"fmt"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hash"
)

// PushData appends the minimal-opcode encoding of data to buf and returns
// the result: a direct-push opcode for 1-75 bytes, OP_PUSHDATA1 for up to
// 255 bytes, or OP_PUSHDATA2 for up to 65535 bytes.
func PushData(buf []byte, data []byte) ([]byte, error) {
	n := len(data)
	switch {
	case n == 0:
		return append(buf, OpFalse), nil
	case n <= OpDataMax:
		buf = append(buf, byte(n))
	case n <= 0xff:
		buf = append(buf, OpPushData1, byte(n))
	case n <= 0xffff:
		buf = append(buf, OpPushData2)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(n))
	default:
		return nil, fmt.Errorf("script: push data of %d bytes exceeds supported length", n)
	}
	return append(buf, data...), nil
}

// BuildEnvelope wraps payload in the HRC-20 reveal envelope:
//
//	OP_FALSE OP_IF <payload chunks, each <= 520 bytes> OP_ENDIF
//
// Payloads longer than 520 bytes are split into successive chunks so no
// single push violates the script element size limit (spec.md §4.2).
func BuildEnvelope(payload []byte) ([]byte, error) {
	buf := []byte{OpFalse, OpIf}
	if len(payload) == 0 {
		return append(buf, OpEndIf), nil
	}
	for offset := 0; offset < len(payload); offset += maxScriptElementSize {
		end := offset + maxScriptElementSize
		if end > len(payload) {
			end = len(payload)
		}
		var err error
		buf, err = PushData(buf, payload[offset:end])
		if err != nil {
			return nil, err
		}
	}
	return append(buf, OpEndIf), nil
}

// SignCurve selects which signature opcode a redeem script checks against.
type SignCurve uint8

const (
	Schnorr SignCurve = iota
	ECDSA
)

// BuildRedeemScript constructs the canonical HRC-20 redeem script:
//
//	<pubkey-push> <OP_CHECKSIG|OP_CHECKSIG_ECDSA> OP_FALSE OP_IF <payload> OP_ENDIF
//
// The result is fully deterministic in (pubKey, payload, curve): identical
// inputs always produce identical bytes and therefore the same P2SH
// address (spec.md §3, "Lifecycle invariants").
func BuildRedeemScript(pubKey []byte, payload []byte, curve SignCurve) ([]byte, error) {
	switch curve {
	case Schnorr:
		if len(pubKey) != 32 {
			return nil, &engerr.InvalidPubkey{Reason: fmt.Sprintf("schnorr pubkey must be 32 bytes, got %d", len(pubKey))}
		}
	case ECDSA:
		if len(pubKey) != 33 {
			return nil, &engerr.InvalidPubkey{Reason: fmt.Sprintf("ecdsa pubkey must be 33 bytes, got %d", len(pubKey))}
		}
	default:
		return nil, &engerr.InvalidPubkey{Reason: fmt.Sprintf("unknown sign curve %d", curve)}
	}

	buf, err := PushData(nil, pubKey)
	if err != nil {
		return nil, err
	}
	if curve == Schnorr {
		buf = append(buf, OpCheckSig)
	} else {
		buf = append(buf, OpCheckSigECDSA)
	}

	envelope, err := BuildEnvelope(payload)
	if err != nil {
		return nil, err
	}
	return append(buf, envelope...), nil
}

// HashRedeemScript computes the double-SHA-256 hash of a redeem script.
// This hash is both the P2SH scriptPubKey's embedded hash and the
// fingerprint that binds a commit transaction to its reveal (spec.md §3).
func HashRedeemScript(redeemScript []byte) [32]byte {
	return hash.DoubleSHA256(redeemScript)
}

// BuildP2SHSignatureScript builds the unlocking script for a P2SH input:
// <push sig> <push redeem script>. sigWithHashType already has the
// trailing hash-type byte appended (spec.md §4.7).
func BuildP2SHSignatureScript(sigWithHashType, redeemScript []byte) ([]byte, error) {
	buf, err := PushData(nil, sigWithHashType)
	if err != nil {
		return nil, err
	}
	return PushData(buf, redeemScript)
}
