package address

import (
	"fmt"

	"github.com/hoosat-labs/hrc20-engine/pkg/script"
)

// GenerateScriptPubKey derives the scriptPubKey bytes for pubkey/hash
// material under the given address type (spec.md §4.1):
//
//	Schnorr -> OP_DATA_32 <pk> OP_CHECKSIG
//	ECDSA   -> OP_DATA_33 <pk> OP_CHECKSIG_ECDSA
//	P2SH    -> OP_BLAKE3 OP_DATA_32 <hash> OP_EQUAL
//
// payload must already be the correctly-sized pubkey (32/33 bytes) or
// script hash (32 bytes) for t.
func GenerateScriptPubKey(payload []byte, t Type) ([]byte, error) {
	switch t {
	case TypeSchnorr:
		return script.ScriptPubKeyForSchnorr(payload)
	case TypeECDSA:
		return script.ScriptPubKeyForECDSA(payload)
	case TypeP2SH:
		return script.ScriptPubKeyForP2SH(payload)
	default:
		return nil, fmt.Errorf("address: unknown address type %d", uint8(t))
	}
}

// ScriptPubKey derives the scriptPubKey for this address's own payload.
func (a Address) ScriptPubKey() ([]byte, error) {
	return GenerateScriptPubKey(a.Payload, a.Type)
}

// FromP2SHHash builds a P2SH address for a redeem-script hash under hrp.
func FromP2SHHash(hrp string, scriptHash [32]byte) (Address, error) {
	return New(hrp, TypeP2SH, scriptHash[:])
}
