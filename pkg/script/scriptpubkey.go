package script

import (
	"fmt"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

// ScriptPubKeyForSchnorr returns OP_DATA_32 <pk> OP_CHECKSIG for a 32-byte
// x-only Schnorr public key.
func ScriptPubKeyForSchnorr(pubKey []byte) ([]byte, error) {
	if len(pubKey) != 32 {
		return nil, &engerr.InvalidPubkey{Reason: fmt.Sprintf("schnorr pubkey must be 32 bytes, got %d", len(pubKey))}
	}
	buf := make([]byte, 0, 1+32+1)
	buf = append(buf, OpData32)
	buf = append(buf, pubKey...)
	buf = append(buf, OpCheckSig)
	return buf, nil
}

// ScriptPubKeyForECDSA returns OP_DATA_33 <pk> OP_CHECKSIG_ECDSA for a
// 33-byte compressed secp256k1 public key.
func ScriptPubKeyForECDSA(pubKey []byte) ([]byte, error) {
	if len(pubKey) != 33 {
		return nil, &engerr.InvalidPubkey{Reason: fmt.Sprintf("ecdsa pubkey must be 33 bytes, got %d", len(pubKey))}
	}
	buf := make([]byte, 0, 1+33+1)
	buf = append(buf, OpData33)
	buf = append(buf, pubKey...)
	buf = append(buf, OpCheckSigECDSA)
	return buf, nil
}

// ScriptPubKeyForP2SH returns OP_BLAKE3 OP_DATA_32 <hash> OP_EQUAL for a
// 32-byte script hash.
func ScriptPubKeyForP2SH(scriptHash []byte) ([]byte, error) {
	if len(scriptHash) != 32 {
		return nil, &engerr.InvalidAddress{Reason: fmt.Sprintf("p2sh hash must be 32 bytes, got %d", len(scriptHash))}
	}
	buf := make([]byte, 0, 1+1+32+1)
	buf = append(buf, OpBlake3, OpData32)
	buf = append(buf, scriptHash...)
	buf = append(buf, OpEqual)
	return buf, nil
}
