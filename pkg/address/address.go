// Package address implements the Hoosat address codec: CashAddr-style
// bech32 bodies over three payload shapes (Schnorr, ECDSA, P2SH), plus
// derivation of the matching scriptPubKey bytes for each.
//
// Grounded on the teacher codebase's pkg/types/address.go (address string
// parsing/formatting, MarshalJSON/UnmarshalJSON conventions, ParseAddress
// accepting multiple textual forms) generalized from a single 20-byte
// pubkey-hash address type to spec.md §3/§4.1's three tagged payload
// shapes, and on pkg/bech32 for the wire codec itself.
package address

import (
	"encoding/json"
	"fmt"

	"github.com/hoosat-labs/hrc20-engine/pkg/bech32"
	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

// Type identifies the shape of an address's payload.
type Type uint8

const (
	// TypeSchnorr addresses hold a 32-byte x-only Schnorr public key.
	TypeSchnorr Type = 0
	// TypeECDSA addresses hold a 33-byte compressed secp256k1 public key.
	TypeECDSA Type = 1
	// TypeP2SH addresses hold a 32-byte script hash.
	TypeP2SH Type = 8
)

// String names the address type for diagnostics.
func (t Type) String() string {
	switch t {
	case TypeSchnorr:
		return "schnorr"
	case TypeECDSA:
		return "ecdsa"
	case TypeP2SH:
		return "p2sh"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// PayloadSize returns the expected payload length in bytes for this type,
// or 0 and false if the type is unrecognized.
func (t Type) PayloadSize() (int, bool) {
	switch t {
	case TypeSchnorr:
		return 32, true
	case TypeECDSA:
		return 33, true
	case TypeP2SH:
		return 32, true
	default:
		return 0, false
	}
}

// Network HRPs, per spec.md §3.
const (
	MainnetHRP = "hoosat"
	TestnetHRP = "hoosattest"
)

// Address is a parsed Hoosat address: a human-readable prefix, a type tag,
// and the type's payload bytes.
type Address struct {
	HRP     string
	Type    Type
	Payload []byte
}

// New constructs an Address after validating the payload length for Type.
func New(hrp string, t Type, payload []byte) (Address, error) {
	size, ok := t.PayloadSize()
	if !ok {
		return Address{}, fmt.Errorf("address: unknown address type %d", uint8(t))
	}
	if len(payload) != size {
		return Address{}, fmt.Errorf("address: type %s requires %d-byte payload, got %d", t, size, len(payload))
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return Address{HRP: hrp, Type: t, Payload: cp}, nil
}

// Encode renders the address as "<hrp>:<bech32-body>", per spec.md §4.1:
// prepend the tag byte, squash 8-bit to 5-bit with left-MSB padding,
// checksum over [hrp-expanded, data, 8 zero symbols] with the CashAddr
// generator set.
func (a Address) Encode() (string, error) {
	tagged := make([]byte, 1+len(a.Payload))
	tagged[0] = byte(a.Type)
	copy(tagged[1:], a.Payload)
	return bech32.Encode(a.HRP, tagged)
}

// String renders the address. It never panics: a struct that cannot be
// encoded renders as "<invalid address: ...>".
func (a Address) String() string {
	s, err := a.Encode()
	if err != nil {
		return fmt.Sprintf("<invalid address: %v>", err)
	}
	return s
}

// MarshalJSON encodes the address as its bech32 string form.
func (a Address) MarshalJSON() ([]byte, error) {
	s, err := a.Encode()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes a bech32 address string, accepting any recognized
// HRP (decode does not pin to mainnet/testnet).
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Decode(s, "")
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Decode parses an address string. If expectedHRP is non-empty, the
// decoded prefix must match it (case-insensitively); otherwise any
// recognized prefix is accepted, per spec.md §4.1's edge-case note.
// Fails with an *engerr.InvalidAddress on prefix mismatch, alphabet
// violation, checksum mismatch, or tag/length mismatch.
func Decode(s string, expectedHRP string) (Address, error) {
	hrp, payload, err := bech32.Decode(s, expectedHRP)
	if err != nil {
		return Address{}, err
	}
	if len(payload) < 1 {
		return Address{}, &engerr.InvalidAddress{Reason: "empty payload"}
	}
	t := Type(payload[0])
	body := payload[1:]
	size, ok := t.PayloadSize()
	if !ok {
		return Address{}, &engerr.InvalidAddress{Reason: fmt.Sprintf("unrecognized address type tag %d", payload[0])}
	}
	if len(body) != size {
		return Address{}, &engerr.InvalidAddress{Reason: fmt.Sprintf("type %s requires %d-byte payload, got %d", t, size, len(body))}
	}
	return Address{HRP: hrp, Type: t, Payload: body}, nil
}
