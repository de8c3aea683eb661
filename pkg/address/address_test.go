package address

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

func TestRoundTripAllTypes(t *testing.T) {
	cases := []struct {
		name    string
		hrp     string
		t       Type
		payload []byte
	}{
		{"schnorr-mainnet", MainnetHRP, TypeSchnorr, bytes.Repeat([]byte{0x01}, 32)},
		{"ecdsa-testnet", TestnetHRP, TypeECDSA, append([]byte{0x02}, bytes.Repeat([]byte{0xAB}, 32)...)},
		{"p2sh-mainnet", MainnetHRP, TypeP2SH, bytes.Repeat([]byte{0xFF}, 32)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			addr, err := New(c.hrp, c.t, c.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s, err := addr.Encode()
			if err != nil {
				t.Fatalf("unexpected encode error: %v", err)
			}

			decoded, err := Decode(s, c.hrp)
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if decoded.Type != c.t {
				t.Fatalf("type mismatch: want %s got %s", c.t, decoded.Type)
			}
			if !bytes.Equal(decoded.Payload, c.payload) {
				t.Fatalf("payload mismatch: want %x got %x", c.payload, decoded.Payload)
			}
			if decoded.HRP != c.hrp {
				t.Fatalf("hrp mismatch: want %s got %s", c.hrp, decoded.HRP)
			}
		})
	}
}

func TestDecodeRejectsHRPMismatch(t *testing.T) {
	addr, err := New(MainnetHRP, TypeSchnorr, bytes.Repeat([]byte{0x01}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := addr.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = Decode(s, TestnetHRP)
	if err == nil {
		t.Fatal("expected error decoding with mismatched hrp")
	}
	var invalidAddr *engerr.InvalidAddress
	if !errors.As(err, &invalidAddr) {
		t.Fatalf("expected *engerr.InvalidAddress, got %T: %v", err, err)
	}
}

func TestDecodeAcceptsAnyHRPWhenUnspecified(t *testing.T) {
	addr, err := New("custom", TypeECDSA, append([]byte{0x03}, bytes.Repeat([]byte{0x09}, 32)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := addr.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Decode(s, ""); err != nil {
		t.Fatalf("unexpected error decoding with unspecified hrp: %v", err)
	}
}

func TestNewRejectsWrongPayloadLength(t *testing.T) {
	if _, err := New(MainnetHRP, TypeSchnorr, bytes.Repeat([]byte{0x01}, 31)); err == nil {
		t.Fatal("expected error for undersized schnorr payload")
	}
	if _, err := New(MainnetHRP, TypeECDSA, bytes.Repeat([]byte{0x01}, 32)); err == nil {
		t.Fatal("expected error for undersized ecdsa payload")
	}
	if _, err := New(MainnetHRP, Type(99), bytes.Repeat([]byte{0x01}, 32)); err == nil {
		t.Fatal("expected error for unknown address type")
	}
}

func TestDecodeRejectsUnrecognizedTag(t *testing.T) {
	// A well-formed CashAddr body but with a tag byte (7) not in {0,1,8}.
	addr, err := New(MainnetHRP, TypeSchnorr, bytes.Repeat([]byte{0x01}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr.Type = 7
	s, err := addr.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = Decode(s, MainnetHRP)
	if err == nil {
		t.Fatal("expected error decoding unrecognized type tag")
	}
	var invalidAddr *engerr.InvalidAddress
	if !errors.As(err, &invalidAddr) {
		t.Fatalf("expected *engerr.InvalidAddress, got %T: %v", err, err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	addr, err := New(MainnetHRP, TypeP2SH, bytes.Repeat([]byte{0x5a}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if decoded.Type != addr.Type || !bytes.Equal(decoded.Payload, addr.Payload) {
		t.Fatal("json round trip did not preserve address")
	}
}

func TestScriptPubKeyShapes(t *testing.T) {
	schnorr, err := New(MainnetHRP, TypeSchnorr, bytes.Repeat([]byte{0xAB}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := schnorr.ScriptPubKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 34 || s[0] != 0x20 || s[len(s)-1] != 0xac {
		t.Fatalf("unexpected schnorr scriptPubKey: %x", s)
	}

	ecdsaPayload := append([]byte{0x02}, bytes.Repeat([]byte{0xAB}, 32)...)
	ecdsa, err := New(MainnetHRP, TypeECDSA, ecdsaPayload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err = ecdsa.ScriptPubKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 35 || s[0] != 0x21 || s[len(s)-1] != 0xab {
		t.Fatalf("unexpected ecdsa scriptPubKey: %x", s)
	}
}

func TestFromP2SHHash(t *testing.T) {
	var hash [32]byte
	copy(hash[:], bytes.Repeat([]byte{0x11}, 32))
	addr, err := FromP2SHHash(MainnetHRP, hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Type != TypeP2SH {
		t.Fatalf("expected p2sh type, got %s", addr.Type)
	}
	s, err := addr.ScriptPubKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s[0] != OpBlake3Opcode() {
		t.Fatalf("expected leading OP_BLAKE3 opcode, got %#x", s[0])
	}
}

// OpBlake3Opcode mirrors pkg/script.OpBlake3 without importing the script
// package's internal constant set twice; kept local to the test to assert
// on the literal byte value spec.md §4.1 specifies.
func OpBlake3Opcode() byte { return 0xc0 }
