package txmodel

import (
	"bytes"
	"testing"
)

func TestTotalOutputValue(t *testing.T) {
	tx := New(1)
	tx.AddOutput(1000, ScriptPubKey{Version: 0, Script: []byte{0x01}})
	tx.AddOutput(2000, ScriptPubKey{Version: 0, Script: []byte{0x02}})
	total, err := tx.TotalOutputValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3000 {
		t.Fatalf("expected 3000, got %d", total)
	}
}

func TestTotalOutputValueOverflow(t *testing.T) {
	tx := New(1)
	tx.AddOutput(^uint64(0), ScriptPubKey{})
	tx.AddOutput(1, ScriptPubKey{})
	if _, err := tx.TotalOutputValue(); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestSerializeDeterministic(t *testing.T) {
	tx := New(1)
	var txid [32]byte
	copy(txid[:], bytes.Repeat([]byte{0x01}, 32))
	tx.AddInput(Outpoint{TxID: txid, Index: 0}, 0)
	tx.AddOutput(5000, ScriptPubKey{Version: 0, Script: []byte{0xac}})

	a := tx.Serialize()
	b := tx.Serialize()
	if !bytes.Equal(a, b) {
		t.Fatal("serialization is not deterministic")
	}
}

func TestWireRoundTrip(t *testing.T) {
	tx := New(1)
	var txid [32]byte
	copy(txid[:], bytes.Repeat([]byte{0xAB}, 32))
	tx.AddInput(Outpoint{TxID: txid, Index: 3}, 0)
	tx.Inputs[0].SignatureScript = []byte{0x01, 0x02}
	tx.AddOutput(12345, ScriptPubKey{Version: 0, Script: []byte{0x20, 0xAC}})
	tx.Payload = nil

	wire := tx.ToWire()
	back, err := FromWire(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Version != tx.Version {
		t.Fatalf("version mismatch: %d vs %d", back.Version, tx.Version)
	}
	if len(back.Inputs) != 1 || back.Inputs[0].PrevOut.TxID != tx.Inputs[0].PrevOut.TxID {
		t.Fatal("input round trip mismatch")
	}
	if len(back.Outputs) != 1 || back.Outputs[0].Amount != tx.Outputs[0].Amount {
		t.Fatal("output round trip mismatch")
	}
	if !bytes.Equal(back.Outputs[0].ScriptPubKey.Script, tx.Outputs[0].ScriptPubKey.Script) {
		t.Fatal("scriptPubKey round trip mismatch")
	}
}

func TestFeeAccounting(t *testing.T) {
	tx := New(1)
	var txid [32]byte
	tx.AddInput(Outpoint{TxID: txid, Index: 0}, 0)
	tx.AddOutput(9000, ScriptPubKey{})
	inputAmount := uint64(10000)
	outputTotal, err := tx.TotalOutputValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fee := inputAmount - outputTotal
	if fee != 1000 {
		t.Fatalf("expected fee 1000, got %d", fee)
	}
}
