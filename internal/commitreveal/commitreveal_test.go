package commitreveal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hoosat-labs/hrc20-engine/pkg/address"
	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/payload"
	"github.com/hoosat-labs/hrc20-engine/pkg/script"
	"github.com/hoosat-labs/hrc20-engine/pkg/txmodel"
)

func testChangeAddress(t *testing.T) address.Address {
	t.Helper()
	addr, err := address.New(address.MainnetHRP, address.TypeSchnorr, bytes.Repeat([]byte{0x09}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return addr
}

func TestBuildCommitFeeAccounting(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x01}, 32)
	op := payload.Mint{Tick: "HOOS"}
	var txid [32]byte
	source := SourceUTXO{Outpoint: txmodel.Outpoint{TxID: txid, Index: 0}, Amount: 100_000}

	pair, err := BuildCommit(pubKey, op, source, 50_000, 1_000, testChangeAddress(t), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total, err := pair.CommitTx.TotalOutputValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fee := source.Amount - total
	if fee != 1_000 {
		t.Fatalf("expected fee 1000, got %d", fee)
	}
	if len(pair.CommitTx.Outputs) != 2 {
		t.Fatalf("expected commit + change outputs, got %d", len(pair.CommitTx.Outputs))
	}
}

func TestBuildCommitOmitsDustChange(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x01}, 32)
	op := payload.Mint{Tick: "HOOS"}
	var txid [32]byte
	source := SourceUTXO{Outpoint: txmodel.Outpoint{TxID: txid, Index: 0}, Amount: 50_500}

	pair, err := BuildCommit(pubKey, op, source, 50_000, 400, testChangeAddress(t), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pair.CommitTx.Outputs) != 1 {
		t.Fatalf("expected dust change to be omitted, got %d outputs", len(pair.CommitTx.Outputs))
	}
}

func TestBuildCommitInsufficientFunds(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x01}, 32)
	op := payload.Mint{Tick: "HOOS"}
	var txid [32]byte
	source := SourceUTXO{Outpoint: txmodel.Outpoint{TxID: txid, Index: 0}, Amount: 100}

	_, err := BuildCommit(pubKey, op, source, 1000, 100, testChangeAddress(t), script.Schnorr)
	if err == nil {
		t.Fatal("expected error")
	}
	var insufficient *engerr.InsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
}

func TestBuildCommitDeterministicAddress(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x02}, 32)
	op := payload.Deploy{Tick: "HOOS", Max: "100", Lim: "10"}
	var txid [32]byte
	source := SourceUTXO{Outpoint: txmodel.Outpoint{TxID: txid, Index: 0}, Amount: 1_000_000}

	a, err := BuildCommit(pubKey, op, source, 500_000, 1_000, testChangeAddress(t), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := BuildCommit(pubKey, op, source, 500_000, 1_000, testChangeAddress(t), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.P2SHAddress != b.P2SHAddress {
		t.Fatal("identical inputs produced different P2SH addresses")
	}
	if a.P2SHScriptHash != b.P2SHScriptHash {
		t.Fatal("identical inputs produced different script hashes")
	}
}

func TestBuildRevealFeeAccounting(t *testing.T) {
	var txid [32]byte
	utxo := P2SHUTXO{Outpoint: txmodel.Outpoint{TxID: txid, Index: 0}, Amount: 50_000}
	recipient := testChangeAddress(t)

	tx, err := BuildReveal(utxo, recipient, 2_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.Inputs) != 1 || len(tx.Outputs) != 1 {
		t.Fatalf("expected single input and output, got %d/%d", len(tx.Inputs), len(tx.Outputs))
	}
	if tx.Outputs[0].Amount != 48_000 {
		t.Fatalf("expected 48000, got %d", tx.Outputs[0].Amount)
	}
}

func TestBuildRevealInsufficientFunds(t *testing.T) {
	var txid [32]byte
	utxo := P2SHUTXO{Outpoint: txmodel.Outpoint{TxID: txid, Index: 0}, Amount: 100}
	_, err := BuildReveal(utxo, testChangeAddress(t), 1000)
	if err == nil {
		t.Fatal("expected error")
	}
	var insufficient *engerr.InsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
}

func TestVerifyBinding(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x03}, 32)
	redeem, err := script.BuildRedeemScript(pubKey, []byte("payload"), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := script.HashRedeemScript(redeem)
	if !VerifyBinding(redeem, h) {
		t.Fatal("expected binding to verify")
	}
	var wrongHash [32]byte
	if VerifyBinding(redeem, wrongHash) {
		t.Fatal("expected mismatched hash to fail binding check")
	}
}

func TestEstimateFees(t *testing.T) {
	deploy := payload.Bytes(payload.Deploy{Tick: "HOOS", Max: "1", Lim: "1"})
	est := EstimateFees(deploy)
	if est.CommitFee != deployFee || est.RevealFee != deployFee {
		t.Fatalf("unexpected deploy estimate: %+v", est)
	}

	mint := payload.Bytes(payload.Mint{Tick: "HOOS"})
	est = EstimateFees(mint)
	if est.CommitFee != mintFee || est.RevealFee != 0 {
		t.Fatalf("unexpected mint estimate: %+v", est)
	}

	transfer := payload.Bytes(payload.Transfer{Tick: "HOOS", Amt: "1", To: "hoosat:qz00"})
	est = EstimateFees(transfer)
	if est.CommitFee != 0 || est.RevealFee != 0 {
		t.Fatalf("unexpected transfer estimate: %+v", est)
	}

	unknown := []byte(`{"p":"hrc-20"}`)
	est = EstimateFees(unknown)
	if est.CommitFee != 0 || est.RevealFee != 0 {
		t.Fatalf("unexpected unknown-op estimate: %+v", est)
	}
}
