package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hoosat-labs/hrc20-engine/config"
	"github.com/hoosat-labs/hrc20-engine/internal/nodeclient"
	"github.com/hoosat-labs/hrc20-engine/internal/registry"
	"github.com/hoosat-labs/hrc20-engine/internal/signer"
	"github.com/hoosat-labs/hrc20-engine/internal/storage"
	"github.com/hoosat-labs/hrc20-engine/pkg/address"
	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hexcodec"
	"github.com/hoosat-labs/hrc20-engine/pkg/payload"
	"github.com/hoosat-labs/hrc20-engine/pkg/script"
)

// stubSigner implements signer.RemoteSigner with a fixed 64-byte Schnorr
// signature, standing in for the external threshold-signing service.
type stubSigner struct {
	calls int
	fail  bool
}

func (s *stubSigner) Sign(ctx context.Context, keyName string, path signer.DerivationPath, digest [32]byte, curve signer.Curve) ([]byte, error) {
	s.calls++
	if s.fail {
		return nil, &engerr.CryptographicError{Message: "stub signer failure"}
	}
	return bytes.Repeat([]byte{0x07}, 64), nil
}

func testSelfAddress(t *testing.T) address.Address {
	t.Helper()
	addr, err := address.New(address.MainnetHRP, address.TypeSchnorr, bytes.Repeat([]byte{0x0a}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return addr
}

func testSelfScriptPubKeyHex(t *testing.T, addr address.Address) string {
	t.Helper()
	spk, err := addr.ScriptPubKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return hexcodec.Encode(spk)
}

// nodeFixture backs a handler serving a fixed UTXO set for any address,
// a zero balance, and acknowledging every transaction submission with the
// same fake transaction id (submitTxID).
type nodeFixture struct {
	utxos      []map[string]interface{}
	submitted  [][]byte
	submitTxID string
}

func newNodeFixture(t *testing.T, utxos []map[string]interface{}) (*httptest.Server, *nodeFixture) {
	t.Helper()
	fx := &nodeFixture{utxos: utxos, submitTxID: "broadcast-tx-id"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/utxos"):
			json.NewEncoder(w).Encode(fx.utxos)
		case strings.HasSuffix(r.URL.Path, "/balance"):
			json.NewEncoder(w).Encode(nodeclient.Balance{Confirmed: 0, Pending: 0})
		case r.URL.Path == "/transactions":
			body, _ := io.ReadAll(r.Body)
			fx.submitted = append(fx.submitted, body)
			json.NewEncoder(w).Encode(map[string]string{"transactionId": fx.submitTxID})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, fx
}

func newTestOrchestrator(t *testing.T, srv *httptest.Server, sig signer.RemoteSigner) (*Orchestrator, *registry.Registry) {
	t.Helper()
	node := nodeclient.New(srv.URL, 2*time.Second)
	reg := registry.New(storage.NewMemory())
	selfAddr := testSelfAddress(t)
	pubKey := bytes.Repeat([]byte{0x0a}, 32)
	path := signer.StandardPath(0, 0)

	orch := New(node, sig, reg, config.Mainnet, "test-key", path, script.Schnorr, pubKey, selfAddr)
	return orch, reg
}

func TestMintTokenCommitsWithSingleUTXO(t *testing.T) {
	selfAddr := testSelfAddress(t)
	scriptHex := testSelfScriptPubKeyHex(t, selfAddr)

	utxos := []map[string]interface{}{
		{
			"outpoint":        map[string]interface{}{"transactionId": strings.Repeat("ab", 32), "index": 0},
			"amount":          10_000_000_000,
			"scriptPublicKey": map[string]interface{}{"version": 0, "scriptPublicKey": scriptHex},
			"address":         "hoosat:self",
		},
	}
	srv, fx := newNodeFixture(t, utxos)
	defer srv.Close()

	sig := &stubSigner{}
	orch, reg := newTestOrchestrator(t, srv, sig)
	fromAddress, err := selfAddr.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := orch.MintToken(context.Background(), "HOOS", payload.None, fromAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	committed, ok := outcome.(Committed)
	if !ok {
		t.Fatalf("expected Committed outcome, got %#v", outcome)
	}
	if committed.CommitTxID != fx.submitTxID {
		t.Fatalf("expected commit tx id %s, got %s", fx.submitTxID, committed.CommitTxID)
	}
	if len(fx.submitted) != 1 {
		t.Fatalf("expected exactly one broadcast, got %d", len(fx.submitted))
	}
	if sig.calls != 1 {
		t.Fatalf("expected exactly one signer call, got %d", sig.calls)
	}

	script, err := reg.Get(fx.submitTxID)
	if err != nil {
		t.Fatalf("expected registry entry after commit, got error: %v", err)
	}
	if len(script) == 0 {
		t.Fatal("expected non-empty redeem script in registry")
	}
}

func TestDeployTokenConsolidatesWhenWalletFragmented(t *testing.T) {
	selfAddr := testSelfAddress(t)
	scriptHex := testSelfScriptPubKeyHex(t, selfAddr)

	var utxos []map[string]interface{}
	for i := 0; i < 20; i++ {
		utxos = append(utxos, map[string]interface{}{
			"outpoint":        map[string]interface{}{"transactionId": strings.Repeat("cd", 32), "index": i},
			"amount":          15_000_000_000, // 150 HTN each, below the 2100 HTN single-UTXO floor
			"scriptPublicKey": map[string]interface{}{"version": 0, "scriptPublicKey": scriptHex},
			"address":         "hoosat:self",
		})
	}
	srv, fx := newNodeFixture(t, utxos)
	defer srv.Close()

	sig := &stubSigner{}
	orch, reg := newTestOrchestrator(t, srv, sig)
	fromAddress, err := selfAddr.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := orch.DeployToken(context.Background(), "HOOS", "2100000000000000", "100000000000", payload.None, fromAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	consolidating, ok := outcome.(Consolidating)
	if !ok {
		t.Fatalf("expected Consolidating outcome, got %#v", outcome)
	}
	if consolidating.TxID != fx.submitTxID {
		t.Fatalf("expected consolidation tx id %s, got %s", fx.submitTxID, consolidating.TxID)
	}
	// Consolidation signs one input per selected UTXO, capped at MaxInputs (10).
	if sig.calls != 10 {
		t.Fatalf("expected 10 signer calls (MaxInputs cap), got %d", sig.calls)
	}

	entries, err := reg.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatal("consolidation must not create a pending reveal entry")
	}
}

// TestCommitAffordabilityAppliesSafetyMargin pins a single UTXO whose
// amount covers commitAmount plus the raw operation fee but falls short of
// commitAmount plus the 20% safety margin (spec.md §4.5): a mint's
// commitAmount is 1 HTN (100_000_000 sompi) and its raw single-input,
// two-output fee is 230 sompi, so 100_000_250 clears the raw sum
// (100_000_230) but not the padded one (100_000_276). If the margin were
// not applied, this would produce a direct Committed outcome instead.
func TestCommitAffordabilityAppliesSafetyMargin(t *testing.T) {
	selfAddr := testSelfAddress(t)
	scriptHex := testSelfScriptPubKeyHex(t, selfAddr)

	utxos := []map[string]interface{}{
		{
			"outpoint":        map[string]interface{}{"transactionId": strings.Repeat("ef", 32), "index": 0},
			"amount":          100_000_250,
			"scriptPublicKey": map[string]interface{}{"version": 0, "scriptPublicKey": scriptHex},
			"address":         "hoosat:self",
		},
	}
	srv, fx := newNodeFixture(t, utxos)
	defer srv.Close()

	sig := &stubSigner{}
	orch, _ := newTestOrchestrator(t, srv, sig)
	fromAddress, err := selfAddr.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := orch.MintToken(context.Background(), "HOOS", payload.None, fromAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := outcome.(Consolidating); !ok {
		t.Fatalf("expected Consolidating outcome once the safety margin is applied, got %#v", outcome)
	}
	if fx.submitTxID == "" || len(fx.submitted) != 1 {
		t.Fatalf("expected exactly one broadcast (the consolidation), got %d", len(fx.submitted))
	}
}

func TestRevealOperationNoPendingEntryIsHardError(t *testing.T) {
	srv, _ := newNodeFixture(t, nil)
	defer srv.Close()

	orch, _ := newTestOrchestrator(t, srv, &stubSigner{})

	_, err := orch.RevealOperation(context.Background(), "nonexistent-commit", "hoosat:recipient")
	if err == nil {
		t.Fatal("expected error")
	}
	var invalidTx *engerr.InvalidTransaction
	if !errors.As(err, &invalidTx) {
		t.Fatalf("expected InvalidTransaction, got %v", err)
	}
}

func TestRevealOperationSignsAndRemovesEntry(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x0a}, 32)
	redeemScript, err := script.BuildRedeemScript(pubKey, payload.Bytes(payload.Mint{Tick: "HOOS"}), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scriptHash := script.HashRedeemScript(redeemScript)
	p2shAddr, err := address.FromP2SHHash(address.MainnetHRP, scriptHash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2shScriptPubKey, err := p2shAddr.ScriptPubKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commitTxID := strings.Repeat("ef", 32)
	utxos := []map[string]interface{}{
		{
			"outpoint":        map[string]interface{}{"transactionId": commitTxID, "index": 0},
			"amount":          5_000_000,
			"scriptPublicKey": map[string]interface{}{"version": 0, "scriptPublicKey": hexcodec.Encode(p2shScriptPubKey)},
			"address":         "hoosat:p2sh",
		},
	}
	srv, fx := newNodeFixture(t, utxos)
	defer srv.Close()

	sig := &stubSigner{}
	orch, reg := newTestOrchestrator(t, srv, sig)
	if err := reg.Add(commitTxID, redeemScript); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipient := testSelfAddress(t)
	recipientStr, err := recipient.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txID, err := orch.RevealOperation(context.Background(), commitTxID, recipientStr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txID != fx.submitTxID {
		t.Fatalf("expected reveal tx id %s, got %s", fx.submitTxID, txID)
	}

	if _, err := reg.Get(commitTxID); err == nil {
		t.Fatal("expected pending entry to be removed after successful reveal")
	}
}

func TestRevealOperationKeepsEntryOnSignerFailure(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x0a}, 32)
	redeemScript, err := script.BuildRedeemScript(pubKey, payload.Bytes(payload.Mint{Tick: "HOOS"}), script.Schnorr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scriptHash := script.HashRedeemScript(redeemScript)
	p2shAddr, err := address.FromP2SHHash(address.MainnetHRP, scriptHash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2shScriptPubKey, err := p2shAddr.ScriptPubKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commitTxID := strings.Repeat("11", 32)
	utxos := []map[string]interface{}{
		{
			"outpoint":        map[string]interface{}{"transactionId": commitTxID, "index": 0},
			"amount":          5_000_000,
			"scriptPublicKey": map[string]interface{}{"version": 0, "scriptPublicKey": hexcodec.Encode(p2shScriptPubKey)},
			"address":         "hoosat:p2sh",
		},
	}
	srv, _ := newNodeFixture(t, utxos)
	defer srv.Close()

	// A signer that fails causes RevealOperation to fail before broadcast;
	// the registry entry must survive so the caller can retry.
	orch, reg := newTestOrchestrator(t, srv, &stubSigner{fail: true})
	if err := reg.Add(commitTxID, redeemScript); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipient := testSelfAddress(t)
	recipientStr, err := recipient.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = orch.RevealOperation(context.Background(), commitTxID, recipientStr)
	if err == nil {
		t.Fatal("expected error")
	}

	if _, err := reg.Get(commitTxID); err != nil {
		t.Fatal("expected pending entry to survive a failed reveal attempt")
	}
}
