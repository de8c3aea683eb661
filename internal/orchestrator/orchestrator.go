// Package orchestrator drives the end-to-end commit/reveal state machine
// (spec.md §4.8): PLANNED -> COMMITTED -> REVEAL_PENDING -> DONE, with a
// CONSOLIDATING branch for wallets too fragmented to fund a commit from a
// single UTXO. Commit phases exist for deploy (DeployToken) and mint
// (MintToken), and RevealOperation reveals any registered commit; there is
// no transfer or burn entry point. It is the only
// component that touches the node, the signer, and the pending-reveal
// registry in the same call.
//
// Grounded on the teacher codebase's internal/wallet package (a facade
// type wiring coinselect + hdkey + keystore into a single Send-style
// operation), generalized from a single-signature wallet send to this
// engine's two-phase commit/reveal flow with an external signer and a
// persistent pending-reveal registry in place of local key custody.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/hoosat-labs/hrc20-engine/config"
	"github.com/hoosat-labs/hrc20-engine/internal/commitreveal"
	"github.com/hoosat-labs/hrc20-engine/internal/nodeclient"
	"github.com/hoosat-labs/hrc20-engine/internal/obslog"
	"github.com/hoosat-labs/hrc20-engine/internal/registry"
	"github.com/hoosat-labs/hrc20-engine/internal/selector"
	"github.com/hoosat-labs/hrc20-engine/internal/signer"
	"github.com/hoosat-labs/hrc20-engine/pkg/address"
	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hexcodec"
	"github.com/hoosat-labs/hrc20-engine/pkg/payload"
	"github.com/hoosat-labs/hrc20-engine/pkg/script"
	"github.com/hoosat-labs/hrc20-engine/pkg/sighash"
	"github.com/hoosat-labs/hrc20-engine/pkg/txmodel"
)

// FeeRateSompiPerByte is the flat network fee rate this engine assumes
// when sizing commit, reveal, and consolidation transactions (spec.md
// §4.5). A production deployment would source this from the node; the
// engine takes it as a configuration constant, per spec.md §6
// ("Environment ... constants at boot").
const FeeRateSompiPerByte uint64 = 1

// CommitOutcome is the sum type a commit-phase call returns: either a
// completed commit or a consolidation side-effect the caller must wait
// out before retrying (spec.md §9, replacing a magic "PENDING_
// CONSOLIDATION:" string prefix with an explicit variant).
type CommitOutcome interface {
	isCommitOutcome()
}

// Committed is the successful commit-phase result.
type Committed struct {
	CommitTxID      string
	RedeemScriptHex string
	P2SHAddress     string
}

func (Committed) isCommitOutcome() {}

// Consolidating signals that no single UTXO could fund the commit, so the
// engine broadcast a self-pay consolidation transaction instead. The
// caller should retry the same operation after the consolidation
// transaction confirms (spec.md §4.5, "~10s" chain-visibility guidance).
type Consolidating struct {
	TxID string
}

func (Consolidating) isCommitOutcome() {}

// PendingReveal is the reduced (commit_tx_id, script_length) shape the
// get_pending_reveals operator call returns (spec.md §6).
type PendingReveal struct {
	CommitTxID   string
	ScriptLength int
}

// Orchestrator wires the node, remote signer, and pending-reveal registry
// into the operations spec.md §6's operator interface names.
type Orchestrator struct {
	node        *nodeclient.Client
	signer      signer.RemoteSigner
	registry    *registry.Registry
	network     config.NetworkType
	keyName     string
	path        signer.DerivationPath
	curve       script.SignCurve
	pubKey      []byte
	selfAddress address.Address
}

// New constructs an Orchestrator. pubKey and selfAddress are the signer
// key's public material; curve selects which signature scheme every
// commit/reveal built by this instance uses.
func New(
	node *nodeclient.Client,
	remoteSigner signer.RemoteSigner,
	reg *registry.Registry,
	network config.NetworkType,
	keyName string,
	path signer.DerivationPath,
	curve script.SignCurve,
	pubKey []byte,
	selfAddress address.Address,
) *Orchestrator {
	return &Orchestrator{
		node:        node,
		signer:      remoteSigner,
		registry:    reg,
		network:     network,
		keyName:     keyName,
		path:        path,
		curve:       curve,
		pubKey:      pubKey,
		selfAddress: selfAddress,
	}
}

// GetAddress returns this engine's own address and public key, per the
// get_address operator call.
func (o *Orchestrator) GetAddress() (address.Address, []byte) {
	return o.selfAddress, o.pubKey
}

// GetBalance proxies the node's balance query, per the get_balance
// operator call.
func (o *Orchestrator) GetBalance(ctx context.Context, addr string) (nodeclient.Balance, error) {
	return o.node.GetBalance(ctx, addr)
}

// GetRedeemScript looks up a pending reveal's redeem script, per the
// get_redeem_script operator call. Returns ok=false rather than an error
// when nothing is pending for commitTxID, since a miss is an expected
// query result here, not a hard failure.
func (o *Orchestrator) GetRedeemScript(commitTxID string) (redeemScript []byte, ok bool) {
	s, err := o.registry.Get(commitTxID)
	if err != nil {
		return nil, false
	}
	return s, true
}

// GetPendingReveals lists every pending reveal, per the
// get_pending_reveals operator call.
func (o *Orchestrator) GetPendingReveals() ([]PendingReveal, error) {
	entries, err := o.registry.List()
	if err != nil {
		return nil, err
	}
	out := make([]PendingReveal, len(entries))
	for i, e := range entries {
		out[i] = PendingReveal{CommitTxID: e.CommitTxID, ScriptLength: len(e.RedeemScript)}
	}
	return out, nil
}

// EstimateFees proxies the payload-driven fee table, per the
// estimate_fees operator call.
func (o *Orchestrator) EstimateFees(doc []byte) commitreveal.FeeEstimate {
	return commitreveal.EstimateFees(doc)
}

func (o *Orchestrator) signCurve() signer.Curve {
	if o.curve == script.ECDSA {
		return signer.CurveECDSA
	}
	return signer.CurveSchnorr
}

func toSelectorUTXOs(entries []nodeclient.UTXOEntry) []selector.UTXO {
	out := make([]selector.UTXO, len(entries))
	for i, e := range entries {
		out[i] = selector.UTXO{Ref: e, Amount: e.Amount}
	}
	return out
}

func (o *Orchestrator) toSourceUTXO(entry nodeclient.UTXOEntry) (commitreveal.SourceUTXO, error) {
	op, err := txmodel.OutpointFromWire(entry.Outpoint)
	if err != nil {
		return commitreveal.SourceUTXO{}, fmt.Errorf("orchestrator: decode source outpoint: %w", err)
	}
	return commitreveal.SourceUTXO{Outpoint: op, Amount: entry.Amount}, nil
}

// signOwnInput computes the sighash digest for input i of tx spending
// spentScriptPubKey/spentAmount, requests a signature from the remote
// signer, and installs the resulting P2SH-less signature script. Used for
// ordinary (non-P2SH) commit and consolidation inputs, which spend
// directly from this engine's own address's scriptPubKey.
func (o *Orchestrator) signOwnInput(ctx context.Context, tx *txmodel.Transaction, i int, spentScriptPubKey txmodel.ScriptPubKey, spentAmount uint64, reused *sighash.ReusedValues) error {
	var digest [32]byte
	if o.curve == script.Schnorr {
		digest = sighash.Schnorr(tx, i, spentScriptPubKey, spentAmount, reused, sighash.HashTypeAll)
	} else {
		digest = sighash.ECDSA(tx, i, spentScriptPubKey, spentAmount, reused, sighash.HashTypeAll)
	}

	sig, err := o.signer.Sign(ctx, o.keyName, o.path, digest, o.signCurve())
	if err != nil {
		return err
	}
	sigWithHashType := signer.WithHashType(sig, sighash.HashTypeAll)

	buf, err := script.PushData(nil, sigWithHashType)
	if err != nil {
		return fmt.Errorf("orchestrator: build signature script: %w", err)
	}
	tx.Inputs[i].SignatureScript = buf
	tx.Inputs[i].SigOpCount = 1
	return nil
}

// commit runs the PLANNED -> COMMITTED transition for a single-UTXO-
// sourced operation: select a source UTXO, build the commit transaction,
// sign it, broadcast it, and record the pending reveal (spec.md §4.8). If
// no single UTXO is large enough, it broadcasts a consolidation instead and
// returns Consolidating without building a commit.
func (o *Orchestrator) commit(ctx context.Context, op payload.Operation, fromAddress string, minCommitAmount uint64) (CommitOutcome, error) {
	fromAddr, err := address.Decode(fromAddress, o.network.HRP())
	if err != nil {
		return nil, err
	}

	entries, err := o.node.UTXOs(ctx, fromAddress)
	if err != nil {
		return nil, err
	}

	doc := payload.Bytes(op)
	fees := commitreveal.EstimateFees(doc)
	commitAmount := fees.CommitFee
	if commitAmount < minCommitAmount {
		commitAmount = minCommitAmount
	}
	operationFee := selector.EstimateFee(1, 2, FeeRateSompiPerByte)
	// The affordability check pads operationFee with the 20% safety margin
	// (spec.md §4.5), but the transaction itself is still stamped with the
	// exact, un-padded operationFee below.
	required := commitAmount + selector.SafetyMargin(operationFee)

	utxos := toSelectorUTXOs(entries)
	largest, ok := selector.LargestSingle(utxos)
	if !ok || largest.Amount < required {
		obslog.Orchestrator.Info().Str("fromAddress", fromAddress).Msg("no single UTXO covers commit, consolidating")
		txID, err := o.consolidate(ctx, fromAddress, fromAddr, utxos)
		if err != nil {
			return nil, err
		}
		return Consolidating{TxID: txID}, nil
	}

	entry := largest.Ref.(nodeclient.UTXOEntry)
	source, err := o.toSourceUTXO(entry)
	if err != nil {
		return nil, err
	}

	pair, err := commitreveal.BuildCommit(o.pubKey, op, source, commitAmount, operationFee, fromAddr, o.curve)
	if err != nil {
		return nil, err
	}

	sourceScriptPubKey, err := txmodel.ScriptPubKeyFromWire(entry.ScriptPubKey)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: decode source scriptPubKey: %w", err)
	}
	reused := sighash.NewReusedValues()
	if err := o.signOwnInput(ctx, pair.CommitTx, 0, sourceScriptPubKey, source.Amount, reused); err != nil {
		return nil, err
	}

	txID, err := o.node.SubmitTransaction(ctx, pair.CommitTx)
	if err != nil {
		// Broadcast failure leaves no registry entry: no ghost reveals
		// (spec.md §4.8, "Failure semantics").
		return nil, err
	}

	if err := o.registry.Add(txID, pair.RedeemScript); err != nil {
		return nil, err
	}

	return Committed{
		CommitTxID:      txID,
		RedeemScriptHex: hexcodec.Encode(pair.RedeemScript),
		P2SHAddress:     pair.P2SHAddress,
	}, nil
}

// DeployToken runs the deploy commit phase. Deploy requires a single UTXO
// at or above RecommendedCommitAmount before committing (spec.md §4.5).
func (o *Orchestrator) DeployToken(ctx context.Context, tick, max, lim string, dec payload.Option, fromAddress string) (CommitOutcome, error) {
	op := payload.Deploy{Tick: tick, Max: max, Lim: lim, Dec: dec}
	return o.commit(ctx, op, fromAddress, commitreveal.RecommendedCommitAmount)
}

// MintToken runs the mint commit phase. It passes only the ordinary dust
// floor, but commit raises the commit amount to the fee table's 1 HTN mint
// commit fee, so the source UTXO must cover that plus the padded network
// fee (spec.md §4.5).
func (o *Orchestrator) MintToken(ctx context.Context, tick string, recipient payload.Option, fromAddress string) (CommitOutcome, error) {
	op := payload.Mint{Tick: tick, To: recipient}
	return o.commit(ctx, op, fromAddress, commitreveal.MinCommitAmount)
}

// consolidate performs the auto-consolidation self-pay: select up to the
// largest MaxInputs UTXOs, pay their sum minus the calculated fee back to
// fromAddr, and broadcast (spec.md §4.5). Idempotent in effect: repeated
// calls against the same fragmented UTXO set produce equivalent
// consolidations until the wallet is no longer fragmented.
func (o *Orchestrator) consolidate(ctx context.Context, fromAddress string, fromAddr address.Address, utxos []selector.UTXO) (string, error) {
	utxos = selector.TopN(utxos, selector.MaxInputs)
	var total uint64
	for _, u := range utxos {
		total += u.Amount
	}
	if len(utxos) == 0 {
		return "", &engerr.InsufficientFunds{Required: 1, Available: 0}
	}

	fee := selector.EstimateFee(len(utxos), 1, FeeRateSompiPerByte)
	if fee >= total {
		return "", &engerr.InsufficientFunds{Required: fee, Available: total}
	}

	selfScriptPubKey, err := fromAddr.ScriptPubKey()
	if err != nil {
		return "", err
	}

	tx := txmodel.New(1)
	for _, u := range utxos {
		entry := u.Ref.(nodeclient.UTXOEntry)
		op, err := txmodel.OutpointFromWire(entry.Outpoint)
		if err != nil {
			return "", fmt.Errorf("orchestrator: decode consolidation outpoint: %w", err)
		}
		tx.AddInput(op, 0)
	}
	tx.AddOutput(total-fee, txmodel.ScriptPubKey{Version: commitreveal.ScriptPubKeyVersion, Script: selfScriptPubKey})

	reused := sighash.NewReusedValues()
	for i, u := range utxos {
		entry := u.Ref.(nodeclient.UTXOEntry)
		spentScriptPubKey, err := txmodel.ScriptPubKeyFromWire(entry.ScriptPubKey)
		if err != nil {
			return "", fmt.Errorf("orchestrator: decode consolidation input scriptPubKey: %w", err)
		}
		if err := o.signOwnInput(ctx, tx, i, spentScriptPubKey, entry.Amount, reused); err != nil {
			return "", err
		}
	}

	return o.node.SubmitTransaction(ctx, tx)
}

// ConsolidateUTXOs runs a consolidation on demand, per the
// consolidate_utxos operator call.
func (o *Orchestrator) ConsolidateUTXOs(ctx context.Context, fromAddress string) (string, error) {
	fromAddr, err := address.Decode(fromAddress, o.network.HRP())
	if err != nil {
		return "", err
	}
	entries, err := o.node.UTXOs(ctx, fromAddress)
	if err != nil {
		return "", err
	}
	return o.consolidate(ctx, fromAddress, fromAddr, toSelectorUTXOs(entries))
}

// RevealOperation runs the REVEAL_PENDING -> DONE transition: look up the
// registered redeem script, fetch the confirmed P2SH UTXO, build and sign
// the reveal transaction, broadcast it, and remove the pending entry
// (spec.md §4.8). Reveal failures after lookup leave the registry entry
// in place so the caller can retry.
func (o *Orchestrator) RevealOperation(ctx context.Context, commitTxID string, recipientAddress string) (string, error) {
	redeemScript, err := o.registry.Get(commitTxID)
	if err != nil {
		return "", err
	}

	scriptHash := script.HashRedeemScript(redeemScript)
	if !commitreveal.VerifyBinding(redeemScript, scriptHash) {
		return "", &engerr.InvalidTransaction{Message: "stored redeem script does not match its own hash"}
	}

	p2shAddr, err := address.FromP2SHHash(o.network.HRP(), scriptHash)
	if err != nil {
		return "", err
	}
	p2shAddrStr, err := p2shAddr.Encode()
	if err != nil {
		return "", err
	}

	entries, err := o.node.UTXOs(ctx, p2shAddrStr)
	if err != nil {
		return "", err
	}
	var found *nodeclient.UTXOEntry
	for i := range entries {
		if entries[i].Outpoint.TransactionID == commitTxID && entries[i].Outpoint.Index == 0 {
			found = &entries[i]
			break
		}
	}
	if found == nil {
		return "", &engerr.InvalidTransaction{Message: fmt.Sprintf("commit %s has no visible P2SH output yet", commitTxID)}
	}

	recipient, err := address.Decode(recipientAddress, o.network.HRP())
	if err != nil {
		return "", err
	}

	revealFee := selector.EstimateFee(1, 1, FeeRateSompiPerByte)
	p2shOutpoint, err := txmodel.OutpointFromWire(found.Outpoint)
	if err != nil {
		return "", fmt.Errorf("orchestrator: decode p2sh outpoint: %w", err)
	}
	tx, err := commitreveal.BuildReveal(commitreveal.P2SHUTXO{Outpoint: p2shOutpoint, Amount: found.Amount}, recipient, revealFee)
	if err != nil {
		return "", err
	}

	p2shScriptPubKey, err := p2shAddr.ScriptPubKey()
	if err != nil {
		return "", err
	}

	reused := sighash.NewReusedValues()
	var digest [32]byte
	if o.curve == script.Schnorr {
		digest = sighash.Schnorr(tx, 0, txmodel.ScriptPubKey{Version: commitreveal.ScriptPubKeyVersion, Script: p2shScriptPubKey}, found.Amount, reused, sighash.HashTypeAll)
	} else {
		digest = sighash.ECDSA(tx, 0, txmodel.ScriptPubKey{Version: commitreveal.ScriptPubKeyVersion, Script: p2shScriptPubKey}, found.Amount, reused, sighash.HashTypeAll)
	}

	sig, err := o.signer.Sign(ctx, o.keyName, o.path, digest, o.signCurve())
	if err != nil {
		return "", err
	}
	sigWithHashType := signer.WithHashType(sig, sighash.HashTypeAll)

	sigScript, err := script.BuildP2SHSignatureScript(sigWithHashType, redeemScript)
	if err != nil {
		return "", fmt.Errorf("orchestrator: build p2sh signature script: %w", err)
	}
	tx.Inputs[0].SignatureScript = sigScript
	tx.Inputs[0].SigOpCount = 1

	txID, err := o.node.SubmitTransaction(ctx, tx)
	if err != nil {
		return "", err
	}

	if err := o.registry.Remove(commitTxID); err != nil {
		return "", err
	}
	return txID, nil
}

