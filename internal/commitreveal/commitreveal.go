// Package commitreveal assembles the HRC-20 commit/reveal transaction
// pair: the commit transaction locking funds to a P2SH redeem script
// carrying the operation payload, and the reveal transaction that later
// spends it to publish the payload (spec.md §4.4).
//
// Grounded on the teacher codebase's internal/utxo/commitment.go for its
// deterministic-hash-then-derive-address shape, and on pkg/tx/builder.go
// for the fluent AddInput/AddOutput transaction assembly style, adapted
// from single-signature wallet transactions to the two-output commit /
// single-output reveal shapes this engine always produces.
package commitreveal

import (
	"github.com/hoosat-labs/hrc20-engine/pkg/address"
	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hash"
	"github.com/hoosat-labs/hrc20-engine/pkg/payload"
	"github.com/hoosat-labs/hrc20-engine/pkg/script"
	"github.com/hoosat-labs/hrc20-engine/pkg/txmodel"
)

// Dust threshold and recommended single-UTXO floor (spec.md §9, "Dust
// threshold constant"). Amounts are in sompi (1 HTN = 10^8 sompi).
const (
	MinCommitAmount         uint64 = 1000
	RecommendedCommitAmount uint64 = 2100 * 1_0000_0000
)

// ScriptPubKeyVersion is the scriptPubKey version this engine always
// writes (spec.md §3, transaction outputs carry a 16-bit version).
const ScriptPubKeyVersion uint16 = 0

// SourceUTXO is the funding input for a commit transaction.
type SourceUTXO struct {
	Outpoint txmodel.Outpoint
	Amount   uint64
}

// CommitPair is the result of a successful BuildCommit call: the unsigned
// commit transaction plus the redeem script material needed both to spend
// it later and to persist in the pending-reveal registry (spec.md §3,
// "CommitPair").
type CommitPair struct {
	CommitTx       *txmodel.Transaction
	RedeemScript   []byte
	P2SHScriptHash [32]byte
	P2SHAddress    string
}

// BuildCommit assembles an unsigned commit transaction per spec.md §4.4:
// output 0 pays commitAmount to the derived P2SH address; output 1 returns
// change to changeAddress, omitted below MinCommitAmount.
func BuildCommit(
	signerPubKey []byte,
	op payload.Operation,
	source SourceUTXO,
	commitAmount uint64,
	operationFee uint64,
	changeAddress address.Address,
	curve script.SignCurve,
) (CommitPair, error) {
	required := commitAmount + operationFee
	if source.Amount < required {
		return CommitPair{}, &engerr.InsufficientFunds{Required: required, Available: source.Amount}
	}

	redeemScript, err := script.BuildRedeemScript(signerPubKey, payload.Bytes(op), curve)
	if err != nil {
		return CommitPair{}, err
	}
	scriptHash := script.HashRedeemScript(redeemScript)

	p2shAddr, err := address.FromP2SHHash(changeAddress.HRP, scriptHash)
	if err != nil {
		return CommitPair{}, err
	}
	p2shScriptPubKey, err := p2shAddr.ScriptPubKey()
	if err != nil {
		return CommitPair{}, err
	}
	changeScriptPubKey, err := changeAddress.ScriptPubKey()
	if err != nil {
		return CommitPair{}, err
	}

	tx := txmodel.New(1)
	tx.AddInput(source.Outpoint, 0)
	tx.AddOutput(commitAmount, txmodel.ScriptPubKey{Version: ScriptPubKeyVersion, Script: p2shScriptPubKey})

	change := source.Amount - required
	if change >= MinCommitAmount {
		tx.AddOutput(change, txmodel.ScriptPubKey{Version: ScriptPubKeyVersion, Script: changeScriptPubKey})
	}

	addrStr, err := p2shAddr.Encode()
	if err != nil {
		return CommitPair{}, err
	}

	return CommitPair{
		CommitTx:       tx,
		RedeemScript:   redeemScript,
		P2SHScriptHash: scriptHash,
		P2SHAddress:    addrStr,
	}, nil
}

// P2SHUTXO is the confirmed commit output a reveal transaction spends.
type P2SHUTXO struct {
	Outpoint txmodel.Outpoint
	Amount   uint64
}

// BuildReveal assembles the unsigned single-input, single-output reveal
// transaction that spends the P2SH commit output (spec.md §4.4).
func BuildReveal(p2shUTXO P2SHUTXO, recipient address.Address, revealFee uint64) (*txmodel.Transaction, error) {
	if revealFee > p2shUTXO.Amount {
		return nil, &engerr.InsufficientFunds{Required: revealFee, Available: p2shUTXO.Amount}
	}

	recipientScriptPubKey, err := recipient.ScriptPubKey()
	if err != nil {
		return nil, err
	}

	tx := txmodel.New(1)
	tx.AddInput(p2shUTXO.Outpoint, 0)
	tx.AddOutput(p2shUTXO.Amount-revealFee, txmodel.ScriptPubKey{Version: ScriptPubKeyVersion, Script: recipientScriptPubKey})
	return tx, nil
}

// VerifyBinding checks that re-hashing redeemScript equals scriptHash,
// the reveal-binding invariant spec.md §3/§8 (invariant 8) requires before
// a reveal is allowed to sign.
func VerifyBinding(redeemScript []byte, scriptHash [32]byte) bool {
	return hash.DoubleSHA256(redeemScript) == scriptHash
}

// FeeEstimate is the (commitFee, revealFee) pair estimate_fees returns. A
// zero RevealFee means the reveal leg is network-rate-determined rather
// than a fixed constant (spec.md §9, resolving the estimateFees open
// question: the authoritative mint value is commit-fee-only).
type FeeEstimate struct {
	CommitFee uint64
	RevealFee uint64
}

const (
	deployFee = 1000 * 1_0000_0000 // 1000 HTN
	mintFee   = 1 * 1_0000_0000    // 1 HTN
)

// EstimateFees returns the table-driven (commit_fee, reveal_fee) pair for
// the operation named in doc's "op" field (spec.md §4.4). Unknown
// operations yield a zero estimate.
func EstimateFees(doc []byte) FeeEstimate {
	op, err := payload.ParseOp(doc)
	if err != nil {
		return FeeEstimate{}
	}
	switch op {
	case payload.OpDeploy:
		return FeeEstimate{CommitFee: deployFee, RevealFee: deployFee}
	case payload.OpMint:
		return FeeEstimate{CommitFee: mintFee, RevealFee: 0}
	case payload.OpTransfer, payload.OpBurn, payload.OpList, payload.OpSend:
		return FeeEstimate{CommitFee: 0, RevealFee: 0}
	default:
		return FeeEstimate{}
	}
}
