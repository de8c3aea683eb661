package rpc

import (
	"context"
	"errors"

	"github.com/hoosat-labs/hrc20-engine/internal/orchestrator"
	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hexcodec"
	"github.com/hoosat-labs/hrc20-engine/pkg/payload"
)

// toRPCError maps a typed engerr error (or any other error) onto a
// JSON-RPC error object, per spec.md §7's recovery policy: everything is
// surfaced, never silently swallowed.
func toRPCError(err error) *Error {
	var insufficient *engerr.InsufficientFunds
	if errors.As(err, &insufficient) {
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	var invalidAddr *engerr.InvalidAddress
	if errors.As(err, &invalidAddr) {
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	var invalidHex *engerr.InvalidHex
	if errors.As(err, &invalidHex) {
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	var invalidPubkey *engerr.InvalidPubkey
	if errors.As(err, &invalidPubkey) {
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	var invalidTx *engerr.InvalidTransaction
	if errors.As(err, &invalidTx) {
		return &Error{Code: CodeNotFound, Message: err.Error()}
	}
	var network *engerr.NetworkError
	if errors.As(err, &network) {
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
	var crypto *engerr.CryptographicError
	if errors.As(err, &crypto) {
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &Error{Code: CodeInternalError, Message: err.Error()}
}

// outcomeToResult flattens a CommitOutcome sum type (spec.md §9) into the
// single wire shape deploy_token/mint_token returns: a committed result
// carries commit_tx_id/redeem_script_hex/p2sh_address, a consolidating
// result carries only a consolidating flag and the self-pay tx id so the
// caller knows to retry.
func outcomeToResult(outcome orchestrator.CommitOutcome) CommitResult {
	switch o := outcome.(type) {
	case orchestrator.Committed:
		return CommitResult{
			CommitTxID:   o.CommitTxID,
			RedeemScript: o.RedeemScriptHex,
			P2SHAddress:  o.P2SHAddress,
		}
	case orchestrator.Consolidating:
		return CommitResult{
			Consolidating: true,
			ConsolidateTx: o.TxID,
		}
	default:
		return CommitResult{}
	}
}

func (s *Server) handleGetAddress(req *Request) (interface{}, *Error) {
	addr, pubKey := s.orch.GetAddress()
	encoded, err := addr.Encode()
	if err != nil {
		return nil, toRPCError(err)
	}
	return AddressResult{Address: encoded, PublicKey: hexcodec.Encode(pubKey)}, nil
}

func (s *Server) handleGetBalance(ctx context.Context, req *Request) (interface{}, *Error) {
	var p AddressParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}
	bal, err := s.orch.GetBalance(ctx, p.Address)
	if err != nil {
		return nil, toRPCError(err)
	}
	return BalanceResult{Confirmed: bal.Confirmed, Pending: bal.Pending}, nil
}

func (s *Server) handleConsolidateUTXOs(ctx context.Context, req *Request) (interface{}, *Error) {
	var p ConsolidateParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}
	txID, err := s.orch.ConsolidateUTXOs(ctx, p.FromAddress)
	if err != nil {
		return nil, toRPCError(err)
	}
	return ConsolidateResult{TxID: txID}, nil
}

func (s *Server) handleDeployToken(ctx context.Context, req *Request) (interface{}, *Error) {
	var p DeployTokenParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}

	var dec payload.Option
	if p.Dec != "" {
		dec = payload.Some(p.Dec)
	}

	outcome, err := s.orch.DeployToken(ctx, p.Tick, p.Max, p.Lim, dec, p.FromAddress)
	if err != nil {
		return nil, toRPCError(err)
	}
	return outcomeToResult(outcome), nil
}

func (s *Server) handleMintToken(ctx context.Context, req *Request) (interface{}, *Error) {
	var p MintTokenParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}

	var recipient payload.Option
	if p.Recipient != "" {
		recipient = payload.Some(p.Recipient)
	}

	outcome, err := s.orch.MintToken(ctx, p.Tick, recipient, p.FromAddress)
	if err != nil {
		return nil, toRPCError(err)
	}
	return outcomeToResult(outcome), nil
}

func (s *Server) handleRevealOperation(ctx context.Context, req *Request) (interface{}, *Error) {
	var p RevealOperationParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}
	txID, err := s.orch.RevealOperation(ctx, p.CommitTxID, p.Recipient)
	if err != nil {
		return nil, toRPCError(err)
	}
	return RevealResult{RevealTxID: txID}, nil
}

func (s *Server) handleGetPendingReveals(req *Request) (interface{}, *Error) {
	entries, err := s.orch.GetPendingReveals()
	if err != nil {
		return nil, toRPCError(err)
	}
	out := make([]PendingRevealResult, len(entries))
	for i, e := range entries {
		out[i] = PendingRevealResult{CommitTxID: e.CommitTxID, ScriptLength: e.ScriptLength}
	}
	return out, nil
}

func (s *Server) handleGetRedeemScript(req *Request) (interface{}, *Error) {
	var p RedeemScriptParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}
	script, ok := s.orch.GetRedeemScript(p.CommitTxID)
	if !ok {
		return RedeemScriptResult{}, nil
	}
	return RedeemScriptResult{ScriptHex: hexcodec.Encode(script)}, nil
}

func (s *Server) handleEstimateFees(req *Request) (interface{}, *Error) {
	var p EstimateFeesParam
	if rpcErr := parseParams(req, &p); rpcErr != nil {
		return nil, rpcErr
	}
	estimate := s.orch.EstimateFees([]byte(p.PayloadJSON))
	return FeeEstimateResult{CommitFee: estimate.CommitFee, RevealFee: estimate.RevealFee}, nil
}
