// Package signer adapts the external remote-signing service this engine
// delegates all signature production to (spec.md §4.7): given a key name,
// a derivation path, and a 32-byte digest, it returns a raw signature.
// This engine never stores or derives private key material itself.
//
// Grounded on the teacher codebase's internal/rpcclient.Client (a small
// JSON-over-HTTP client with a bounded timeout and a typed RPCError),
// adapted from JSON-RPC 2.0 method-call framing to a single-purpose REST
// POST, since the remote signer is a narrower external collaborator than
// a full node.
package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hexcodec"
)

// Curve identifies which signature scheme a signing request uses.
type Curve string

const (
	CurveECDSA   Curve = "ecdsa"
	CurveSchnorr Curve = "schnorr"
)

// RemoteSigner requests a signature over digest from the external signing
// service identified by keyName, under the given derivation path and
// curve. Returns the raw signature bytes: 64 bytes for Schnorr, DER-encoded
// for ECDSA (spec.md §4.7). Implementations must wrap any failure as
// *engerr.CryptographicError.
type RemoteSigner interface {
	Sign(ctx context.Context, keyName string, path DerivationPath, digest [32]byte, curve Curve) ([]byte, error)
}

// HTTPSigner is a RemoteSigner backed by a JSON-over-HTTP signing service.
type HTTPSigner struct {
	endpoint string
	http     *http.Client
}

// NewHTTPSigner creates an HTTPSigner targeting endpoint with the given
// call timeout (spec.md §4.7, "budgets a call cost ... per signature").
func NewHTTPSigner(endpoint string, timeout time.Duration) *HTTPSigner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSigner{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type signRequest struct {
	KeyName        string `json:"keyName"`
	DerivationPath string `json:"derivationPath"`
	Digest         string `json:"digest"`
	Curve          string `json:"curve"`
}

type signResponse struct {
	Signature string `json:"signature"`
	Error     string `json:"error,omitempty"`
}

// Sign requests digest be signed by the external service. Any transport,
// decode, or service-reported failure is wrapped as CryptographicError
// (spec.md §7).
func (s *HTTPSigner) Sign(ctx context.Context, keyName string, path DerivationPath, digest [32]byte, curve Curve) ([]byte, error) {
	reqBody, err := json.Marshal(signRequest{
		KeyName:        keyName,
		DerivationPath: path.String(),
		Digest:         hexcodec.Encode(digest[:]),
		Curve:          string(curve),
	})
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("encode sign request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/sign", bytes.NewReader(reqBody))
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("build sign request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("signer request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("read signer response: %v", err)}
	}

	var sr signResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("decode signer response: %v", err)}
	}
	if sr.Error != "" {
		return nil, &engerr.CryptographicError{Message: sr.Error}
	}

	sig, err := hexcodec.Decode(sr.Signature)
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("decode signature hex: %v", err)}
	}
	return sig, nil
}

type pubKeyResponse struct {
	PublicKey string `json:"publicKey"`
	Error     string `json:"error,omitempty"`
}

// GetPublicKey asks the signing service for the public key material
// behind keyName/path, so the daemon can derive its own address at boot
// without ever handling private key material itself.
func (s *HTTPSigner) GetPublicKey(ctx context.Context, keyName string, path DerivationPath, curve Curve) ([]byte, error) {
	reqBody, err := json.Marshal(signRequest{
		KeyName:        keyName,
		DerivationPath: path.String(),
		Curve:          string(curve),
	})
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("encode pubkey request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/pubkey", bytes.NewReader(reqBody))
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("build pubkey request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("pubkey request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("read pubkey response: %v", err)}
	}

	var pr pubKeyResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("decode pubkey response: %v", err)}
	}
	if pr.Error != "" {
		return nil, &engerr.CryptographicError{Message: pr.Error}
	}

	pubKey, err := hexcodec.Decode(pr.PublicKey)
	if err != nil {
		return nil, &engerr.CryptographicError{Message: fmt.Sprintf("decode public key hex: %v", err)}
	}
	return pubKey, nil
}

// WithHashType appends the single-byte SIGHASH_ALL hash type to a raw
// signature, as required before embedding it in a signature script
// (spec.md §4.7).
func WithHashType(sig []byte, hashType byte) []byte {
	out := make([]byte, len(sig)+1)
	copy(out, sig)
	out[len(sig)] = hashType
	return out
}
