// Package engerr defines the typed error kinds this engine surfaces
// (spec.md §7): every failure is one of a fixed set of tagged variants,
// never a bare string, so callers can branch on kind with errors.As.
//
// Grounded on the teacher codebase's internal/storage and internal/wallet
// packages' convention of wrapping causes with fmt.Errorf("%w", ...) and
// sentinel-shaped error values, generalized into a small closed set of
// distinct error types carrying structured fields (required/available,
// reason, message) instead of only formatted strings.
package engerr

import "fmt"

// InvalidAddress reports an address codec failure: checksum, prefix,
// length, or alphabet violation (spec.md §4.1, §7).
type InvalidAddress struct {
	Reason string
}

func (e *InvalidAddress) Error() string {
	return fmt.Sprintf("invalid address: %s", e.Reason)
}

// InvalidHex reports an odd-length or non-hex-digit decode failure.
type InvalidHex struct {
	Reason string
}

func (e *InvalidHex) Error() string {
	return fmt.Sprintf("invalid hex: %s", e.Reason)
}

// InvalidPubkey reports a public key of the wrong length for its curve.
type InvalidPubkey struct {
	Reason string
}

func (e *InvalidPubkey) Error() string {
	return fmt.Sprintf("invalid pubkey: %s", e.Reason)
}

// InvalidTransaction reports a malformed transaction or a missing pending
// reveal entry.
type InvalidTransaction struct {
	Message string
}

func (e *InvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Message)
}

// InsufficientFunds reports that UTXO selection could not meet the
// required amount.
type InsufficientFunds struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: required %d, available %d", e.Required, e.Available)
}

// CryptographicError reports a remote-signer failure or an infeasible
// sighash computation.
type CryptographicError struct {
	Message string
}

func (e *CryptographicError) Error() string {
	return fmt.Sprintf("cryptographic error: %s", e.Message)
}

// NetworkError reports a node HTTP failure.
type NetworkError struct {
	Message string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Message)
}

// Unknown wraps a host error this engine has no more specific kind for.
type Unknown struct {
	Message string
}

func (e *Unknown) Error() string {
	return fmt.Sprintf("unknown error: %s", e.Message)
}

// WrapUnknown wraps cause as an Unknown error, for the catch-all boundary
// the orchestrator applies to unexpected host failures (spec.md §7).
func WrapUnknown(cause error) error {
	if cause == nil {
		return nil
	}
	return &Unknown{Message: cause.Error()}
}
