// Package hash implements the hash primitives the HRC-20 engine needs:
// double-SHA-256 for script/P2SH hashing and legacy-style sighashing,
// a BIP-340 domain-separated tagged hash for Schnorr sighashing, and a
// BLAKE3 keyed hash used internally by the pending-reveal registry to
// checksum its persisted snapshots.
//
// Grounded on the teacher codebase's pkg/crypto/hash.go, which wraps
// zeebo/blake3 the same way for its own transaction hashing; this package
// generalizes that wrapper to the additional digest schemes Hoosat's
// commit-reveal transactions require.
package hash

import (
	"crypto/sha256"

	"github.com/zeebo/blake3"
)

// Size is the length in bytes of every digest this package produces.
const Size = 32

// DoubleSHA256 computes SHA-256(SHA-256(data)), matching Bitcoin-derivative
// chains' transaction and script hashing convention.
func DoubleSHA256(data []byte) [Size]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// TaggedHashSHA256 computes the BIP-340 tagged hash:
// SHA256(SHA256(tag) || SHA256(tag) || msg).
// Used to domain-separate the Schnorr sighash from any other SHA-256
// digest an attacker might try to substitute.
func TaggedHashSHA256(tag string, msg []byte) [Size]byte {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	h.Write(msg)
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Keyed computes a BLAKE3 hash of data keyed by a 32-byte key derived from
// domain. Two different domains never collide in key space because the
// key itself is BLAKE3(domain).
//
// This is not a protocol-level hash (it never appears on-chain or in any
// sighash digest); internal/registry uses it, keyed by a fixed domain
// string, to checksum persisted snapshots so a truncated or corrupted
// snapshot blob is rejected before Restore writes anything.
func Keyed(domain string, data []byte) [Size]byte {
	domainKey := blake3.Sum256([]byte(domain))
	h, err := blake3.NewKeyed(domainKey[:])
	if err != nil {
		// NewKeyed only fails for a wrong-sized key; domainKey is always 32 bytes.
		panic(err)
	}
	h.Write(data)
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}
