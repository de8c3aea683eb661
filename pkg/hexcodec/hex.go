// Package hexcodec provides strict lowercase hex encode/decode helpers.
//
// The wire format (spec.md §6) expects all hex fields lowercase and of
// even length; this package rejects anything else rather than silently
// normalizing, so malformed payloads surface immediately.
package hexcodec

import (
	"encoding/hex"
	"fmt"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

// Encode returns the lowercase hex encoding of b.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// Decode parses a lowercase hex string into bytes.
// Odd-length input and non-hex digits are rejected.
func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &engerr.InvalidHex{Reason: fmt.Sprintf("odd-length hex string (%d chars)", len(s))}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		if !isDigit && !isLower {
			return nil, &engerr.InvalidHex{Reason: fmt.Sprintf("invalid hex character %q at position %d", c, i)}
		}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &engerr.InvalidHex{Reason: err.Error()}
	}
	return b, nil
}

// MustDecode is like Decode but panics on error. Reserved for constants
// known to be valid at compile time (tests, fixtures).
func MustDecode(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}
