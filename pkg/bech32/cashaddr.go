// Package bech32 implements the CashAddr-style bech32 variant spec.md §4.1
// describes: a configurable human-readable prefix, 8-bit-to-5-bit squashed
// payload, and a 40-bit (8-symbol) checksum computed with a CashAddr
// generator polynomial — distinct from BIP-173 bech32's 30-bit/6-symbol
// checksum.
//
// Grounded on the teacher codebase's pkg/types/bech32.go, which implements
// the BIP-173 variant end to end (HRP expansion, convertBits, polymod,
// checksum verify); this package keeps that same structure and generalizes
// the checksum width and generator set to CashAddr's.
package bech32

import (
	"fmt"
	"strings"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

// Charset is the bech32 alphabet (shared with BIP-173 bech32).
const Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// checksumSymbols is the number of 5-bit checksum symbols CashAddr appends
// (8 symbols * 5 bits = 40-bit checksum).
const checksumSymbols = 8

var charsetRev [128]int8

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i, c := range Charset {
		charsetRev[c] = int8(i)
	}
}

// Encode encodes a human-readable prefix and raw payload bytes (already
// including any leading tag byte) into a CashAddr-style string of the form
// "<hrp>:<bech32-body>".
func Encode(hrp string, payload []byte) (string, error) {
	if len(hrp) == 0 {
		return "", fmt.Errorf("bech32: empty HRP")
	}

	data5, err := convertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("bech32: convert bits: %w", err)
	}

	checksum := createChecksum(hrp, data5)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(data5) + checksumSymbols)
	sb.WriteString(hrp)
	sb.WriteByte(':')
	for _, b := range data5 {
		sb.WriteByte(Charset[b])
	}
	for _, b := range checksum {
		sb.WriteByte(Charset[b])
	}
	return sb.String(), nil
}

// Decode splits a CashAddr-style string into its HRP and raw payload bytes
// (tag byte included). If expectedHRP is non-empty, the prefix must match
// it case-insensitively; if empty, any recognized prefix is accepted and
// returned as found (case preserved).
func Decode(s string, expectedHRP string) (string, []byte, error) {
	if s == "" {
		return "", nil, &engerr.InvalidAddress{Reason: "empty string"}
	}

	sepIdx := strings.LastIndex(s, ":")
	var hrp, body string
	if sepIdx < 0 {
		if expectedHRP == "" {
			return "", nil, &engerr.InvalidAddress{Reason: fmt.Sprintf("missing %q separator and no expected HRP given", ":")}
		}
		hrp = expectedHRP
		body = s
	} else {
		hrp = s[:sepIdx]
		body = s[sepIdx+1:]
	}

	if expectedHRP != "" && !strings.EqualFold(hrp, expectedHRP) {
		return "", nil, &engerr.InvalidAddress{Reason: fmt.Sprintf("HRP mismatch: want %q got %q", expectedHRP, hrp)}
	}

	lowerHRP := strings.ToLower(hrp)
	lowerBody := strings.ToLower(body)

	if len(lowerBody) < checksumSymbols {
		return "", nil, &engerr.InvalidAddress{Reason: "body too short"}
	}

	data5 := make([]byte, len(lowerBody))
	for i := 0; i < len(lowerBody); i++ {
		c := lowerBody[i]
		if c > 127 {
			return "", nil, &engerr.InvalidAddress{Reason: fmt.Sprintf("invalid character %q", c)}
		}
		v := charsetRev[c]
		if v < 0 {
			return "", nil, &engerr.InvalidAddress{Reason: fmt.Sprintf("invalid character %q", c)}
		}
		data5[i] = byte(v)
	}

	if !verifyChecksum(lowerHRP, data5) {
		return "", nil, &engerr.InvalidAddress{Reason: "invalid checksum"}
	}

	data5 = data5[:len(data5)-checksumSymbols]

	payload, err := convertBits(data5, 5, 8, false)
	if err != nil {
		return "", nil, &engerr.InvalidAddress{Reason: fmt.Sprintf("convert bits: %v", err)}
	}

	return hrp, payload, nil
}

// polyMod computes the CashAddr 40-bit polynomial modulus over a stream of
// 5-bit values.
func polyMod(values []byte) uint64 {
	gen := [5]uint64{0x98f2bc8e61, 0x79b76d99e2, 0xf33e5fb3c4, 0xae2eabe2a8, 0x1e4f43e470}
	c := uint64(1)
	for _, d := range values {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		for i := 0; i < 5; i++ {
			if (c0>>uint(i))&1 == 1 {
				c ^= gen[i]
			}
		}
	}
	return c ^ 1
}

// hrpExpand expands the HRP for checksum computation: the low 5 bits of
// each character, followed by a zero separator.
func hrpExpand(hrp string) []byte {
	ret := make([]byte, 0, len(hrp)+1)
	for _, c := range hrp {
		ret = append(ret, byte(c)&0x1f)
	}
	ret = append(ret, 0)
	return ret
}

// createChecksum returns the 8 five-bit checksum symbols for hrp+data.
func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, make([]byte, checksumSymbols)...)
	mod := polyMod(values)
	ret := make([]byte, checksumSymbols)
	for i := 0; i < checksumSymbols; i++ {
		ret[i] = byte((mod >> uint(5*(checksumSymbols-1-i))) & 31)
	}
	return ret
}

// verifyChecksum checks the trailing 8 symbols of data (HRP-qualified).
func verifyChecksum(hrp string, data []byte) bool {
	values := append(hrpExpand(hrp), data...)
	return polyMod(values) == 0
}

// convertBits converts a byte slice between bit-group sizes (e.g. 8-bit
// bytes to 5-bit groups and back), left-MSB padding on encode.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32((1 << toBits) - 1)
	var ret []byte

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data byte: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
	} else {
		if bits >= fromBits {
			return nil, fmt.Errorf("excess padding")
		}
		if (acc<<(toBits-bits))&maxv != 0 {
			return nil, fmt.Errorf("non-zero padding")
		}
	}

	return ret, nil
}
