// path.go formats BIP-44-style derivation paths as strings for the remote
// signer call (spec.md §4.7, §6 "remote-signer surface"). This engine
// never derives key material itself — tyler-smith/go-bip32 is used only
// for its FirstHardenedChild constant, to render the conventional "'"
// hardened-index suffix the same way a real derivation would.
package signer

import (
	"fmt"
	"strings"

	bip32 "github.com/tyler-smith/go-bip32"
)

// DerivationPath is an ordered list of BIP-44 path segments. A segment at
// or above bip32.FirstHardenedChild renders with a trailing apostrophe.
type DerivationPath []uint32

// Hoosat's registered SLIP-44 coin type, used as the third path segment
// in the conventional m/44'/coinType'/account'/change/index layout.
const CoinType uint32 = 0xb91 // 2961, Hoosat

// Hardened marks index as a hardened child for path construction.
func Hardened(index uint32) uint32 {
	return bip32.FirstHardenedChild + index
}

// StandardPath builds the conventional m/44'/coinType'/account'/0/index
// path for a signer key name's derivation, per spec.md §4.7.
func StandardPath(account, index uint32) DerivationPath {
	return DerivationPath{
		Hardened(44),
		Hardened(CoinType),
		Hardened(account),
		0,
		index,
	}
}

// String renders the path in standard "m/44'/...": hardened segments get
// a trailing apostrophe.
func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteByte('m')
	for _, seg := range p {
		sb.WriteByte('/')
		if seg >= bip32.FirstHardenedChild {
			fmt.Fprintf(&sb, "%d'", seg-bip32.FirstHardenedChild)
		} else {
			fmt.Fprintf(&sb, "%d", seg)
		}
	}
	return sb.String()
}
