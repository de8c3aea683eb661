// Package selector implements UTXO selection and fee estimation for
// ordinary spends (spec.md §4.5): largest-first descending selection
// capped at 10 inputs, and the linear fee formula the orchestrator uses
// to size commit/reveal transactions.
//
// Grounded on the teacher codebase's internal/wallet/coinselect.go (a
// UTXO struct carrying outpoint/value/script, a selection result struct,
// sentinel errors for the no-funds case) narrowed from its two-strategy
// smallest-single-or-largest-first chooser to the largest-first-only,
// 10-input-capped policy this engine requires, and on pkg/tx/fee.go's
// linear byte-count fee formula, generalized to Hoosat's per-input/
// per-output byte weights (spec.md §4.5).
package selector

import (
	"sort"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

// MaxInputs is the hard cap on the number of inputs a single selection may
// use (spec.md §4.5).
const MaxInputs = 10

// UTXO is a candidate input: an opaque reference plus its spendable amount.
// Ref is carried through untouched so callers can map a selection result
// back to outpoint/scriptPubKey/address without this package depending on
// txmodel or node-response shapes.
type UTXO struct {
	Ref    interface{}
	Amount uint64
}

// Selection is the result of a successful selection: the chosen UTXOs, in
// the order they were picked, and their summed amount.
type Selection struct {
	Inputs []UTXO
	Total  uint64
}

// Select chooses UTXOs to cover required sompi using largest-first
// descending order, stopping as soon as the running total meets or
// exceeds required, and never using more than MaxInputs. Fails with
// InsufficientFunds if the largest MaxInputs UTXOs together fall short.
func Select(utxos []UTXO, required uint64) (Selection, error) {
	candidates := make([]UTXO, len(utxos))
	copy(candidates, utxos)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Amount > candidates[j].Amount
	})

	if len(candidates) > MaxInputs {
		candidates = candidates[:MaxInputs]
	}

	var chosen []UTXO
	var total uint64
	for _, u := range candidates {
		chosen = append(chosen, u)
		total += u.Amount
		if total >= required {
			return Selection{Inputs: chosen, Total: total}, nil
		}
	}

	return Selection{}, &engerr.InsufficientFunds{Required: required, Available: total}
}

// TopN returns the n largest UTXOs in descending order (or all of them,
// still sorted, if fewer than n exist), for auto-consolidation's
// unconditional "select the top 10" self-pay (spec.md §4.5). Unlike
// Select, it never stops early at a target sum.
func TopN(utxos []UTXO, n int) []UTXO {
	candidates := make([]UTXO, len(utxos))
	copy(candidates, utxos)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Amount > candidates[j].Amount
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// LargestSingle returns the single largest UTXO, for auto-consolidation's
// "does a qualifying single UTXO already exist" check (spec.md §4.5).
// The bool is false when utxos is empty.
func LargestSingle(utxos []UTXO) (UTXO, bool) {
	if len(utxos) == 0 {
		return UTXO{}, false
	}
	best := utxos[0]
	for _, u := range utxos[1:] {
		if u.Amount > best.Amount {
			best = u
		}
	}
	return best, true
}

// EstimateFee computes the linear fee formula spec.md §4.5 specifies:
// (150*inputs + 35*outputs + 10) * feeRateSompiPerByte.
func EstimateFee(inputs, outputs int, feeRateSompiPerByte uint64) uint64 {
	size := uint64(150*inputs + 35*outputs + 10)
	return size * feeRateSompiPerByte
}

// SafetyMargin applies the orchestrator's 20% safety margin to an
// estimated fee when it is used as an upper bound for selection, without
// affecting the exact fee stamped onto the built transaction (spec.md
// §4.5).
func SafetyMargin(fee uint64) uint64 {
	return fee + fee/5
}
