package selector

import (
	"errors"
	"testing"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
)

func utxosOf(amounts ...uint64) []UTXO {
	out := make([]UTXO, len(amounts))
	for i, a := range amounts {
		out[i] = UTXO{Ref: i, Amount: a}
	}
	return out
}

func TestSelectPrefersSingleLargeUTXO(t *testing.T) {
	utxos := utxosOf(100, 5000, 200, 300)
	sel, err := Select(utxos, 4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Inputs) != 1 || sel.Inputs[0].Amount != 5000 {
		t.Fatalf("expected single 5000 input, got %+v", sel.Inputs)
	}
}

func TestSelectAccumulatesLargestFirst(t *testing.T) {
	utxos := utxosOf(100, 200, 300, 400)
	sel, err := Select(utxos, 850)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Largest-first: 400 + 300 + 200 = 900 >= 850, stop at 3 inputs.
	if len(sel.Inputs) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(sel.Inputs))
	}
	if sel.Total != 900 {
		t.Fatalf("expected total 900, got %d", sel.Total)
	}
}

func TestSelectNeverExceedsTenInputs(t *testing.T) {
	amounts := make([]uint64, 20)
	for i := range amounts {
		amounts[i] = 150
	}
	utxos := utxosOf(amounts...)
	// Top 10 sum to 1500, which is below 3000: selection should fail
	// rather than dip into the remaining 10.
	_, err := Select(utxos, 3000)
	if err == nil {
		t.Fatal("expected insufficient funds error")
	}
	var insufficient *engerr.InsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
	if insufficient.Available != 1500 {
		t.Fatalf("expected available 1500 (10 * 150), got %d", insufficient.Available)
	}
}

func TestSelectFailsWhenTopTenInsufficient(t *testing.T) {
	utxos := utxosOf(10, 20, 30)
	_, err := Select(utxos, 1000)
	if err == nil {
		t.Fatal("expected error")
	}
	var insufficient *engerr.InsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
	if insufficient.Required != 1000 || insufficient.Available != 60 {
		t.Fatalf("unexpected fields: %+v", insufficient)
	}
}

func TestLargestSingle(t *testing.T) {
	utxos := utxosOf(100, 900, 300)
	best, ok := LargestSingle(utxos)
	if !ok || best.Amount != 900 {
		t.Fatalf("expected largest 900, got %+v ok=%v", best, ok)
	}

	_, ok = LargestSingle(nil)
	if ok {
		t.Fatal("expected false for empty slice")
	}
}

func TestTopNCapsAtN(t *testing.T) {
	amounts := make([]uint64, 20)
	for i := range amounts {
		amounts[i] = uint64(i + 1)
	}
	utxos := utxosOf(amounts...)
	top := TopN(utxos, 10)
	if len(top) != 10 {
		t.Fatalf("expected 10 results, got %d", len(top))
	}
	for i, u := range top {
		want := uint64(20 - i)
		if u.Amount != want {
			t.Fatalf("expected descending order, index %d = %d, want %d", i, u.Amount, want)
		}
	}
}

func TestTopNReturnsAllWhenFewerThanN(t *testing.T) {
	utxos := utxosOf(10, 30, 20)
	top := TopN(utxos, 10)
	if len(top) != 3 {
		t.Fatalf("expected 3 results, got %d", len(top))
	}
	if top[0].Amount != 30 || top[1].Amount != 20 || top[2].Amount != 10 {
		t.Fatalf("expected descending order, got %+v", top)
	}
}

func TestEstimateFeeFormula(t *testing.T) {
	fee := EstimateFee(2, 2, 1)
	want := uint64(150*2 + 35*2 + 10)
	if fee != want {
		t.Fatalf("expected %d, got %d", want, fee)
	}
}

func TestSafetyMargin(t *testing.T) {
	if SafetyMargin(1000) != 1200 {
		t.Fatalf("expected 1200, got %d", SafetyMargin(1000))
	}
}
