package engerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsAsUnwrapsEachKind(t *testing.T) {
	wrapped := fmt.Errorf("building commit: %w", &InsufficientFunds{Required: 100, Available: 40})

	var target *InsufficientFunds
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find InsufficientFunds")
	}
	if target.Required != 100 || target.Available != 40 {
		t.Fatalf("unexpected fields: %+v", target)
	}
}

func TestDistinctKindsDoNotMatchEachOther(t *testing.T) {
	err := error(&InvalidHex{Reason: "odd length"})

	var wrongTarget *InvalidAddress
	if errors.As(err, &wrongTarget) {
		t.Fatal("InvalidHex must not satisfy errors.As for InvalidAddress")
	}
}

func TestWrapUnknown(t *testing.T) {
	cause := errors.New("boom")
	wrapped := WrapUnknown(cause)
	var u *Unknown
	if !errors.As(wrapped, &u) {
		t.Fatal("expected Unknown wrapper")
	}
	if u.Message != "boom" {
		t.Fatalf("expected message 'boom', got %q", u.Message)
	}
	if WrapUnknown(nil) != nil {
		t.Fatal("expected nil cause to wrap to nil")
	}
}
