package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInsufficientStock, http.StatusUnprocessableEntity},
		{CodeInsufficientBalance, http.StatusUnprocessableEntity},
		{CodeConcurrency, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "debit wallet")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := New(CodeInsufficientBalance, "balance too low").WithDetails(map[string]string{
		"available": "100",
		"requested": "150",
	})
	outer := fmt.Errorf("settle request: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through fmt wrapping")
	}
	if typed.Code() != CodeInsufficientBalance {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if typed.Details() == nil {
		t.Fatal("expected details to survive")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeConcurrency, "lot retries exhausted")
	if !IsCode(err, CodeConcurrency) {
		t.Fatal("expected IsCode match")
	}
	if IsCode(err, CodeConflict) {
		t.Fatal("unexpected IsCode match")
	}
	if IsCode(nil, CodeConflict) {
		t.Fatal("nil error must not match")
	}
}
