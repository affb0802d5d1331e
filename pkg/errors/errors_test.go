package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
	if !stdErrors.Is(err, internal) {
		t.Fatal("expected wrapped error to match the internal error")
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test")
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestSentinelMatchingSurvivesWithInternal(t *testing.T) {
	err := ErrUniqueConstraintViolation.WithInternal(stdErrors.New("duplicate key"))

	if !stdErrors.Is(err, ErrUniqueConstraintViolation) {
		t.Fatal("expected copy to match its sentinel")
	}
	if stdErrors.Is(err, ErrForeignKeyViolation) {
		t.Fatal("expected copy not to match a different sentinel")
	}

	wrapped := fmt.Errorf("assign role: %w", err)
	if !stdErrors.Is(wrapped, ErrUniqueConstraintViolation) {
		t.Fatal("expected wrapped copy to match its sentinel")
	}
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("invalid payload")

	if err.Code != ErrBadRequest.Code {
		t.Fatalf("unexpected code: %s", err.Code)
	}
	if err.Message != "invalid payload" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if !stdErrors.Is(err, ErrBadRequest) {
		t.Fatal("expected bad request errors to match the sentinel")
	}
}
