package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "snapshot not found")
		if err.Error() != "[NOT_FOUND] snapshot not found" {
			t.Errorf("expected [NOT_FOUND] snapshot not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeReport, "render failed")
		expected := "[REPORT_ERROR] render failed: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxNode, "1:2")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatalf("expected DomainError, got %T", err)
		}
		if de.Code != CodeInternal || de.Context[CtxNode] != "1:2" {
			t.Fatalf("unexpected wrapped error: %+v", de)
		}
	})
}

func TestSelectionError(t *testing.T) {
	err := fmt.Errorf("scan: %w", NewSelectionError("Nothing selected", "Select at least one layer."))
	se, ok := AsSelection(err)
	if !ok {
		t.Fatal("expected selection error to unwrap")
	}
	if se.Title != "Nothing selected" {
		t.Fatalf("unexpected title %q", se.Title)
	}
	if !IsCode(err, CodeSelection) {
		t.Fatal("expected IsCode to match CodeSelection")
	}
	if IsCode(err, CodeReport) {
		t.Fatal("selection error must not match CodeReport")
	}
}
