package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "package root not found")
		if err.Error() != "[NOT_FOUND] package root not found" {
			t.Errorf("expected [NOT_FOUND] package root not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected token")
		err := Wrap(original, CodeParseError, "syntax tree has errors")
		expected := "[PARSE_ERROR] syntax tree has errors: unexpected token"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid label format")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeNotSupported, "unsupported language"), CtxPath, "a.vue")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxPath] != "a.vue" {
			t.Errorf("expected path context, got %v", de.Context)
		}

		plain := AddContext(errors.New("boom"), CtxOperation, "write")
		if !IsCode(plain, CodeInternal) {
			t.Errorf("expected plain errors to be wrapped as internal, got %v", plain)
		}
	})
}
