package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("bounding_box", "must be four integers on the 0-1000 normalized scale", []int{0, 0, 0})

	if err.Field != "bounding_box" {
		t.Errorf("Expected field to be 'bounding_box', got '%s'", err.Field)
	}

	expected := "validation error on field 'bounding_box': must be four integers on the 0-1000 normalized scale"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	// Empty collection
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	// Single error
	errs = append(errs, *NewValidationError("option_id", "must be a single uppercase letter (A-Z)", "ab"))
	expected := "validation failed: option_id must be a single uppercase letter (A-Z)"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	// Multiple errors
	errs = append(errs, *NewValidationError("page_number", "must be a 1-based page number", 0))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("correct_option_id", "is required", "required", nil)

	if err.Rule != "required" {
		t.Errorf("Expected rule to be 'required', got '%s'", err.Rule)
	}

	if err.Field != "correct_option_id" {
		t.Errorf("Expected field to be 'correct_option_id', got '%s'", err.Field)
	}
}
