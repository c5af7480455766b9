package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main-wall", false},
		{"valid with underscore", "imag_left", false},
		{"valid with dot", "roe.bp2v2", false},
		{"valid uuid", "0b7e6a3c-6f1e-4b7a-9d4f-3f2a1c9e8d7b", false},

		{"empty", "", true},
		{"too long", strings.Repeat("w", 200), true},
		{"slash", "stage/left", true},
		{"backslash", "stage\\left", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("wall", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive(ErrCodeInvalidWall, "unit_size_mm", 500); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, v := range []float64{0, -1} {
		err := ValidatePositive(ErrCodeInvalidWall, "unit_size_mm", v)
		if !Is(err, ErrCodeInvalidWall) {
			t.Errorf("ValidatePositive(%v) = %v, want INVALID_WALL", v, err)
		}
	}
}

func TestValidateAtLeast(t *testing.T) {
	if err := ValidateAtLeast(ErrCodeInvalidProcessor, "ports", 1, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAtLeast(ErrCodeInvalidProcessor, "ports", 0, 1); !Is(err, ErrCodeInvalidProcessor) {
		t.Errorf("ValidateAtLeast(0, 1) = %v, want INVALID_PROCESSOR", err)
	}
}

func TestValidatePercent(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{80, false},
		{100, false},
		{120, false},
		{0, true},
		{-5, true},
		{250, true},
	}

	for _, tt := range tests {
		err := ValidatePercent(ErrCodeInvalidOptions, "planning_threshold_percent", tt.v)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePercent(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf(ErrCodeInvalidOptions, "path_mode", "SNAKE_ROWS", "SNAKE_ROWS", "CUSTOM"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateOneOf(ErrCodeInvalidOptions, "path_mode", "ZIGZAG", "SNAKE_ROWS", "CUSTOM")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "SNAKE_ROWS, CUSTOM") {
		t.Errorf("error should list allowed values: %v", err)
	}
}
