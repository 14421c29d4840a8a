package errors

import (
	"strings"
	"testing"
)

func TestValidateChartID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"zero", "0", false},
		{"positive", "42", false},

		{"empty", "", true},
		{"negative", "-1", true},
		{"leading zero", "01", true},
		{"plus sign", "+1", true},
		{"letters", "abc", true},
		{"float", "1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidChartID) {
				t.Errorf("ValidateChartID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTabID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "1", false},
		{"word", "billing", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"space", "a b", true},
		{"slash", "a/b", true},
		{"control char", "a\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTabID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTabID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChartType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"known", "pie", false},
		{"unknown but well formed", "sparkline", false},

		{"empty", "", true},
		{"whitespace", "bar chart", true},
		{"too long", strings.Repeat("x", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidChartID,
		ErrCodeInvalidChartType,
		ErrCodeInvalidTabID,
		ErrCodeInvalidLayout,
		ErrCodeInvalidBreakpoint,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeTabNotFound,
		ErrCodeChartNotFound,
		ErrCodeStorage,
		ErrCodeNetwork,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
