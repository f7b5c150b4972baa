package errors

import (
	"testing"
)

func TestValidateProfileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "alpha", false},
		{"valid with dash", "logical-topo", false},
		{"valid with underscore", "logical_topo", false},
		{"valid with dot", "v1.2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal ..", "../etc", true},
		{"slash", "a/b", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProfileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePrefixName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"ex", false},
		{"dc11", false},
		{"my-ont", false},
		{"a.b", false},

		{"1ex", true},
		{"_ex", true},
		{"ex.", true},
		{"e x", true},
		{"ex:", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidatePrefixName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrefixName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeMalformedPrefix) {
				t.Errorf("ValidatePrefixName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeMalformedPrefix)
			}
		})
	}
}

func TestValidateNamespace(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"http://example.org/ont#", false},
		{"urn:example:", false},

		{"", true},
		{"http://example.org/a b", true},
		{"<http://example.org/>", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateNamespace(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNamespace(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
