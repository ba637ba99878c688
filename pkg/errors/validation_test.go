package errors

import (
	"strings"
	"testing"
)

func TestValidateEquatorialCount(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"one", 1, false},
		{"reference", 500, false},
		{"large", 100000, false},

		{"zero", 0, true},
		{"negative", -4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEquatorialCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEquatorialCount(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParameter) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidParameter)
			}
		})
	}
}

func TestParseEquatorialCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"plain", "500", 500, false},
		{"padded", " 42 ", 42, false},
		{"plus sign", "+7", 7, false},

		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"fraction", "12.5", 0, true},
		{"float form", "500.0", 0, true},
		{"word", "many", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEquatorialCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEquatorialCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidParameter) {
					t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidParameter)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseEquatorialCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "input/texture.png", false},
		{"absolute", "/tmp/sphere_cover.csv", false},
		{"dotted", "../xyz_points.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("csv", "csv", "json"); err != nil {
		t.Errorf("csv should be valid: %v", err)
	}
	err := ValidateFormat("CSV", "csv", "json")
	if err == nil {
		t.Fatal("formats are case-sensitive")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
	if !strings.Contains(err.Error(), "csv, json") {
		t.Errorf("message should list allowed formats: %v", err)
	}
}
