package validation

import (
	"strings"
	"testing"
)

func TestValidateFarmConstraints(t *testing.T) {
	tests := []struct {
		name             string
		capital          float64
		volume           float64
		minimumKg        float64
		fixedMonthlyCost float64
		wantErr          bool
	}{
		{"All valid", 10000, 500, 0, 0, false},
		{"Zero everything is allowed", 0, 0, 0, 0, false},
		{"Negative capital", -1, 500, 0, 0, true},
		{"Negative volume", 10000, -0.5, 0, 0, true},
		{"Negative minimum output", 10000, 500, -10, 0, true},
		{"Negative fixed cost", 10000, 500, 0, -100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFarmConstraints(tt.capital, tt.volume, tt.minimumKg, tt.fixedMonthlyCost)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFarmConstraints() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConstraintWarnings(t *testing.T) {
	tests := []struct {
		name      string
		capital   float64
		volume    float64
		minimumKg float64
		expected  int
	}{
		{"No warnings", 10000, 500, 0, 0},
		{"Zero capital", 0, 500, 0, 1},
		{"Zero volume", 10000, 0, 0, 1},
		{"Zero capital with minimum target", 0, 500, 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ConstraintWarnings(tt.capital, tt.volume, tt.minimumKg)
			if len(warnings) != tt.expected {
				t.Errorf("ConstraintWarnings() produced %d warnings, expected %d: %v", len(warnings), tt.expected, warnings)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	if err := ValidateOutputFormat("pretty"); err != nil {
		t.Errorf("ValidateOutputFormat(pretty) error = %v", err)
	}
	if err := ValidateOutputFormat("csv"); err != nil {
		t.Errorf("ValidateOutputFormat(csv) error = %v", err)
	}
	err := ValidateOutputFormat("xml")
	if err == nil {
		t.Fatal("ValidateOutputFormat(xml) expected error")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("error should name the rejected format, got %v", err)
	}
}

func TestValidateMode(t *testing.T) {
	for _, mode := range []string{"rank", "mix", "all"} {
		if err := ValidateMode(mode); err != nil {
			t.Errorf("ValidateMode(%s) error = %v", mode, err)
		}
	}
	if err := ValidateMode("optimize"); err == nil {
		t.Error("ValidateMode(optimize) expected error")
	}
}
