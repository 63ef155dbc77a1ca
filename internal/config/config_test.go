package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPlanYAML = `farm:
  availableCapital: 10000
  tankCount: 5
  tankVolume: 100
  minimumOutputKg: 0
  fixedMonthlyCost: 0
  intensity: INTENSIVE
optimizer:
  integerUnits: false
species:
  - name: Tilapia
    feedCostPerKg: 2.0
    salePricePerKg: 5.0
    feedConversionRatio: 1.5
    cycleDurationMonths: 6
    volumePerUnit: 1.0
logging:
  level: debug
  format: console
output:
  format: pretty
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write plan: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writePlan(t, testPlanYAML))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Farm.AvailableCapital != 10000 {
		t.Errorf("AvailableCapital = %v, expected 10000", conf.Farm.AvailableCapital)
	}
	if got := conf.Farm.TotalVolume(); got != 500 {
		t.Errorf("TotalVolume() = %v, expected 500", got)
	}
	if len(conf.Species) != 1 || conf.Species[0].Name != "Tilapia" {
		t.Fatalf("Species = %+v, expected one Tilapia entry", conf.Species)
	}
	if conf.Logging.Level != "debug" || conf.Output.Format != "pretty" {
		t.Errorf("ambient config parsed wrong: %+v %+v", conf.Logging, conf.Output)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(testPlanYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Farm.TankCount != 5 {
		t.Errorf("TankCount = %d, expected 5", conf.Farm.TankCount)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error for missing file")
	}
}

func TestTotalVolumeExplicitWins(t *testing.T) {
	farm := FarmConstraints{AvailableVolume: 750, TankCount: 5, TankVolume: 100}
	if got := farm.TotalVolume(); got != 750 {
		t.Errorf("TotalVolume() = %v, expected explicit 750", got)
	}
}

func TestIntensityFactor(t *testing.T) {
	tests := []struct {
		name      string
		intensity string
		expected  float64
		wantErr   bool
	}{
		{"Extensive", "EXTENSIVE", 0.10, false},
		{"Semi-intensive", "SEMI_INTENSIVE", 0.40, false},
		{"Intensive", "INTENSIVE", 1.00, false},
		{"Default is intensive", "", 1.00, false},
		{"Lowercase accepted", "extensive", 0.10, false},
		{"Unknown rejected", "HYPER", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			farm := FarmConstraints{Intensity: tt.intensity}
			factor, err := farm.IntensityFactor()
			if (err != nil) != tt.wantErr {
				t.Fatalf("IntensityFactor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(factor-tt.expected) > 1e-12 {
				t.Errorf("IntensityFactor() = %v, expected %v", factor, tt.expected)
			}
		})
	}
}

func TestEffectiveVolume(t *testing.T) {
	farm := FarmConstraints{TankCount: 10, TankVolume: 100, Intensity: "SEMI_INTENSIVE"}
	if got := farm.EffectiveVolume(); math.Abs(got-400) > 1e-9 {
		t.Errorf("EffectiveVolume() = %v, expected 400", got)
	}
}

func TestValidateRejectsNegativeConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"Negative capital", func(c *Configuration) { c.Farm.AvailableCapital = -1 }},
		{"Negative minimum output", func(c *Configuration) { c.Farm.MinimumOutputKg = -5 }},
		{"Negative fixed cost", func(c *Configuration) { c.Farm.FixedMonthlyCost = -10 }},
		{"Negative tank count", func(c *Configuration) { c.Farm.TankCount = -1 }},
		{"Negative tank volume", func(c *Configuration) { c.Farm.TankVolume = -1 }},
		{"Bad intensity", func(c *Configuration) { c.Farm.Intensity = "ULTRA" }},
		{"No catalog at all", func(c *Configuration) { c.Species = nil; c.Catalog.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfigurationFromReader(strings.NewReader(testPlanYAML))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(conf)
			if err := conf.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(testPlanYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	conf.Farm.AvailableCapital = 0
	if warnings := conf.ValidateConfiguration(); len(warnings) == 0 {
		t.Error("expected a warning for zero capital")
	}

	conf.Farm.AvailableCapital = 10000
	conf.Species[0].SalePricePerKg = 1.0 // below production cost
	if warnings := conf.ValidateConfiguration(); len(warnings) == 0 {
		t.Error("expected a warning for a species that can never profit")
	}
}
