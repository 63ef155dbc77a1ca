// Package config defines the data structures related to plan configuration
// and includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/CarlosBinho/aquaplan/internal/catalog"
	"github.com/CarlosBinho/aquaplan/pkg/constants"
	"github.com/CarlosBinho/aquaplan/pkg/validation"
	"github.com/spf13/viper"
)

// Rearing intensity levels. The level selects how much of the nominal tank
// volume the farm can actually stock.
const (
	IntensityExtensive     = "EXTENSIVE"
	IntensitySemiIntensive = "SEMI_INTENSIVE"
	IntensityIntensive     = "INTENSIVE"
)

// Configuration holds all configuration for an aquaplan run.
type Configuration struct {
	Farm      FarmConstraints         `yaml:"farm"`
	Catalog   CatalogConfig           `yaml:"catalog,omitempty"`
	Species   []catalog.SpeciesRecord `yaml:"species,omitempty"`
	Optimizer OptimizerConfig         `yaml:"optimizer,omitempty"`
	Logging   LoggingConfig           `yaml:"logging,omitempty"`
	Output    OutputConfig            `yaml:"output,omitempty"`
}

// FarmConstraints holds the farm-level resources and targets shared by the
// ranking engine and the mix optimizer.
type FarmConstraints struct {
	AvailableCapital float64 `yaml:"availableCapital"`

	// AvailableVolume is the aggregated water volume in m³. Alternatively the
	// farm may be described as TankCount tanks of TankVolume m³ each; when
	// both forms are present the explicit volume wins.
	AvailableVolume float64 `yaml:"availableVolume,omitempty"`
	TankCount       int     `yaml:"tankCount,omitempty"`
	TankVolume      float64 `yaml:"tankVolume,omitempty"`

	// MinimumOutputKg is the minimum total production target. Only the mix
	// optimizer consumes it.
	MinimumOutputKg float64 `yaml:"minimumOutputKg,omitempty"`

	// FixedMonthlyCost is overhead (power, labor) charged per cycle month.
	FixedMonthlyCost float64 `yaml:"fixedMonthlyCost,omitempty"`

	// Intensity is EXTENSIVE, SEMI_INTENSIVE, or INTENSIVE (the default).
	Intensity string `yaml:"intensity,omitempty"`
}

// CatalogConfig points at the species catalog file.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// OptimizerConfig holds mix optimizer options.
type OptimizerConfig struct {
	// IntegerUnits restricts the solver to whole production units. Solving
	// gets materially more expensive; the default is continuous quantities.
	IntegerUnits bool `yaml:"integerUnits,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// TotalVolume returns the aggregated tank volume in m³.
func (f FarmConstraints) TotalVolume() float64 {
	if f.AvailableVolume > 0 {
		return f.AvailableVolume
	}
	return float64(f.TankCount) * f.TankVolume
}

// IntensityFactor returns the usable-volume fraction for the configured
// rearing intensity. Unset defaults to intensive.
func (f FarmConstraints) IntensityFactor() (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(f.Intensity)) {
	case IntensityExtensive:
		return constants.ExtensiveFactor, nil
	case IntensitySemiIntensive:
		return constants.SemiIntensiveFactor, nil
	case IntensityIntensive, "":
		return constants.IntensiveFactor, nil
	default:
		return 0, fmt.Errorf("invalid intensity %q, expected %s, %s, or %s",
			f.Intensity, IntensityExtensive, IntensitySemiIntensive, IntensityIntensive)
	}
}

// EffectiveVolume returns the stockable volume after the intensity factor.
// Validate must have accepted the constraints first.
func (f FarmConstraints) EffectiveVolume() float64 {
	factor, err := f.IntensityFactor()
	if err != nil {
		return 0
	}
	return f.TotalVolume() * factor
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return unmarshalConfiguration(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory reader (used by the HTTP plan API).
func LoadConfigurationFromReader(reader io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return unmarshalConfiguration(v)
}

func unmarshalConfiguration(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Validate rejects constraint values the engines must never see. A non-nil
// error is fatal to the invocation.
func (c *Configuration) Validate() error {
	if err := validation.ValidateFarmConstraints(
		c.Farm.AvailableCapital,
		c.Farm.TotalVolume(),
		c.Farm.MinimumOutputKg,
		c.Farm.FixedMonthlyCost,
	); err != nil {
		return err
	}
	if c.Farm.TankCount < 0 {
		return fmt.Errorf("invalid constraint: tankCount must be non-negative, got %d", c.Farm.TankCount)
	}
	if c.Farm.TankVolume < 0 {
		return fmt.Errorf("invalid constraint: tankVolume must be non-negative, got %v", c.Farm.TankVolume)
	}
	if _, err := c.Farm.IntensityFactor(); err != nil {
		return err
	}
	if len(c.Species) == 0 && c.Catalog.Path == "" {
		return fmt.Errorf("no species catalog: provide catalog.path or an inline species list")
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	warnings := validation.ConstraintWarnings(
		c.Farm.AvailableCapital,
		c.Farm.EffectiveVolume(),
		c.Farm.MinimumOutputKg,
	)

	for _, species := range c.Species {
		record := species
		record.ApplyDefaults()
		if record.Validate() == nil && record.MarginPerUnit() <= 0 {
			warnings = append(warnings, fmt.Sprintf(
				"species %s has a non-positive contribution margin and can never profit", record.Name))
		}
	}

	return warnings
}
