// Package catalog defines the species data model and loads species records
// from tabular sources (inline YAML, CSV, XLSX), validating each row and
// reporting rejects with their reasons.
package catalog

import (
	"fmt"
)

// SpeciesRecord is one row of the species catalog: the economic and
// biological parameters of a single farmable species.
//
// A production unit is one kilogram of sellable fish unless UnitWeightKg says
// otherwise, in which case a unit is one fish of that final weight.
type SpeciesRecord struct {
	Name                string  `csv:"name" mapstructure:"name" yaml:"name"`
	FeedCostPerKg       float64 `csv:"feedCostPerKg" mapstructure:"feedCostPerKg" yaml:"feedCostPerKg"`
	SalePricePerKg      float64 `csv:"salePricePerKg" mapstructure:"salePricePerKg" yaml:"salePricePerKg"`
	FeedConversionRatio float64 `csv:"feedConversionRatio" mapstructure:"feedConversionRatio" yaml:"feedConversionRatio"`
	CycleDurationMonths float64 `csv:"cycleDurationMonths" mapstructure:"cycleDurationMonths" yaml:"cycleDurationMonths"`
	VolumePerUnit       float64 `csv:"volumePerUnit" mapstructure:"volumePerUnit" yaml:"volumePerUnit"`

	// SeedCostPerUnit is the fingerling cost per stocked unit. Optional.
	SeedCostPerUnit float64 `csv:"seedCostPerUnit" mapstructure:"seedCostPerUnit" yaml:"seedCostPerUnit"`

	// UnitWeightKg is the sellable weight of one production unit. Optional;
	// defaults to 1 so quantities are expressed directly in kilograms.
	UnitWeightKg float64 `csv:"unitWeightKg" mapstructure:"unitWeightKg" yaml:"unitWeightKg"`

	// MortalityRate is the expected loss fraction over a cycle, in [0, 1).
	// Optional; defaults to 0.
	MortalityRate float64 `csv:"mortalityRate" mapstructure:"mortalityRate" yaml:"mortalityRate"`
}

// ApplyDefaults fills optional fields that were left at their zero value.
func (s *SpeciesRecord) ApplyDefaults() {
	if s.UnitWeightKg == 0 {
		s.UnitWeightKg = 1
	}
}

// Validate reports the first reason the record is unusable, or nil. Callers
// must ApplyDefaults first.
func (s SpeciesRecord) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("species name is required")
	}
	if s.FeedCostPerKg <= 0 {
		return fmt.Errorf("species %s: feedCostPerKg must be positive, got %v", s.Name, s.FeedCostPerKg)
	}
	if s.SalePricePerKg <= 0 {
		return fmt.Errorf("species %s: salePricePerKg must be positive, got %v", s.Name, s.SalePricePerKg)
	}
	if s.FeedConversionRatio <= 0 {
		return fmt.Errorf("species %s: feedConversionRatio must be positive, got %v", s.Name, s.FeedConversionRatio)
	}
	if s.CycleDurationMonths <= 0 {
		return fmt.Errorf("species %s: cycleDurationMonths must be positive, got %v", s.Name, s.CycleDurationMonths)
	}
	if s.VolumePerUnit <= 0 {
		return fmt.Errorf("species %s: volumePerUnit must be positive, got %v", s.Name, s.VolumePerUnit)
	}
	if s.SeedCostPerUnit < 0 {
		return fmt.Errorf("species %s: seedCostPerUnit must be non-negative, got %v", s.Name, s.SeedCostPerUnit)
	}
	if s.UnitWeightKg <= 0 {
		return fmt.Errorf("species %s: unitWeightKg must be positive, got %v", s.Name, s.UnitWeightKg)
	}
	if s.MortalityRate < 0 || s.MortalityRate >= 1 {
		return fmt.Errorf("species %s: mortalityRate must be in [0, 1), got %v", s.Name, s.MortalityRate)
	}
	return nil
}

// FeedPerUnit returns the kilograms of feed one production unit consumes.
func (s SpeciesRecord) FeedPerUnit() float64 {
	return s.FeedConversionRatio * s.UnitWeightKg
}

// CostPerUnit returns the variable cost of producing one unit: feed plus
// fingerling.
func (s SpeciesRecord) CostPerUnit() float64 {
	return s.FeedCostPerKg*s.FeedPerUnit() + s.SeedCostPerUnit
}

// SellableWeightPerUnit returns the expected sellable kilograms per stocked
// unit after mortality.
func (s SpeciesRecord) SellableWeightPerUnit() float64 {
	return s.UnitWeightKg * (1 - s.MortalityRate)
}

// MarginPerUnit returns the contribution margin of one unit: expected revenue
// minus variable cost.
func (s SpeciesRecord) MarginPerUnit() float64 {
	return s.SalePricePerKg*s.SellableWeightPerUnit() - s.CostPerUnit()
}
