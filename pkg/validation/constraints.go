// Package validation provides boundary validation for user-supplied inputs.
package validation

import (
	"fmt"
)

// ValidateFarmConstraints rejects negative farm inputs. Validation errors are
// fatal to the invocation; the engines never see a negative constraint.
func ValidateFarmConstraints(availableCapital, availableVolume, minimumOutputKg, fixedMonthlyCost float64) error {
	if availableCapital < 0 {
		return fmt.Errorf("invalid constraint: availableCapital must be non-negative, got %v", availableCapital)
	}
	if availableVolume < 0 {
		return fmt.Errorf("invalid constraint: availableVolume must be non-negative, got %v", availableVolume)
	}
	if minimumOutputKg < 0 {
		return fmt.Errorf("invalid constraint: minimumOutputKg must be non-negative, got %v", minimumOutputKg)
	}
	if fixedMonthlyCost < 0 {
		return fmt.Errorf("invalid constraint: fixedMonthlyCost must be non-negative, got %v", fixedMonthlyCost)
	}
	return nil
}

// ConstraintWarnings reports non-fatal findings about farm constraints.
func ConstraintWarnings(availableCapital, availableVolume, minimumOutputKg float64) []string {
	var warnings []string

	if availableCapital == 0 {
		warnings = append(warnings, "availableCapital is zero - every species will cap at zero production")
	}
	if availableVolume == 0 {
		warnings = append(warnings, "availableVolume is zero - every species will cap at zero production")
	}
	if minimumOutputKg > 0 && (availableCapital == 0 || availableVolume == 0) {
		warnings = append(warnings, fmt.Sprintf("minimumOutputKg of %v cannot be met with a zero resource - the mix will be infeasible", minimumOutputKg))
	}

	return warnings
}
