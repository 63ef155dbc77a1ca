package validation

import (
	"fmt"

	"github.com/CarlosBinho/aquaplan/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateMode checks if the run mode is one of the supported modes.
func ValidateMode(mode string) error {
	if mode != constants.ModeRank && mode != constants.ModeMix && mode != constants.ModeAll {
		return fmt.Errorf("expected mode of %s, %s, or %s, got %s",
			constants.ModeRank, constants.ModeMix, constants.ModeAll, mode)
	}
	return nil
}
