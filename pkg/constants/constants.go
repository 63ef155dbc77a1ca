// Package constants provides shared constants for the aquaplan application.
package constants

// Rearing intensity factors applied to the aggregated tank volume. An
// extensive operation only safely stocks a fraction of the nominal capacity.
const (
	// ExtensiveFactor is the usable-volume fraction for extensive systems
	ExtensiveFactor = 0.10

	// SemiIntensiveFactor is the usable-volume fraction for semi-intensive systems
	SemiIntensiveFactor = 0.40

	// IntensiveFactor is the usable-volume fraction for intensive systems
	IntensiveFactor = 1.00
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 centavo)
	CurrencyTolerance = 0.01

	// QuantityTolerance is the tolerance for produced-quantity comparisons
	QuantityTolerance = 1e-6

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// KgPerTonne converts kilograms to tonnes for feed totals
	KgPerTonne = 1000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Run mode constants
const (
	// ModeRank runs only the per-species bottleneck ranking
	ModeRank = "rank"

	// ModeMix runs only the LP mix optimization
	ModeMix = "mix"

	// ModeAll runs both computations
	ModeAll = "all"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default plan configuration file name
	DefaultConfigFile = "plan.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the plan API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML plans (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
