// Package ranking implements the per-species bottleneck heuristic: for each
// species in isolation, how much could the farm produce, which resource caps
// it first, and what the cycle is worth.
package ranking

import (
	"fmt"
	"sort"

	"github.com/CarlosBinho/aquaplan/internal/catalog"
	"github.com/CarlosBinho/aquaplan/internal/config"
	"github.com/CarlosBinho/aquaplan/pkg/constants"
	"github.com/CarlosBinho/aquaplan/pkg/mathutil"
	"go.uber.org/zap"
)

// Bottleneck names the resource that caps a species' production.
type Bottleneck string

const (
	// BottleneckCapital means the farm runs out of money before space.
	BottleneckCapital Bottleneck = "CAPITAL"
	// BottleneckSpace means the farm runs out of tank volume before money.
	BottleneckSpace Bottleneck = "SPACE"
)

// Result holds the derived indicators for one species. Results are
// recomputed on every run; nothing here is persisted.
type Result struct {
	Species string

	// Viable is false when the species cannot be stocked at all, with the
	// reason reported alongside.
	Viable bool
	Reason string

	Bottleneck           Bottleneck
	CapitalBoundQuantity float64
	SpaceBoundQuantity   float64
	MaxQuantity          float64

	Revenue       float64
	TotalCost     float64
	Profit        float64
	MonthlyProfit float64

	// ROI is profit over cost; undefined when the cycle costs nothing.
	ROI        float64
	ROIDefined bool

	// PaybackMonths is the time for monthly profit to recover the cycle
	// cost; PaybackNever is set when the species never pays itself back.
	PaybackMonths float64
	PaybackNever  bool

	BreakEvenQuantity float64

	BiomassKg        float64
	OccupancyPercent float64
	FeedTonnes       float64
}

// Rank computes the bottleneck analysis for one species against the farm
// constraints. The inputs must already be validated; Rank is total over its
// domain and never produces Inf or NaN.
func Rank(species catalog.SpeciesRecord, farm config.FarmConstraints) Result {
	result := Result{Species: species.Name, Viable: true}

	cycleOverhead := farm.FixedMonthlyCost * species.CycleDurationMonths
	operatingBudget := farm.AvailableCapital - cycleOverhead
	if operatingBudget < 0 {
		result.Viable = false
		result.Reason = fmt.Sprintf("fixed costs of %.2f over the cycle exceed available capital", cycleOverhead)
		return result
	}

	result.CapitalBoundQuantity = operatingBudget / species.CostPerUnit()
	result.SpaceBoundQuantity = farm.EffectiveVolume() / species.VolumePerUnit

	result.MaxQuantity = mathutil.Min(result.CapitalBoundQuantity, result.SpaceBoundQuantity)
	// Ties favor CAPITAL: at the margin both resources bind equally, and the
	// convention must be explicit.
	if result.CapitalBoundQuantity <= result.SpaceBoundQuantity {
		result.Bottleneck = BottleneckCapital
	} else {
		result.Bottleneck = BottleneckSpace
	}

	result.BiomassKg = result.MaxQuantity * species.SellableWeightPerUnit()
	result.Revenue = result.BiomassKg * species.SalePricePerKg
	result.TotalCost = result.MaxQuantity*species.CostPerUnit() + cycleOverhead
	result.Profit = result.Revenue - result.TotalCost
	result.MonthlyProfit = result.Profit / species.CycleDurationMonths

	if result.TotalCost > 0 {
		result.ROI = result.Profit / result.TotalCost
		result.ROIDefined = true
	}

	if result.MonthlyProfit > 0 {
		result.PaybackMonths = result.TotalCost / result.MonthlyProfit
	} else {
		result.PaybackNever = true
	}

	result.BreakEvenQuantity = result.TotalCost / species.SalePricePerKg
	result.OccupancyPercent = mathutil.CalculatePercentage(result.MaxQuantity, result.SpaceBoundQuantity)
	result.FeedTonnes = result.MaxQuantity * species.FeedPerUnit() / constants.KgPerTonne

	return result
}

// RankAll ranks every species and orders viable results by descending
// monthly profit. The sort is stable, so catalog order breaks ties.
// Non-viable species trail the list in catalog order.
func RankAll(logger *zap.Logger, species []catalog.SpeciesRecord, farm config.FarmConstraints) []Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, 0, len(species))
	for _, record := range species {
		result := Rank(record, farm)
		if !result.Viable {
			logger.Debug("species not viable under current constraints",
				zap.String("op", "ranking.RankAll"),
				zap.String("species", result.Species),
				zap.String("reason", result.Reason),
			)
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Viable != results[j].Viable {
			return results[i].Viable
		}
		if !results[i].Viable {
			return false
		}
		return results[i].MonthlyProfit > results[j].MonthlyProfit
	})

	return results
}
