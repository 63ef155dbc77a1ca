package mix

import (
	"testing"

	"github.com/CarlosBinho/aquaplan/internal/catalog"
	"github.com/CarlosBinho/aquaplan/internal/config"
	"github.com/CarlosBinho/aquaplan/pkg/lp"
	"github.com/stretchr/testify/require"
)

func species(name string, feedCost, salePrice, fcr, cycleMonths, volumePerUnit float64) catalog.SpeciesRecord {
	return catalog.SpeciesRecord{
		Name:                name,
		FeedCostPerKg:       feedCost,
		SalePricePerKg:      salePrice,
		FeedConversionRatio: fcr,
		CycleDurationMonths: cycleMonths,
		VolumePerUnit:       volumePerUnit,
		UnitWeightKg:        1.0,
	}
}

func farm(capital, volume, minimumKg float64) config.FarmConstraints {
	return config.FarmConstraints{
		AvailableCapital: capital,
		AvailableVolume:  volume,
		MinimumOutputKg:  minimumKg,
	}
}

func TestOptimizeSingleSpecies(t *testing.T) {
	// Space binds at 500 units with margin 2 each.
	sol, err := NewOptimizer(nil, nil).Optimize(
		[]catalog.SpeciesRecord{species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0)},
		farm(10000, 500, 0),
		Options{},
	)
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	require.InDelta(t, 1000.0, sol.TotalProfit, 1e-6)
	require.Len(t, sol.Allocations, 1)
	require.InDelta(t, 500.0, sol.Allocations[0].Quantity, 1e-6)
	require.InDelta(t, 500.0, sol.TotalBiomassKg, 1e-6)
}

func TestOptimizeRespectsConstraints(t *testing.T) {
	catalogRecords := []catalog.SpeciesRecord{
		species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0),
		species("Tambaqui", 1.5, 6.0, 2.0, 8, 2.0),
		species("Carpa", 1.0, 3.5, 1.8, 10, 0.5),
	}
	constraints := farm(2000, 600, 0)

	sol, err := NewOptimizer(nil, nil).Optimize(catalogRecords, constraints, Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	require.LessOrEqual(t, sol.TotalCapitalUsed, constraints.AvailableCapital+1e-6)
	require.LessOrEqual(t, sol.TotalVolumeUsed, constraints.AvailableVolume+1e-6)
	require.Greater(t, sol.TotalProfit, 0.0)
}

func TestOptimizeInfeasibleMinimumTarget(t *testing.T) {
	// Space caps output at 500 kg; demanding 10000 kg cannot be met.
	sol, err := NewOptimizer(nil, nil).Optimize(
		[]catalog.SpeciesRecord{species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0)},
		farm(10000, 500, 10000),
		Options{},
	)
	require.NoError(t, err)
	require.Equal(t, lp.StatusInfeasible, sol.Status)
	require.Equal(t, 10000.0, sol.Constraints.MinimumOutputKg)
}

func TestOptimizeZeroTargetMatchesOmittedTarget(t *testing.T) {
	catalogRecords := []catalog.SpeciesRecord{
		species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0),
		species("Tambaqui", 1.5, 6.0, 2.0, 8, 2.0),
	}

	free, err := NewOptimizer(nil, nil).Optimize(catalogRecords, farm(2000, 600, 0), Options{})
	require.NoError(t, err)

	// A reachable explicit floor below the optimum must not move the objective.
	floored, err := NewOptimizer(nil, nil).Optimize(catalogRecords, farm(2000, 600, 1), Options{})
	require.NoError(t, err)

	require.Equal(t, lp.StatusOptimal, free.Status)
	require.Equal(t, lp.StatusOptimal, floored.Status)
	require.InDelta(t, free.TotalProfit, floored.TotalProfit, 1e-6)
}

func TestOptimizeMinimumTargetForcesProduction(t *testing.T) {
	// Margin is negative (sale below cost), so the free optimum is to farm
	// nothing; a floor forces lossy production instead.
	lossy := species("Lossy", 2.0, 2.5, 1.5, 6, 1.0)

	free, err := NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{lossy}, farm(10000, 500, 0), Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, free.Status)
	require.InDelta(t, 0.0, free.TotalProfit, 1e-9)
	require.Empty(t, free.Allocations)

	forced, err := NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{lossy}, farm(10000, 500, 100), Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, forced.Status)
	require.InDelta(t, -50.0, forced.TotalProfit, 1e-6) // 100 * (2.5 - 3.0)
}

func TestOptimizeIntegerUnits(t *testing.T) {
	// Capital of 10 buys 3.33 continuous units but only 3 whole ones.
	record := species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0)
	constraints := farm(10, 500, 0)

	continuous, err := NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{record}, constraints, Options{})
	require.NoError(t, err)
	require.InDelta(t, 10.0/3.0, continuous.Allocations[0].Quantity, 1e-6)

	integral, err := NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{record}, constraints, Options{IntegerUnits: true})
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, integral.Status)
	require.InDelta(t, 3.0, integral.Allocations[0].Quantity, 1e-6)
	require.True(t, integral.Constraints.IntegerUnits)
}

func TestOptimizeOverheadShrinksBudget(t *testing.T) {
	record := species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0)
	constraints := farm(1200, 5000, 0)
	constraints.FixedMonthlyCost = 100 // 600 over the 6-month horizon

	sol, err := NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{record}, constraints, Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	// Budget 600 buys 200 units: margin 400, minus 600 overhead.
	require.InDelta(t, 200.0, sol.Allocations[0].Quantity, 1e-6)
	require.InDelta(t, -200.0, sol.TotalProfit, 1e-6)
}

func TestOptimizeOverheadExceedsCapital(t *testing.T) {
	record := species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0)
	constraints := farm(100, 500, 0)
	constraints.FixedMonthlyCost = 100 // 600 over the horizon

	sol, err := NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{record}, constraints, Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status)
	require.Empty(t, sol.Allocations)

	constraints.MinimumOutputKg = 50
	sol, err = NewOptimizer(nil, nil).Optimize([]catalog.SpeciesRecord{record}, constraints, Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusInfeasible, sol.Status)
}

func TestOptimizeEmptyCatalog(t *testing.T) {
	_, err := NewOptimizer(nil, nil).Optimize(nil, farm(1000, 100, 0), Options{})
	require.Error(t, err)
}

type stubSolver struct {
	solution lp.Solution
	err      error
}

func (s stubSolver) Solve(lp.Problem) (lp.Solution, error) {
	return s.solution, s.err
}

func TestOptimizeSurfacesSolverVerdicts(t *testing.T) {
	record := species("Tilapia", 2.0, 5.0, 1.5, 6, 1.0)

	unbounded := NewOptimizer(nil, stubSolver{solution: lp.Solution{Status: lp.StatusUnbounded}})
	sol, err := unbounded.Optimize([]catalog.SpeciesRecord{record}, farm(1000, 100, 0), Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusUnbounded, sol.Status)

	failing := NewOptimizer(nil, stubSolver{solution: lp.Solution{Status: lp.StatusError}, err: lp.Problem{}.Validate()})
	sol, err = failing.Optimize([]catalog.SpeciesRecord{record}, farm(1000, 100, 0), Options{})
	require.NoError(t, err)
	require.Equal(t, lp.StatusError, sol.Status)
	require.NotEmpty(t, sol.Detail)
}
