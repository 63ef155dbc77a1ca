// Package mix formulates the multi-species production plan as a linear
// program and delegates solving to the lp oracle. The formulation is the
// whole job: no retries, no model perturbation, verdicts surface verbatim.
package mix

import (
	"fmt"

	"github.com/CarlosBinho/aquaplan/internal/catalog"
	"github.com/CarlosBinho/aquaplan/internal/config"
	"github.com/CarlosBinho/aquaplan/pkg/lp"
	"go.uber.org/zap"
)

// Allocation is one species' share of the optimal mix.
type Allocation struct {
	Species     string  `json:"species"`
	Quantity    float64 `json:"quantity"`
	BiomassKg   float64 `json:"biomassKg"`
	CapitalUsed float64 `json:"capitalUsed"`
	VolumeUsed  float64 `json:"volumeUsed"`
}

// ConstraintSnapshot records the constraint values that produced the
// verdict, for diagnosability.
type ConstraintSnapshot struct {
	OperatingBudget float64 `json:"operatingBudget"`
	EffectiveVolume float64 `json:"effectiveVolume"`
	MinimumOutputKg float64 `json:"minimumOutputKg"`
	IntegerUnits    bool    `json:"integerUnits"`
}

// Solution is the optimizer's answer. Allocations and totals are only
// meaningful when Status is lp.StatusOptimal. The solver may assign
// minuscule quantities when marginal budget remains; those are surfaced
// as-is, and any cleanup is the caller's policy.
type Solution struct {
	Status lp.Status `json:"status"`

	// Detail carries the underlying solver error when Status is ERROR.
	Detail string `json:"detail,omitempty"`

	Allocations      []Allocation       `json:"allocations,omitempty"`
	TotalProfit      float64            `json:"totalProfit"`
	TotalCapitalUsed float64            `json:"totalCapitalUsed"`
	TotalVolumeUsed  float64            `json:"totalVolumeUsed"`
	TotalBiomassKg   float64            `json:"totalBiomassKg"`
	Constraints      ConstraintSnapshot `json:"constraints"`

	// PaybackMonths estimates recovery time over the mix's longest cycle;
	// zero when the mix never pays itself back.
	PaybackMonths float64 `json:"paybackMonths"`
}

// Options holds per-run optimizer options.
type Options struct {
	// IntegerUnits restricts quantities to whole production units.
	IntegerUnits bool
}

// Optimizer formulates and solves production mixes through an lp.Solver.
type Optimizer struct {
	logger *zap.Logger
	solver lp.Solver
}

// NewOptimizer constructs an Optimizer. A nil solver selects the default
// simplex oracle; a nil logger disables logging.
func NewOptimizer(logger *zap.Logger, solver lp.Solver) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if solver == nil {
		solver = lp.NewSimplexSolver()
	}
	return &Optimizer{logger: logger, solver: solver}
}

// Optimize finds the profit-maximizing production mix over the catalog under
// the farm constraints. Species and constraints must already be validated.
func (o *Optimizer) Optimize(species []catalog.SpeciesRecord, farm config.FarmConstraints, opts Options) (Solution, error) {
	if len(species) == 0 {
		return Solution{}, fmt.Errorf("mix: catalog contains no usable species")
	}

	effectiveVolume := farm.EffectiveVolume()
	maxCycle := longestCycle(species)
	// With overhead the whole planning horizon is the longest cycle; the
	// overhead for that horizon comes off the top of the budget.
	operatingBudget := farm.AvailableCapital - farm.FixedMonthlyCost*maxCycle
	snapshot := ConstraintSnapshot{
		OperatingBudget: operatingBudget,
		EffectiveVolume: effectiveVolume,
		MinimumOutputKg: farm.MinimumOutputKg,
		IntegerUnits:    opts.IntegerUnits,
	}

	if operatingBudget < 0 {
		// The LP would report this as infeasible anyway (capital row bound
		// below zero with non-negative variables), but only when a minimum
		// target forces production; answer uniformly instead.
		o.logger.Debug("overhead exceeds capital over the planning horizon",
			zap.String("op", "mix.Optimize"),
			zap.Float64("operatingBudget", operatingBudget),
		)
		if farm.MinimumOutputKg > 0 {
			return Solution{Status: lp.StatusInfeasible, Constraints: snapshot}, nil
		}
		operatingBudget = 0
		snapshot.OperatingBudget = 0
	}

	problem := formulate(species, operatingBudget, effectiveVolume, farm.MinimumOutputKg, opts.IntegerUnits)

	result, err := o.solver.Solve(problem)
	if err != nil {
		o.logger.Error("lp oracle failed",
			zap.String("op", "mix.Optimize"),
			zap.Error(err),
		)
		return Solution{Status: lp.StatusError, Detail: err.Error(), Constraints: snapshot}, nil
	}
	if result.Status != lp.StatusOptimal {
		o.logger.Info("mix has no optimum",
			zap.String("op", "mix.Optimize"),
			zap.String("status", string(result.Status)),
			zap.Float64("operatingBudget", operatingBudget),
			zap.Float64("effectiveVolume", effectiveVolume),
			zap.Float64("minimumOutputKg", farm.MinimumOutputKg),
		)
		return Solution{Status: result.Status, Constraints: snapshot}, nil
	}

	solution := assemble(species, result, snapshot, farm, maxCycle)

	o.logger.Info("mix optimized",
		zap.String("op", "mix.Optimize"),
		zap.Int("species", len(solution.Allocations)),
		zap.Float64("totalProfit", solution.TotalProfit),
		zap.Float64("totalBiomassKg", solution.TotalBiomassKg),
	)

	return solution, nil
}

// formulate builds the LP: maximize total contribution margin subject to the
// capital and space budgets, plus the minimum-output floor when one is set.
func formulate(species []catalog.SpeciesRecord, operatingBudget, effectiveVolume, minimumOutputKg float64, integer bool) lp.Problem {
	n := len(species)
	objective := make([]float64, n)
	capitalRow := make([]float64, n)
	volumeRow := make([]float64, n)
	outputRow := make([]float64, n)
	for i, record := range species {
		objective[i] = record.MarginPerUnit()
		capitalRow[i] = record.CostPerUnit()
		volumeRow[i] = record.VolumePerUnit
		outputRow[i] = record.SellableWeightPerUnit()
	}

	constraints := []lp.Constraint{
		{Coeffs: capitalRow, Sense: lp.LessEq, Bound: operatingBudget},
		{Coeffs: volumeRow, Sense: lp.LessEq, Bound: effectiveVolume},
	}
	// A zero target is omitted entirely rather than encoded as a >= 0 row,
	// which would be vacuous but could still force infeasibility on empty
	// catalogs.
	if minimumOutputKg > 0 {
		constraints = append(constraints, lp.Constraint{Coeffs: outputRow, Sense: lp.GreaterEq, Bound: minimumOutputKg})
	}

	return lp.Problem{
		Maximize:    true,
		Objective:   objective,
		Constraints: constraints,
		Integer:     integer,
	}
}

func assemble(species []catalog.SpeciesRecord, result lp.Solution, snapshot ConstraintSnapshot, farm config.FarmConstraints, maxCycle float64) Solution {
	solution := Solution{Status: lp.StatusOptimal, Constraints: snapshot}

	var allocatedCycle float64
	for i, record := range species {
		quantity := result.Values[i]
		if quantity <= 0 {
			continue
		}
		allocation := Allocation{
			Species:     record.Name,
			Quantity:    quantity,
			BiomassKg:   quantity * record.SellableWeightPerUnit(),
			CapitalUsed: quantity * record.CostPerUnit(),
			VolumeUsed:  quantity * record.VolumePerUnit,
		}
		solution.Allocations = append(solution.Allocations, allocation)
		solution.TotalCapitalUsed += allocation.CapitalUsed
		solution.TotalVolumeUsed += allocation.VolumeUsed
		solution.TotalBiomassKg += allocation.BiomassKg
		if record.CycleDurationMonths > allocatedCycle {
			allocatedCycle = record.CycleDurationMonths
		}
	}
	if allocatedCycle == 0 {
		allocatedCycle = maxCycle
	}
	// Net profit charges the fixed overhead over the mix's longest cycle
	// against the contribution margin the LP maximized.
	solution.TotalProfit = result.Objective - farm.FixedMonthlyCost*allocatedCycle

	totalCost := solution.TotalCapitalUsed + farm.FixedMonthlyCost*allocatedCycle
	monthlyProfit := solution.TotalProfit / allocatedCycle
	if monthlyProfit > 0 {
		solution.PaybackMonths = totalCost / monthlyProfit
	}

	return solution
}

func longestCycle(species []catalog.SpeciesRecord) float64 {
	var longest float64
	for _, record := range species {
		if record.CycleDurationMonths > longest {
			longest = record.CycleDurationMonths
		}
	}
	return longest
}
