// Package output provides utilities for formatting and displaying planning results.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CarlosBinho/aquaplan/internal/mix"
	"github.com/CarlosBinho/aquaplan/internal/ranking"
	"github.com/CarlosBinho/aquaplan/pkg/format"
	"github.com/CarlosBinho/aquaplan/pkg/lp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable report of the ranking and, when
// present, the optimal mix.
func PrettyFormat(rankings []ranking.Result, solution *mix.Solution) {
	WritePretty(os.Stdout, rankings, solution)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(rankings []ranking.Result, solution *mix.Solution) {
	_, _ = fmt.Fprint(os.Stdout, CsvString(rankings, solution))
}

// WritePretty renders the human-readable report to a writer.
func WritePretty(w io.Writer, rankings []ranking.Result, solution *mix.Solution) {
	p := message.NewPrinter(language.BrazilianPortuguese)

	if len(rankings) > 0 {
		fmt.Fprintf(w, "--- Single-species ranking (monoculture) ---\n")
		fmt.Fprintf(w, "Rank | Species              | Monthly Profit   | ROI     | Bottleneck | Investment\n")
		fmt.Fprintf(w, "____ | ____________________ | ________________ | _______ | __________ | __________\n")
		rank := 0
		for _, result := range rankings {
			if !result.Viable {
				continue
			}
			rank++
			fmt.Fprintf(w, "%4d | %-20s | %-16s | %-7s | %-10s | %s\n",
				rank,
				result.Species,
				format.Currency(result.MonthlyProfit),
				roiString(result),
				result.Bottleneck,
				format.Currency(result.TotalCost),
			)
		}
		for _, result := range rankings {
			if result.Viable {
				continue
			}
			fmt.Fprintf(w, "   - | %-20s | not viable: %s\n", result.Species, result.Reason)
		}

		for _, result := range rankings {
			if !result.Viable {
				continue
			}
			fmt.Fprintf(w, "\n=== %s ===\n", strings.ToUpper(result.Species))
			_, _ = p.Fprintf(w, "  Max production:   %.1f units (%.1f kg sellable, %s occupancy)\n",
				result.MaxQuantity, result.BiomassKg, format.Percent(result.OccupancyPercent))
			fmt.Fprintf(w, "  Bottleneck:       %s\n", bottleneckDescription(result.Bottleneck))
			fmt.Fprintf(w, "  Revenue:          %s\n", format.Currency(result.Revenue))
			fmt.Fprintf(w, "  Total cost:       %s\n", format.Currency(result.TotalCost))
			fmt.Fprintf(w, "  Profit:           %s (%s/month)\n",
				format.Currency(result.Profit), format.Currency(result.MonthlyProfit))
			fmt.Fprintf(w, "  ROI:              %s\n", roiString(result))
			fmt.Fprintf(w, "  Payback:          %s\n", paybackString(result.PaybackMonths, result.PaybackNever))
			_, _ = p.Fprintf(w, "  Break-even:       %.1f kg to cover costs\n", result.BreakEvenQuantity)
			_, _ = p.Fprintf(w, "  Feed required:    %.2f t\n", result.FeedTonnes)
		}
	}

	if solution != nil {
		fmt.Fprintf(w, "\n--- Optimal production mix ---\n")
		switch solution.Status {
		case lp.StatusOptimal:
			for _, allocation := range solution.Allocations {
				_, _ = p.Fprintf(w, "  %10.1f units of %-20s (%.1f kg, %s capital, %.1f m³)\n",
					allocation.Quantity, allocation.Species, allocation.BiomassKg,
					format.Currency(allocation.CapitalUsed), allocation.VolumeUsed)
			}
			_, _ = p.Fprintf(w, "  Total production: %.1f kg\n", solution.TotalBiomassKg)
			fmt.Fprintf(w, "  Total profit:     %s\n", format.Currency(solution.TotalProfit))
			fmt.Fprintf(w, "  Capital used:     %s\n", format.Currency(solution.TotalCapitalUsed))
			_, _ = p.Fprintf(w, "  Volume used:      %.1f m³\n", solution.TotalVolumeUsed)
			if solution.PaybackMonths > 0 {
				_, _ = p.Fprintf(w, "  Payback:          %.1f months\n", solution.PaybackMonths)
			}
		case lp.StatusInfeasible:
			fmt.Fprintf(w, "  INFEASIBLE: the minimum target of %.1f kg cannot be met with capital %s and volume %.1f m³.\n",
				solution.Constraints.MinimumOutputKg,
				format.Currency(solution.Constraints.OperatingBudget),
				solution.Constraints.EffectiveVolume)
			fmt.Fprintf(w, "  Reduce the target or increase the constrained resources.\n")
		case lp.StatusUnbounded:
			fmt.Fprintf(w, "  UNBOUNDED: the model admits unlimited profit; the constraint data is suspect.\n")
		default:
			fmt.Fprintf(w, "  SOLVER ERROR: %s\n", solution.Detail)
		}
	}
}

// CsvString renders the results in comma-separated value format.
func CsvString(rankings []ranking.Result, solution *mix.Solution) string {
	var builder strings.Builder

	if len(rankings) > 0 {
		builder.WriteString(`"species","viable","bottleneck","maxQuantity","revenue","totalCost","profit","monthlyProfit","roi","paybackMonths","breakEvenQuantity"` + "\n")
		for _, result := range rankings {
			if !result.Viable {
				fmt.Fprintf(&builder, `"%s","false","","","","","","","","",""`+"\n", result.Species)
				continue
			}
			fmt.Fprintf(&builder, `"%s","true","%s","%.2f","%.2f","%.2f","%.2f","%.2f","%s","%s","%.2f"`+"\n",
				result.Species,
				result.Bottleneck,
				result.MaxQuantity,
				result.Revenue,
				result.TotalCost,
				result.Profit,
				result.MonthlyProfit,
				csvROI(result),
				csvPayback(result),
				result.BreakEvenQuantity,
			)
		}
	}

	if solution != nil {
		builder.WriteString(`"mixStatus","species","quantity","biomassKg","capitalUsed","volumeUsed"` + "\n")
		if solution.Status == lp.StatusOptimal {
			for _, allocation := range solution.Allocations {
				fmt.Fprintf(&builder, `"%s","%s","%.2f","%.2f","%.2f","%.2f"`+"\n",
					solution.Status, allocation.Species, allocation.Quantity,
					allocation.BiomassKg, allocation.CapitalUsed, allocation.VolumeUsed)
			}
		} else {
			fmt.Fprintf(&builder, `"%s","","","","",""`+"\n", solution.Status)
		}
	}

	return builder.String()
}

func roiString(result ranking.Result) string {
	if !result.ROIDefined {
		return "n/a"
	}
	return format.Percent(result.ROI * 100)
}

func csvROI(result ranking.Result) string {
	if !result.ROIDefined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", result.ROI)
}

func paybackString(months float64, never bool) string {
	if never {
		return "never"
	}
	return fmt.Sprintf("%.1f months", months)
}

func csvPayback(result ranking.Result) string {
	if result.PaybackNever {
		return "never"
	}
	return fmt.Sprintf("%.1f", result.PaybackMonths)
}

func bottleneckDescription(bottleneck ranking.Bottleneck) string {
	if bottleneck == ranking.BottleneckCapital {
		return "CAPITAL (tank space left idle)"
	}
	return "SPACE (capital left over)"
}
