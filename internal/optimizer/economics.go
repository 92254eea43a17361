package optimizer

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/voltflow/voltflow-go/internal/calc"
	"github.com/voltflow/voltflow-go/internal/catalog"
	"github.com/voltflow/voltflow-go/internal/errors"
)

// Economics holds the parameters for conductor cost comparisons.
type Economics struct {
	EnergyPricePerKWh     float64
	OperatingHoursPerYear float64
	AnalysisYears         int
	PaybackHorizonYears   float64
	BaseInstallationCost  float64
	BaselineAreaCMil      float64
	MaterialCostPerCMilFt map[catalog.Material]float64
}

// DefaultEconomics returns the comparison defaults.
func DefaultEconomics() Economics {
	return Economics{
		EnergyPricePerKWh:     0.12,
		OperatingHoursPerYear: 4000,
		AnalysisYears:         5,
		PaybackHorizonYears:   3,
		BaseInstallationCost:  500,
		BaselineAreaCMil:      10380, // 10 AWG
		MaterialCostPerCMilFt: map[catalog.Material]float64{
			catalog.MaterialCopper:   0.000012,
			catalog.MaterialAluminum: 0.000004,
		},
	}
}

// PaybackPeriod is the time for a larger conductor to recover its extra
// capital cost through lower losses. Never is set when the larger conductor
// saves nothing, replacing the old magic "999 years" sentinel.
type PaybackPeriod struct {
	Years decimal.Decimal `json:"years"`
	Never bool            `json:"never"`
}

// CostBreakdown is the economic evaluation of one candidate conductor size.
// Money amounts use decimals to keep comparison arithmetic exact.
type CostBreakdown struct {
	Size                 string          `json:"size"`
	AreaCMil             float64         `json:"areaCMil"`
	MaterialCost         decimal.Decimal `json:"materialCost"`
	InstallationCost     decimal.Decimal `json:"installationCost"`
	AnnualOperatingCost  decimal.Decimal `json:"annualOperatingCost"`
	TotalCostOfOwnership decimal.Decimal `json:"totalCostOfOwnership"`
	DropPercent          float64         `json:"dropPercent"`
	Compliant            bool            `json:"compliant"`
	PowerLossW           float64         `json:"powerLossW"`

	// Payback relative to the smallest candidate; zero value for the
	// smallest candidate itself.
	Payback PaybackPeriod `json:"payback"`
}

// CapitalCost returns material plus installation cost.
func (cb *CostBreakdown) CapitalCost() decimal.Decimal {
	return cb.MaterialCost.Add(cb.InstallationCost)
}

// CompareConductors evaluates the candidate sizes economically. Candidates
// are assessed at the circuit described by inputs; conductorCount is the
// number of current-carrying conductors priced into the material cost.
// The returned breakdowns are ordered as the candidates were given, with
// payback computed against the first (smallest) candidate.
func (o *Optimizer) CompareConductors(inputs calc.VoltageDropInputs, candidates []string, conductorCount int, econ Economics) ([]CostBreakdown, error) {
	if len(candidates) == 0 {
		return nil, errors.ValidationError("at least one candidate size is required")
	}
	if conductorCount <= 0 {
		return nil, errors.ValidationError("conductor count must be positive, got %d", conductorCount)
	}

	costPerCMilFt, ok := econ.MaterialCostPerCMilFt[inputs.ConductorMaterial]
	if !ok {
		return nil, errors.ValidationError("no material cost configured for %q", inputs.ConductorMaterial)
	}

	breakdowns := make([]CostBreakdown, 0, len(candidates))
	for _, size := range candidates {
		entry, err := o.engine.Catalog().Lookup(size)
		if err != nil {
			return nil, err
		}

		in := inputs
		in.ConductorSize = size
		result, err := o.engine.Evaluate(in)
		if err != nil {
			return nil, err
		}

		materialCost := decimal.NewFromFloat(costPerCMilFt).
			Mul(decimal.NewFromFloat(entry.AreaCMil)).
			Mul(decimal.NewFromFloat(inputs.ConductorLengthFt)).
			Mul(decimal.NewFromInt(int64(conductorCount)))

		// Installation effort grows slowly with conductor area.
		installFactor := 0.8 + 0.4*math.Log(entry.AreaCMil/econ.BaselineAreaCMil+0.5)
		installationCost := decimal.NewFromFloat(econ.BaseInstallationCost).
			Mul(decimal.NewFromFloat(installFactor))

		annualOperatingCost := decimal.NewFromFloat(result.ResistiveLossW / 1000).
			Mul(decimal.NewFromFloat(econ.OperatingHoursPerYear)).
			Mul(decimal.NewFromFloat(econ.EnergyPricePerKWh))

		tco := materialCost.Add(installationCost).
			Add(annualOperatingCost.Mul(decimal.NewFromInt(int64(econ.AnalysisYears))))

		breakdowns = append(breakdowns, CostBreakdown{
			Size:                 size,
			AreaCMil:             entry.AreaCMil,
			MaterialCost:         materialCost,
			InstallationCost:     installationCost,
			AnnualOperatingCost:  annualOperatingCost,
			TotalCostOfOwnership: tco,
			DropPercent:          result.VoltageDropPercent,
			Compliant:            result.IsCompliant(),
			PowerLossW:           result.ResistiveLossW,
		})
	}

	// Payback for each candidate against the first one.
	base := breakdowns[0]
	for i := 1; i < len(breakdowns); i++ {
		breakdowns[i].Payback = payback(&base, &breakdowns[i])
	}

	return breakdowns, nil
}

// payback computes how long the larger conductor takes to recover its extra
// capital cost through reduced operating cost.
func payback(smaller, larger *CostBreakdown) PaybackPeriod {
	extraCapital := larger.CapitalCost().Sub(smaller.CapitalCost())
	annualSavings := smaller.AnnualOperatingCost.Sub(larger.AnnualOperatingCost)

	if annualSavings.LessThanOrEqual(decimal.Zero) {
		return PaybackPeriod{Never: true}
	}
	if extraCapital.LessThanOrEqual(decimal.Zero) {
		// Larger conductor is not more expensive: pays back immediately.
		return PaybackPeriod{Years: decimal.Zero}
	}
	return PaybackPeriod{Years: extraCapital.DivRound(annualSavings, 4)}
}

// Recommendation is the optimizer's conductor choice with its reasoning.
type Recommendation struct {
	Size          string        `json:"size"`
	Justification string        `json:"justification"`
	Payback       PaybackPeriod `json:"payback"`
	Upsized       bool          `json:"upsized"`
}

// Recommend picks the conductor for the circuit: the smallest compliant size
// unless a larger compliant size pays back its extra capital cost within the
// configured horizon.
func (o *Optimizer) Recommend(inputs calc.VoltageDropInputs, econ Economics) (Recommendation, error) {
	optimal, err := o.FindOptimalConductorSize(inputs)
	if err != nil {
		return Recommendation{}, err
	}
	if optimal.NoCompliantSizeFound {
		return Recommendation{
			Size: optimal.Size,
			Justification: fmt.Sprintf(
				"No catalog size satisfies the circuit; %s is the largest available. Consider parallel conductors or a layout change.",
				optimal.Size),
		}, nil
	}

	// Candidates: the optimal size and every larger catalog size.
	var candidates []string
	for _, entry := range o.engine.Catalog().Entries() {
		if entry.AreaCMil >= optimal.AreaCMil {
			candidates = append(candidates, entry.Size)
		}
	}

	breakdowns, err := o.CompareConductors(inputs, candidates, conductorsPerRun(inputs), econ)
	if err != nil {
		return Recommendation{}, err
	}

	best := Recommendation{
		Size: optimal.Size,
		Justification: fmt.Sprintf(
			"%s is the smallest size satisfying both the %.1f%% drop limit and the ampacity requirement.",
			optimal.Size, o.engine.Limits().ForCircuit(inputs.Circuit.CircuitType)),
	}

	horizon := decimal.NewFromFloat(econ.PaybackHorizonYears)
	for i := 1; i < len(breakdowns); i++ {
		candidate := &breakdowns[i]
		if !candidate.Compliant || candidate.Payback.Never {
			continue
		}
		if candidate.Payback.Years.LessThan(horizon) {
			annualSavings := breakdowns[0].AnnualOperatingCost.Sub(candidate.AnnualOperatingCost)
			best = Recommendation{
				Size: candidate.Size,
				Justification: fmt.Sprintf(
					"Upsizing to %s saves %s per year in losses and pays back its extra cost in %s years.",
					candidate.Size,
					annualSavings.StringFixed(2),
					candidate.Payback.Years.StringFixed(1)),
				Payback: candidate.Payback,
				Upsized: true,
			}
			break
		}
	}

	return best, nil
}

// conductorsPerRun returns the number of current-carrying conductors priced
// into a run: two for single-phase, three for three-phase.
func conductorsPerRun(inputs calc.VoltageDropInputs) int {
	if inputs.PhaseConfiguration == calc.PhaseThree {
		return 3
	}
	return 2
}
