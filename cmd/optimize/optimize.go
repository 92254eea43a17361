package optimize

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltflow/voltflow-go/internal/calc"
	"github.com/voltflow/voltflow-go/internal/catalog"
	"github.com/voltflow/voltflow-go/internal/core"
	"github.com/voltflow/voltflow-go/internal/optimizer"
)

// report is the JSON document the optimize command prints.
type report struct {
	Optimal        optimizer.SizeSearchResult `json:"optimal"`
	Recommendation optimizer.Recommendation   `json:"recommendation"`
	Comparison     []optimizer.CostBreakdown  `json:"comparison,omitempty"`
}

// Command creates the optimize command: minimum compliant size plus the
// five-year economic comparison.
func Command(ctx *core.Context) *cobra.Command {
	var in calc.VoltageDropInputs
	var material, conduit, phase, circuitType string
	var compare bool

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the optimal conductor size for a circuit",
		Long:  "Find the smallest conductor size meeting both the voltage-drop limit and the ampacity requirement, and weigh upsizing against energy savings over the analysis period.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ConductorMaterial = catalog.Material(material)
			in.ConduitMaterial = calc.ConduitMaterial(conduit)
			in.PhaseConfiguration = calc.PhaseConfiguration(phase)
			in.Circuit.CircuitType = calc.CircuitType(circuitType)

			econ := ctx.Economics()

			optimal, err := ctx.Optimizer.FindOptimalConductorSize(in)
			if err != nil {
				return err
			}
			recommendation, err := ctx.Optimizer.Recommend(in, econ)
			if err != nil {
				return err
			}

			out := report{Optimal: optimal, Recommendation: recommendation}

			if compare && !optimal.NoCompliantSizeFound {
				candidates := []string{optimal.Size}
				if next, ok := ctx.Catalog.NextSizeUp(optimal.Size); ok {
					candidates = append(candidates, next.Size)
				}
				conductors := 2
				if in.PhaseConfiguration == calc.PhaseThree {
					conductors = 3
				}
				comparison, err := ctx.Optimizer.CompareConductors(in, candidates, conductors, econ)
				if err != nil {
					return err
				}
				out.Comparison = comparison
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	setupFlags(cmd, &in, &material, &conduit, &phase, &circuitType, &compare)
	return cmd
}

func setupFlags(cmd *cobra.Command, in *calc.VoltageDropInputs, material, conduit, phase, circuitType *string, compare *bool) {
	cmd.Flags().Float64VarP(&in.SystemVoltage, "voltage", "v", 230, "System voltage")
	cmd.Flags().Float64VarP(&in.LoadCurrent, "current", "i", 0, "Load current in amperes")
	cmd.Flags().Float64VarP(&in.ConductorLengthFt, "length", "l", 0, "One-way conductor length in feet")
	cmd.Flags().StringVarP(&in.ConductorSize, "size", "s", "12 AWG", "Starting conductor size for the search")
	cmd.Flags().StringVarP(material, "material", "m", "copper", "Conductor material: copper or aluminum")
	cmd.Flags().StringVar(conduit, "conduit", "PVC", "Conduit material: PVC, steel or aluminum")
	cmd.Flags().StringVar(phase, "phase", "single", "Phase configuration: single or three")
	cmd.Flags().Float64Var(&in.AmbientTemperatureC, "temperature", 30, "Ambient temperature in Celsius")
	cmd.Flags().Float64Var(&in.PowerFactor, "power-factor", 0, "Power factor, 0 to use the default")
	cmd.Flags().StringVar(circuitType, "circuit-type", "branch", "Circuit type: branch, feeder, service or motor")
	cmd.Flags().Float64Var(&in.Circuit.StartingCurrentMultiplier, "starting-multiplier", 0, "Motor starting current multiplier")
	cmd.Flags().BoolVar(compare, "compare", false, "Include the cost comparison against the next size up")
}
