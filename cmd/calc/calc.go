package calc

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltflow/voltflow-go/internal/calc"
	"github.com/voltflow/voltflow-go/internal/catalog"
	"github.com/voltflow/voltflow-go/internal/core"
)

// Command creates the calc command for evaluating a single circuit.
func Command(ctx *core.Context) *cobra.Command {
	var in calc.VoltageDropInputs
	var material, conduit, phase, circuitType string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Evaluate voltage drop and compliance for one circuit",
		Long:  "Evaluate voltage drop, power loss, ampacity adequacy and code compliance for a single circuit configuration, printing the result as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ConductorMaterial = catalog.Material(material)
			in.ConduitMaterial = calc.ConduitMaterial(conduit)
			in.PhaseConfiguration = calc.PhaseConfiguration(phase)
			in.Circuit.CircuitType = calc.CircuitType(circuitType)

			result, err := ctx.Evaluator.Evaluate(in)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	setupFlags(cmd, &in, &material, &conduit, &phase, &circuitType)
	return cmd
}

func setupFlags(cmd *cobra.Command, in *calc.VoltageDropInputs, material, conduit, phase, circuitType *string) {
	cmd.Flags().Float64VarP(&in.SystemVoltage, "voltage", "v", 230, "System voltage")
	cmd.Flags().Float64VarP(&in.LoadCurrent, "current", "i", 0, "Load current in amperes")
	cmd.Flags().Float64VarP(&in.ConductorLengthFt, "length", "l", 0, "One-way conductor length in feet")
	cmd.Flags().StringVarP(&in.ConductorSize, "size", "s", "", "Conductor size, e.g. \"12 AWG\"")
	cmd.Flags().StringVarP(material, "material", "m", "copper", "Conductor material: copper or aluminum")
	cmd.Flags().StringVar(conduit, "conduit", "PVC", "Conduit material: PVC, steel or aluminum")
	cmd.Flags().StringVar(phase, "phase", "single", "Phase configuration: single or three")
	cmd.Flags().Float64Var(&in.AmbientTemperatureC, "temperature", 30, "Ambient temperature in Celsius")
	cmd.Flags().Float64Var(&in.PowerFactor, "power-factor", 0, "Power factor, 0 to use the default")
	cmd.Flags().StringVar(circuitType, "circuit-type", "branch", "Circuit type: branch, feeder, service or motor")
	cmd.Flags().Float64Var(&in.Circuit.StartingCurrentMultiplier, "starting-multiplier", 0, "Motor starting current multiplier")
	cmd.Flags().BoolVar(&in.Circuit.HasVFD, "vfd", false, "Motor is driven by a VFD")
}
