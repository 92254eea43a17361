package downsample

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltflow/voltflow-go/internal/core"
	"github.com/voltflow/voltflow-go/internal/downsample"
	"github.com/voltflow/voltflow-go/internal/errors"
)

// Command creates the downsample command for reducing a voltage profile
// series read from a JSON file.
func Command(ctx *core.Context) *cobra.Command {
	var method string
	var points, width int
	var complexity float64

	cmd := &cobra.Command{
		Use:   "downsample [series.json]",
		Short: "Reduce a voltage profile series for charting",
		Long:  "Reduce a JSON array of {distance, voltage} points to a render-friendly count, preserving visual shape (lttb), extremes (minmax) or plain stride sampling (nth).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.New(err).
					Component("downsample-cmd").
					Category(errors.CategoryFileIO).
					Context("path", args[0]).
					Build()
			}

			var series []downsample.Point
			if err := json.Unmarshal(data, &series); err != nil {
				return errors.New(err).
					Component("downsample-cmd").
					Category(errors.CategorySerialization).
					Context("path", args[0]).
					Build()
			}

			threshold := points
			if threshold <= 0 {
				threshold = downsample.EstimateOptimalPointCount(width, complexity)
			}

			var reduced []downsample.Point
			switch method {
			case "lttb":
				reduced = downsample.LTTB(series, threshold)
			case "minmax":
				reduced = downsample.MinMax(series, threshold)
			case "nth":
				reduced = downsample.EveryNth(series, threshold)
			default:
				return errors.ValidationError("unknown method %q, expected lttb, minmax or nth", method)
			}

			ctx.Logger.Debug("series reduced",
				"method", method,
				"input_points", len(series),
				"output_points", len(reduced),
			)

			out, err := json.MarshalIndent(reduced, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "lttb", "Reduction method: lttb, minmax or nth")
	cmd.Flags().IntVarP(&points, "points", "n", 0, "Target point count, 0 to derive from width")
	cmd.Flags().IntVarP(&width, "width", "w", 800, "Chart container width in pixels")
	cmd.Flags().Float64VarP(&complexity, "complexity", "c", 1, "Data complexity factor for the point budget")

	return cmd
}
