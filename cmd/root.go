package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	calccmd "github.com/voltflow/voltflow-go/cmd/calc"
	downsamplecmd "github.com/voltflow/voltflow-go/cmd/downsample"
	optimizecmd "github.com/voltflow/voltflow-go/cmd/optimize"
	"github.com/voltflow/voltflow-go/internal/core"
	"github.com/voltflow/voltflow-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *core.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voltflow",
		Short: "VoltFlow CLI",
		Long:  "Voltage-drop and ampacity compliance calculator for electrical circuit design.",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, ctx)

	subcommands := []*cobra.Command{
		calccmd.Command(ctx),
		optimizecmd.Command(ctx),
		downsamplecmd.Command(ctx),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if ctx.Settings.Debug {
			logging.SetLevel(logging.LevelTrace)
		}
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *core.Context) error {
	rootCmd.PersistentFlags().BoolVarP(&ctx.Settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&ctx.Settings.Catalog.Path, "catalog", viper.GetString("catalog.path"), "Path to a conductor catalog override file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
