// defaults.go: default values for the configuration parameters, applied
// through viper before the config file is read.
package conf

import "github.com/spf13/viper"

// setDefaultConfig sets the default values for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main settings
	viper.SetDefault("main.name", "voltflow")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "voltflow.log")
	viper.SetDefault("main.log.maxsizemb", 100)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxagedays", 28)

	// Compliance limits, percent of system voltage
	viper.SetDefault("compliance.branchmaxdroppercent", 3.0)
	viper.SetDefault("compliance.feedermaxdroppercent", 5.0)
	viper.SetDefault("compliance.servicemaxdroppercent", 5.0)
	viper.SetDefault("compliance.motormaxdroppercent", 3.0)

	// Economics defaults for conductor comparisons
	viper.SetDefault("economics.energypriceperkwh", 0.12)
	viper.SetDefault("economics.operatinghoursperyear", 4000.0)
	viper.SetDefault("economics.analysisyears", 5)
	viper.SetDefault("economics.paybackhorizonyears", 3.0)
	viper.SetDefault("economics.baseinstallationcost", 500.0)
	viper.SetDefault("economics.baselineareacmil", 10380.0) // 10 AWG
	viper.SetDefault("economics.coppercostpercmilft", 0.000012)
	viper.SetDefault("economics.aluminumcostpercmilft", 0.000004)

	// Chart downsampling defaults
	viper.SetDefault("downsampling.pixelsperpoint", 10)
	viper.SetDefault("downsampling.minpoints", 20)
	viper.SetDefault("downsampling.maxpoints", 200)

	// Sync coordinator
	viper.SetDefault("sync.simulatedlatencyms", 0)
	viper.SetDefault("sync.debug", false)

	// Conductor catalog, empty path means the built-in table
	viper.SetDefault("catalog.path", "")
}
