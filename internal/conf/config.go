// config.go: defines the settings struct for the voltage-drop engine and the
// functions to load and save the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// LogConfig contains settings for log output and rotation.
type LogConfig struct {
	Enabled    bool   // true to write a rotating JSON log file
	Path       string // log file path
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
	MaxAgeDays int    // days to retain rotated files
}

// MainSettings contains application level settings.
type MainSettings struct {
	Name string    // instance name, used in event source tags
	Log  LogConfig // main log settings
}

// ComplianceSettings holds the maximum allowed voltage-drop percentages per
// circuit type. Values are NEC-style recommended limits.
type ComplianceSettings struct {
	BranchMaxDropPercent  float64 // branch circuits
	FeederMaxDropPercent  float64 // feeders
	ServiceMaxDropPercent float64 // service conductors
	MotorMaxDropPercent   float64 // motor circuits use a tighter limit
}

// EconomicsSettings holds the defaults for conductor cost comparisons.
type EconomicsSettings struct {
	EnergyPricePerKWh     float64 // electricity price used for operating cost
	OperatingHoursPerYear float64 // annual hours under load
	AnalysisYears         int     // ownership period for total cost
	PaybackHorizonYears   float64 // max payback for recommending an upsize
	BaseInstallationCost  float64 // installation cost at the baseline area
	BaselineAreaCMil      float64 // area the installation curve is anchored to
	CopperCostPerCMilFt   float64 // material cost per circular-mil-foot
	AluminumCostPerCMilFt float64
}

// DownsamplingSettings holds chart reduction defaults.
type DownsamplingSettings struct {
	PixelsPerPoint int // container pixels represented by one point
	MinPoints      int // lower clamp for the point budget
	MaxPoints      int // upper clamp for the point budget
}

// SyncSettings holds sync coordinator tunables.
type SyncSettings struct {
	SimulatedLatencyMs int  // cooperative latency for SyncNow, 0 to disable
	Debug              bool // true to enable verbose sync logging
}

// CatalogSettings points at an optional external conductor catalog file.
type CatalogSettings struct {
	Path string // YAML catalog override, empty to use the built-in table
}

// Settings is the root configuration structure.
type Settings struct {
	Debug bool // true to enable debug level logging

	Main         MainSettings
	Compliance   ComplianceSettings
	Economics    EconomicsSettings
	Downsampling DownsamplingSettings
	Sync         SyncSettings
	Catalog      CatalogSettings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into the
// settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter,
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns the config search paths in priority order.
func GetDefaultConfigPaths() ([]string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error resolving user config directory: %w", err)
	}

	return []string{
		".",
		filepath.Join(configDir, "voltflow"),
	}, nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveYAMLConfig writes the settings to the YAML configuration file.
// The write is atomic: data goes to a temporary file first, which is then
// renamed over the target.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary config file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return fmt.Errorf("error writing temporary config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("error closing temporary config file: %w", err)
	}

	if err := os.Rename(tempName, configPath); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}
