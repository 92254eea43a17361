// validate.go: pure validation functions for loaded settings.
package conf

import (
	"fmt"
)

// ValidateSettings checks the loaded settings for values that would make the
// engine produce nonsense. Returns the first problem found.
func ValidateSettings(s *Settings) error {
	if err := validateCompliance(&s.Compliance); err != nil {
		return err
	}
	if err := validateEconomics(&s.Economics); err != nil {
		return err
	}
	if err := validateDownsampling(&s.Downsampling); err != nil {
		return err
	}
	if s.Sync.SimulatedLatencyMs < 0 {
		return fmt.Errorf("sync.simulatedlatencyms must not be negative, got %d", s.Sync.SimulatedLatencyMs)
	}
	return nil
}

func validateCompliance(c *ComplianceSettings) error {
	limits := map[string]float64{
		"compliance.branchmaxdroppercent":  c.BranchMaxDropPercent,
		"compliance.feedermaxdroppercent":  c.FeederMaxDropPercent,
		"compliance.servicemaxdroppercent": c.ServiceMaxDropPercent,
		"compliance.motormaxdroppercent":   c.MotorMaxDropPercent,
	}
	for name, v := range limits {
		if v <= 0 || v > 100 {
			return fmt.Errorf("%s must be in (0, 100], got %g", name, v)
		}
	}
	return nil
}

func validateEconomics(e *EconomicsSettings) error {
	if e.EnergyPricePerKWh < 0 {
		return fmt.Errorf("economics.energypriceperkwh must not be negative, got %g", e.EnergyPricePerKWh)
	}
	if e.OperatingHoursPerYear < 0 || e.OperatingHoursPerYear > 8784 {
		return fmt.Errorf("economics.operatinghoursperyear must be within a year, got %g", e.OperatingHoursPerYear)
	}
	if e.AnalysisYears <= 0 {
		return fmt.Errorf("economics.analysisyears must be positive, got %d", e.AnalysisYears)
	}
	if e.PaybackHorizonYears <= 0 {
		return fmt.Errorf("economics.paybackhorizonyears must be positive, got %g", e.PaybackHorizonYears)
	}
	if e.BaselineAreaCMil <= 0 {
		return fmt.Errorf("economics.baselineareacmil must be positive, got %g", e.BaselineAreaCMil)
	}
	return nil
}

func validateDownsampling(d *DownsamplingSettings) error {
	if d.PixelsPerPoint <= 0 {
		return fmt.Errorf("downsampling.pixelsperpoint must be positive, got %d", d.PixelsPerPoint)
	}
	if d.MinPoints <= 2 {
		return fmt.Errorf("downsampling.minpoints must be greater than 2, got %d", d.MinPoints)
	}
	if d.MaxPoints < d.MinPoints {
		return fmt.Errorf("downsampling.maxpoints %d is below minpoints %d", d.MaxPoints, d.MinPoints)
	}
	return nil
}
