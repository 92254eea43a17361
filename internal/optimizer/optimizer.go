// Package optimizer scans the conductor catalog through the calculation
// engine to find minimum compliant and adequate sizes and to compare
// conductor choices economically.
package optimizer

import (
	"github.com/voltflow/voltflow-go/internal/calc"
	"github.com/voltflow/voltflow-go/internal/errors"
)

// Optimizer runs catalog scans against a calculation engine.
type Optimizer struct {
	engine *calc.Engine
}

// New creates an optimizer over the given engine.
func New(engine *calc.Engine) *Optimizer {
	return &Optimizer{engine: engine}
}

// SizeSearchResult is the outcome of a minimum-size scan.
type SizeSearchResult struct {
	Size        string  `json:"size"`
	AreaCMil    float64 `json:"areaCMil"`
	DropPercent float64 `json:"dropPercent"`
	Ampacity    float64 `json:"ampacity"`

	// NoCompliantSizeFound is set when the scan exhausted the catalog.
	// The result then carries the largest size; this is a warning, not an
	// error.
	NoCompliantSizeFound bool `json:"noCompliantSizeFound"`
}

// FindMinimumCompliantSize scans the catalog ascending by area and returns
// the first size whose voltage drop is within the compliance limit. When no
// size qualifies the largest size is returned with NoCompliantSizeFound set.
func (o *Optimizer) FindMinimumCompliantSize(inputs calc.VoltageDropInputs) (SizeSearchResult, error) {
	var last SizeSearchResult

	for _, entry := range o.engine.Catalog().Entries() {
		in := inputs
		in.ConductorSize = entry.Size

		result, err := o.engine.Evaluate(in)
		if err != nil {
			return SizeSearchResult{}, err
		}

		last = SizeSearchResult{
			Size:        entry.Size,
			AreaCMil:    entry.AreaCMil,
			DropPercent: result.VoltageDropPercent,
			Ampacity:    result.Ampacity.Ampacity,
		}

		if result.VoltageDropPercent <= result.MaxAllowedDropPercent {
			return last, nil
		}
	}

	last.NoCompliantSizeFound = true
	return last, nil
}

// FindAmpacityMinimumSize scans the catalog ascending and returns the first
// size whose ampacity covers the required current (including motor starting
// current). When no size is adequate the largest size is returned with
// NoCompliantSizeFound set.
func (o *Optimizer) FindAmpacityMinimumSize(inputs calc.VoltageDropInputs) (SizeSearchResult, error) {
	if !inputs.ConductorMaterial.Valid() {
		return SizeSearchResult{}, errors.ValidationError("unknown conductor material %q", inputs.ConductorMaterial)
	}
	if inputs.LoadCurrent <= 0 {
		return SizeSearchResult{}, errors.ValidationError("load current must be positive, got %g", inputs.LoadCurrent)
	}

	required := inputs.RequiredCurrent()

	var last SizeSearchResult
	for _, entry := range o.engine.Catalog().Entries() {
		ampacity := entry.Ampacity[inputs.ConductorMaterial]
		last = SizeSearchResult{
			Size:     entry.Size,
			AreaCMil: entry.AreaCMil,
			Ampacity: ampacity,
		}
		if ampacity >= required {
			return last, nil
		}
	}

	last.NoCompliantSizeFound = true
	return last, nil
}

// FindOptimalConductorSize returns the larger of the minimum compliant and
// minimum adequate sizes: both voltage drop and ampacity must be satisfied.
func (o *Optimizer) FindOptimalConductorSize(inputs calc.VoltageDropInputs) (SizeSearchResult, error) {
	compliant, err := o.FindMinimumCompliantSize(inputs)
	if err != nil {
		return SizeSearchResult{}, err
	}

	adequate, err := o.FindAmpacityMinimumSize(inputs)
	if err != nil {
		return SizeSearchResult{}, err
	}

	optimal := compliant
	if adequate.AreaCMil > optimal.AreaCMil {
		optimal = adequate
	}
	optimal.NoCompliantSizeFound = compliant.NoCompliantSizeFound || adequate.NoCompliantSizeFound

	// Report the governing size with its actual drop percentage.
	in := inputs
	in.ConductorSize = optimal.Size
	if result, err := o.engine.Evaluate(in); err == nil {
		optimal.DropPercent = result.VoltageDropPercent
		optimal.Ampacity = result.Ampacity.Ampacity
	}

	return optimal, nil
}
