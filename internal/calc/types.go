// Package calc implements the voltage-drop calculation engine: pure,
// deterministic functions computing voltage drop, power loss, ampacity
// adequacy and code compliance for one circuit configuration.
package calc

import (
	"github.com/voltflow/voltflow-go/internal/catalog"
	"github.com/voltflow/voltflow-go/internal/errors"
)

// CircuitType identifies which compliance tier applies to the circuit.
type CircuitType string

const (
	CircuitBranch  CircuitType = "branch"
	CircuitFeeder  CircuitType = "feeder"
	CircuitService CircuitType = "service"
	CircuitMotor   CircuitType = "motor"
)

// Valid reports whether t is a known circuit type.
func (t CircuitType) Valid() bool {
	switch t {
	case CircuitBranch, CircuitFeeder, CircuitService, CircuitMotor:
		return true
	}
	return false
}

// ConduitMaterial affects the reactance lookup.
type ConduitMaterial string

const (
	ConduitPVC      ConduitMaterial = "PVC"
	ConduitSteel    ConduitMaterial = "steel"
	ConduitAluminum ConduitMaterial = "aluminum"
)

// Valid reports whether m is a known conduit material.
func (m ConduitMaterial) Valid() bool {
	switch m {
	case ConduitPVC, ConduitSteel, ConduitAluminum:
		return true
	}
	return false
}

// PhaseConfiguration selects the drop formula constant: 2 for single-phase
// two-wire, sqrt(3) for three-phase.
type PhaseConfiguration string

const (
	PhaseSingle PhaseConfiguration = "single"
	PhaseThree  PhaseConfiguration = "three"
)

// Valid reports whether p is a known phase configuration.
func (p PhaseConfiguration) Valid() bool {
	return p == PhaseSingle || p == PhaseThree
}

// WirewayKind describes the raceway for feeder circuits.
type WirewayKind string

const (
	WirewayConduit WirewayKind = "conduit"
	WirewayTray    WirewayKind = "cable-tray"
)

// CircuitConfiguration carries the circuit type and its type-specific
// optional fields. Zero values mean "not applicable".
type CircuitConfiguration struct {
	CircuitType CircuitType `json:"circuitType"`

	// Branch circuits
	FurthestOutletDistanceFt float64 `json:"furthestOutletDistanceFt,omitempty"`

	// Motor circuits
	StartingCurrentMultiplier float64 `json:"startingCurrentMultiplier,omitempty"`
	ServiceFactor             float64 `json:"serviceFactor,omitempty"`
	HasVFD                    bool    `json:"hasVfd,omitempty"`

	// Feeder circuits
	Wireway WirewayKind `json:"wireway,omitempty"`
}

// DefaultPowerFactor is applied when the caller leaves PowerFactor at zero.
const DefaultPowerFactor = 0.85

// VoltageDropInputs is one complete circuit configuration handed to the
// engine. Instances are ephemeral call parameters and never persisted
// directly, but the json tags give saved calculations a lossless round-trip.
type VoltageDropInputs struct {
	SystemVoltage       float64              `json:"systemVoltage"`
	LoadCurrent         float64              `json:"loadCurrent"`
	ConductorLengthFt   float64              `json:"conductorLength"`
	ConductorSize       string               `json:"conductorSize"`
	ConductorMaterial   catalog.Material     `json:"conductorMaterial"`
	ConduitMaterial     ConduitMaterial      `json:"conduitMaterial"`
	PhaseConfiguration  PhaseConfiguration   `json:"phaseConfiguration"`
	AmbientTemperatureC float64              `json:"ambientTemperature"`
	PowerFactor         float64              `json:"powerFactor"`
	Circuit             CircuitConfiguration `json:"circuit"`
}

// WithDefaults returns a copy of the inputs with defaultable fields filled
// in. Only the power factor has a documented default; everything else must
// be supplied explicitly.
func (in VoltageDropInputs) WithDefaults() VoltageDropInputs {
	if in.PowerFactor == 0 {
		in.PowerFactor = DefaultPowerFactor
	}
	return in
}

// Validate fails fast on malformed inputs. Silent substitution would corrupt
// a compliance determination, so nothing is defaulted here except through
// WithDefaults.
func (in *VoltageDropInputs) Validate(cat *catalog.Catalog) error {
	if in.SystemVoltage <= 0 {
		return errors.ValidationError("system voltage must be positive, got %g", in.SystemVoltage)
	}
	if in.LoadCurrent <= 0 {
		return errors.ValidationError("load current must be positive, got %g", in.LoadCurrent)
	}
	if in.ConductorLengthFt <= 0 {
		return errors.ValidationError("conductor length must be positive, got %g", in.ConductorLengthFt)
	}
	if in.AmbientTemperatureC < 0 {
		return errors.ValidationError("ambient temperature must not be negative, got %g", in.AmbientTemperatureC)
	}
	if in.PowerFactor < 0 || in.PowerFactor > 1 {
		return errors.ValidationError("power factor must be within [0, 1], got %g", in.PowerFactor)
	}
	if !in.ConductorMaterial.Valid() {
		return errors.ValidationError("unknown conductor material %q", in.ConductorMaterial)
	}
	if !in.ConduitMaterial.Valid() {
		return errors.ValidationError("unknown conduit material %q", in.ConduitMaterial)
	}
	if !in.PhaseConfiguration.Valid() {
		return errors.ValidationError("unknown phase configuration %q", in.PhaseConfiguration)
	}
	if !in.Circuit.CircuitType.Valid() {
		return errors.ValidationError("unknown circuit type %q", in.Circuit.CircuitType)
	}
	if in.Circuit.StartingCurrentMultiplier < 0 {
		return errors.ValidationError("starting current multiplier must not be negative, got %g", in.Circuit.StartingCurrentMultiplier)
	}
	if !cat.Has(in.ConductorSize) {
		return errors.CatalogError(in.ConductorSize)
	}
	return nil
}

// RequiredCurrent returns the current the conductor must carry: the load
// current, or for motor circuits the larger of running and starting current.
func (in *VoltageDropInputs) RequiredCurrent() float64 {
	required := in.LoadCurrent
	if in.Circuit.CircuitType == CircuitMotor && in.Circuit.StartingCurrentMultiplier > 1 {
		if starting := in.LoadCurrent * in.Circuit.StartingCurrentMultiplier; starting > required {
			required = starting
		}
	}
	return required
}
