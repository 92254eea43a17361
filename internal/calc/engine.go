package calc

import (
	"math"

	"github.com/voltflow/voltflow-go/internal/catalog"
)

// Conductor resistivity in ohm-circular-mil per foot, the NEC-style K
// constants for coated conductors, with the per-degree temperature
// coefficients used by the adjustment below.
const (
	resistivityCopperCMilFt   = 12.9
	resistivityAluminumCMilFt = 21.2

	tempCoefficientCopper   = 0.00393
	tempCoefficientAluminum = 0.00403

	referenceTemperatureC = 20.0
)

// reactancePer1000Ft is the conductor reactance lookup in ohms per 1000 ft,
// keyed by conduit material and phase configuration. The table is a fixed
// small lookup independent of conductor size and spacing; accuracy is
// questionable for very large conductors but it is the established behavior
// of this calculator.
var reactancePer1000Ft = map[ConduitMaterial]map[PhaseConfiguration]float64{
	ConduitPVC:      {PhaseSingle: 0.050, PhaseThree: 0.041},
	ConduitSteel:    {PhaseSingle: 0.062, PhaseThree: 0.052},
	ConduitAluminum: {PhaseSingle: 0.052, PhaseThree: 0.043},
}

// Limits holds the maximum allowed voltage-drop percentage per circuit type.
type Limits struct {
	BranchPercent  float64
	FeederPercent  float64
	ServicePercent float64
	MotorPercent   float64
}

// DefaultLimits returns the NEC-style recommended drop limits.
func DefaultLimits() Limits {
	return Limits{
		BranchPercent:  3.0,
		FeederPercent:  5.0,
		ServicePercent: 5.0,
		MotorPercent:   3.0,
	}
}

// ForCircuit returns the applicable percentage threshold for a circuit type.
// Branch, feeder and service circuits share the configured tiers; motor
// circuits use their own tighter limit.
func (l Limits) ForCircuit(t CircuitType) float64 {
	switch t {
	case CircuitFeeder:
		return l.FeederPercent
	case CircuitService:
		return l.ServicePercent
	case CircuitMotor:
		return l.MotorPercent
	default:
		return l.BranchPercent
	}
}

// Engine evaluates circuit configurations against a conductor catalog.
// Engines are stateless and safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	limits  Limits
}

// NewEngine creates an engine over the given catalog and compliance limits.
func NewEngine(cat *catalog.Catalog, limits Limits) *Engine {
	return &Engine{catalog: cat, limits: limits}
}

// Catalog returns the conductor catalog the engine evaluates against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Limits returns the compliance limits in effect.
func (e *Engine) Limits() Limits {
	return e.limits
}

// phaseConstant returns the drop formula multiplier: 2 for single-phase
// two-wire circuits, sqrt(3) for three-phase.
func phaseConstant(p PhaseConfiguration) float64 {
	if p == PhaseThree {
		return math.Sqrt(3)
	}
	return 2
}

// resistivity returns the material resistivity at the reference temperature.
func resistivity(m catalog.Material) float64 {
	if m == catalog.MaterialAluminum {
		return resistivityAluminumCMilFt
	}
	return resistivityCopperCMilFt
}

// tempAdjustment scales resistance for ambient temperature away from the
// 20°C reference.
func tempAdjustment(m catalog.Material, ambientC float64) float64 {
	coefficient := tempCoefficientCopper
	if m == catalog.MaterialAluminum {
		coefficient = tempCoefficientAluminum
	}
	return 1 + coefficient*(ambientC-referenceTemperatureC)
}

// conductorImpedance returns the one-way resistance and reactance in ohms
// for the inputs. The inputs must already be validated.
func (e *Engine) conductorImpedance(in *VoltageDropInputs) (resistance, reactance float64, err error) {
	entry, err := e.catalog.Lookup(in.ConductorSize)
	if err != nil {
		return 0, 0, err
	}

	resistance = resistivity(in.ConductorMaterial) *
		tempAdjustment(in.ConductorMaterial, in.AmbientTemperatureC) *
		in.ConductorLengthFt / entry.AreaCMil

	reactance = reactancePer1000Ft[in.ConduitMaterial][in.PhaseConfiguration] *
		in.ConductorLengthFt / 1000

	return resistance, reactance, nil
}

// computeVoltageDrop returns the voltage drop in volts:
// k * I * (R*cos(phi) + X*sin(phi)).
func (e *Engine) computeVoltageDrop(in *VoltageDropInputs) (float64, error) {
	resistance, reactance, err := e.conductorImpedance(in)
	if err != nil {
		return 0, err
	}

	cosPhi := in.PowerFactor
	sinPhi := math.Sqrt(1 - cosPhi*cosPhi)
	k := phaseConstant(in.PhaseConfiguration)

	return k * in.LoadCurrent * (resistance*cosPhi + reactance*sinPhi), nil
}

// computePowerLoss returns the resistive (W) and reactive (var) losses:
// k * I^2 * R and k * I^2 * X with the same phase constant convention.
func (e *Engine) computePowerLoss(in *VoltageDropInputs) (resistive, reactive float64, err error) {
	resistance, reactance, err := e.conductorImpedance(in)
	if err != nil {
		return 0, 0, err
	}

	k := phaseConstant(in.PhaseConfiguration)
	iSquared := in.LoadCurrent * in.LoadCurrent

	return k * iSquared * resistance, k * iSquared * reactance, nil
}

// checkAmpacity looks up the conductor rating and compares it against the
// required current.
func (e *Engine) checkAmpacity(in *VoltageDropInputs) (AmpacityRating, error) {
	ampacity, err := e.catalog.Ampacity(in.ConductorSize, in.ConductorMaterial)
	if err != nil {
		return AmpacityRating{}, err
	}

	required := in.RequiredCurrent()
	return AmpacityRating{
		Ampacity:        ampacity,
		RequiredCurrent: required,
		IsAdequate:      ampacity >= required,
	}, nil
}

// Evaluate computes the full voltage-drop result for one circuit
// configuration. It is pure: identical inputs always produce identical
// output. Malformed inputs fail fast rather than being silently defaulted.
func (e *Engine) Evaluate(inputs VoltageDropInputs) (VoltageDropResult, error) {
	in := inputs.WithDefaults()

	if err := in.Validate(e.catalog); err != nil {
		return VoltageDropResult{}, err
	}

	drop, err := e.computeVoltageDrop(&in)
	if err != nil {
		return VoltageDropResult{}, err
	}

	resistiveLoss, reactiveLoss, err := e.computePowerLoss(&in)
	if err != nil {
		return VoltageDropResult{}, err
	}

	ampacity, err := e.checkAmpacity(&in)
	if err != nil {
		return VoltageDropResult{}, err
	}

	limit := e.limits.ForCircuit(in.Circuit.CircuitType)
	dropPercent := drop / in.SystemVoltage * 100

	status := StatusCompliant
	if dropPercent > limit {
		status = StatusNonCompliant
	}

	result := VoltageDropResult{
		VoltageDrop:           drop,
		VoltageDropPercent:    dropPercent,
		ReceivingEndVoltage:   in.SystemVoltage - drop,
		ResistiveLossW:        resistiveLoss,
		ReactiveLossW:         reactiveLoss,
		TotalLossW:            resistiveLoss + reactiveLoss,
		ComplianceStatus:      status,
		MaxAllowedDropPercent: limit,
		Ampacity:              ampacity,
	}
	result.Recommendations = e.recommendations(&in, &result)

	return result, nil
}
