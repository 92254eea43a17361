package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltflow/voltflow-go/internal/catalog"
	"github.com/voltflow/voltflow-go/internal/errors"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.Default(), DefaultLimits())
}

// branchInputs is a 100 ft 12 AWG copper branch circuit at 230 V / 20 A
// that lands just over the 3% limit.
func branchInputs() VoltageDropInputs {
	return VoltageDropInputs{
		SystemVoltage:       230,
		LoadCurrent:         20,
		ConductorLengthFt:   100,
		ConductorSize:       "12 AWG",
		ConductorMaterial:   catalog.MaterialCopper,
		ConduitMaterial:     ConduitPVC,
		PhaseConfiguration:  PhaseSingle,
		AmbientTemperatureC: 30,
		PowerFactor:         0.85,
		Circuit:             CircuitConfiguration{CircuitType: CircuitBranch},
	}
}

func TestEvaluateNonCompliantBranch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result, err := engine.Evaluate(branchInputs())
	require.NoError(t, err)

	assert.Greater(t, result.VoltageDropPercent, 3.0)
	assert.Equal(t, StatusNonCompliant, result.ComplianceStatus)
	assert.Equal(t, 3.0, result.MaxAllowedDropPercent)
	assert.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[1], "10 AWG",
		"recommendation suggests the next catalog size up")
}

func TestEvaluateCompliantWithLargerConductor(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	in := branchInputs()
	in.ConductorSize = "6 AWG"

	result, err := engine.Evaluate(in)
	require.NoError(t, err)

	assert.Less(t, result.VoltageDropPercent, 3.0)
	assert.Equal(t, StatusCompliant, result.ComplianceStatus)
}

func TestVoltageDropPercentIdentity(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result, err := engine.Evaluate(branchInputs())
	require.NoError(t, err)

	assert.InEpsilon(t, result.VoltageDrop/230*100, result.VoltageDropPercent, 1e-12)
	assert.InEpsilon(t, 230-result.VoltageDrop, result.ReceivingEndVoltage, 1e-12)
	assert.InEpsilon(t, result.ResistiveLossW+result.ReactiveLossW, result.TotalLossW, 1e-12)
}

func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	first, err := engine.Evaluate(branchInputs())
	require.NoError(t, err)
	second, err := engine.Evaluate(branchInputs())
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs produce identical output")
}

func TestDropMonotonicInLength(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	previous := 0.0
	for _, length := range []float64{50, 100, 150, 200, 400} {
		in := branchInputs()
		in.ConductorLengthFt = length
		result, err := engine.Evaluate(in)
		require.NoError(t, err)
		assert.Greater(t, result.VoltageDrop, previous,
			"drop must strictly increase with length %g", length)
		previous = result.VoltageDrop
	}
}

func TestDropMonotonicInConductorArea(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	previous := 1e9
	for _, size := range []string{"12 AWG", "10 AWG", "8 AWG", "6 AWG", "4 AWG"} {
		in := branchInputs()
		in.ConductorSize = size
		result, err := engine.Evaluate(in)
		require.NoError(t, err)
		assert.Less(t, result.VoltageDrop, previous,
			"drop must strictly decrease with larger size %s", size)
		previous = result.VoltageDrop
	}
}

func TestThreePhaseUsesSqrt3(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	single := branchInputs()
	three := branchInputs()
	three.PhaseConfiguration = PhaseThree

	singleResult, err := engine.Evaluate(single)
	require.NoError(t, err)
	threeResult, err := engine.Evaluate(three)
	require.NoError(t, err)

	// Three-phase uses sqrt(3) instead of 2 and a different reactance cell,
	// so the drop must be strictly lower.
	assert.Less(t, threeResult.VoltageDrop, singleResult.VoltageDrop)
}

func TestComplianceLimitPerCircuitType(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	assert.Equal(t, 3.0, limits.ForCircuit(CircuitBranch))
	assert.Equal(t, 5.0, limits.ForCircuit(CircuitFeeder))
	assert.Equal(t, 5.0, limits.ForCircuit(CircuitService))
	assert.Equal(t, 3.0, limits.ForCircuit(CircuitMotor))
}

func TestMotorAmpacityUsesStartingCurrent(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	in := branchInputs()
	in.ConductorSize = "6 AWG" // 65 A copper
	in.LoadCurrent = 30
	in.Circuit = CircuitConfiguration{
		CircuitType:               CircuitMotor,
		StartingCurrentMultiplier: 3,
	}

	result, err := engine.Evaluate(in)
	require.NoError(t, err)

	assert.Equal(t, 90.0, result.Ampacity.RequiredCurrent, "3x starting current governs")
	assert.False(t, result.Ampacity.IsAdequate, "65 A rating cannot carry 90 A")

	// Without the multiplier the same conductor is adequate.
	in.Circuit.StartingCurrentMultiplier = 0
	result, err = engine.Evaluate(in)
	require.NoError(t, err)
	assert.True(t, result.Ampacity.IsAdequate)
}

func TestMotorAndVFDAdvisories(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	in := branchInputs()
	in.ConductorSize = "6 AWG"
	in.Circuit = CircuitConfiguration{CircuitType: CircuitMotor, HasVFD: true}

	result, err := engine.Evaluate(in)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(result.Recommendations), 2)
	assert.Contains(t, result.Recommendations, motorAdvisory)
	assert.Contains(t, result.Recommendations, vfdAdvisory)
}

func TestEvaluateValidation(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	tests := []struct {
		name     string
		mutate   func(*VoltageDropInputs)
		category errors.ErrorCategory
	}{
		{"unknown conductor size", func(in *VoltageDropInputs) { in.ConductorSize = "13 AWG" }, errors.CategoryConductorCatalog},
		{"zero length", func(in *VoltageDropInputs) { in.ConductorLengthFt = 0 }, errors.CategoryValidation},
		{"negative length", func(in *VoltageDropInputs) { in.ConductorLengthFt = -10 }, errors.CategoryValidation},
		{"zero current", func(in *VoltageDropInputs) { in.LoadCurrent = 0 }, errors.CategoryValidation},
		{"negative temperature", func(in *VoltageDropInputs) { in.AmbientTemperatureC = -5 }, errors.CategoryValidation},
		{"power factor above one", func(in *VoltageDropInputs) { in.PowerFactor = 1.2 }, errors.CategoryValidation},
		{"bad material", func(in *VoltageDropInputs) { in.ConductorMaterial = "steel" }, errors.CategoryValidation},
		{"bad conduit", func(in *VoltageDropInputs) { in.ConduitMaterial = "wood" }, errors.CategoryValidation},
		{"bad phase", func(in *VoltageDropInputs) { in.PhaseConfiguration = "dual" }, errors.CategoryValidation},
		{"bad circuit type", func(in *VoltageDropInputs) { in.Circuit.CircuitType = "lighting" }, errors.CategoryValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := branchInputs()
			tt.mutate(&in)
			_, err := engine.Evaluate(in)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, tt.category),
				"expected category %s, got %v", tt.category, err)
		})
	}
}

func TestPowerFactorDefault(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	explicit := branchInputs()
	defaulted := branchInputs()
	defaulted.PowerFactor = 0

	a, err := engine.Evaluate(explicit)
	require.NoError(t, err)
	b, err := engine.Evaluate(defaulted)
	require.NoError(t, err)

	assert.Equal(t, a, b, "zero power factor defaults to 0.85")
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	in := branchInputs()
	result, err := engine.Evaluate(in)
	require.NoError(t, err)

	data, err := Serialize(in, result)
	require.NoError(t, err)

	gotIn, gotResult, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, in, gotIn)
	assert.Equal(t, result, gotResult)
}
