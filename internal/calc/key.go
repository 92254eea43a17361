package calc

import (
	"strconv"
	"strings"
)

// KeyFor builds the memoization fingerprint for a set of inputs. It
// enumerates exactly the fields that affect the result; a field added to
// VoltageDropInputs that changes the evaluation must be deliberately added
// here as well. Fields that only feed display glue (furthest outlet
// distance, wireway kind, service factor) are intentionally excluded.
func KeyFor(inputs VoltageDropInputs) string {
	in := inputs.WithDefaults()

	var b strings.Builder
	b.Grow(128)

	appendFloat := func(v float64) {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('|')
	}
	appendString := func(s string) {
		b.WriteString(s)
		b.WriteByte('|')
	}

	appendFloat(in.SystemVoltage)
	appendFloat(in.LoadCurrent)
	appendFloat(in.ConductorLengthFt)
	appendString(in.ConductorSize)
	appendString(string(in.ConductorMaterial))
	appendString(string(in.ConduitMaterial))
	appendString(string(in.PhaseConfiguration))
	appendFloat(in.AmbientTemperatureC)
	appendFloat(in.PowerFactor)
	appendString(string(in.Circuit.CircuitType))
	appendFloat(in.Circuit.StartingCurrentMultiplier)
	appendString(strconv.FormatBool(in.Circuit.HasVFD))

	return b.String()
}
