package calc

import "fmt"

// Fixed advisory text for motor and VFD circuits.
const (
	motorAdvisory = "Motor circuits: verify the conductor also satisfies starting-current voltage dip limits at the motor terminals."
	vfdAdvisory   = "VFD-driven loads: apply the drive manufacturer's derating for harmonic heating and keep the drive close to the motor."
)

// recommendations builds the ordered advisory list for a result. The
// strings are opaque display text for the presentation layer.
func (e *Engine) recommendations(in *VoltageDropInputs, result *VoltageDropResult) []string {
	var recs []string

	if result.ComplianceStatus == StatusNonCompliant {
		exceedance := result.VoltageDropPercent - result.MaxAllowedDropPercent
		recs = append(recs, fmt.Sprintf(
			"Voltage drop %.2f%% exceeds the %.1f%% limit by %.2f percentage points.",
			result.VoltageDropPercent, result.MaxAllowedDropPercent, exceedance))

		if next, ok := e.catalog.NextSizeUp(in.ConductorSize); ok {
			recs = append(recs, fmt.Sprintf(
				"Increase conductor size from %s to %s or larger.", in.ConductorSize, next.Size))
		}

		recs = append(recs,
			"Reduce the conductor run length if the layout allows.",
			"Consider a higher system voltage for long runs.",
			"Locating the transformer closer to the load reduces the run length.")
	}

	if !result.Ampacity.IsAdequate {
		if minSize, ok := e.minimumAdequateSize(in); ok {
			recs = append(recs, fmt.Sprintf(
				"Conductor ampacity %.0f A is below the required %.0f A; minimum adequate size is %s.",
				result.Ampacity.Ampacity, result.Ampacity.RequiredCurrent, minSize))
		} else {
			recs = append(recs, fmt.Sprintf(
				"Conductor ampacity %.0f A is below the required %.0f A and no catalog size is adequate; parallel conductors are required.",
				result.Ampacity.Ampacity, result.Ampacity.RequiredCurrent))
		}
	}

	if in.Circuit.CircuitType == CircuitMotor {
		recs = append(recs, motorAdvisory)
		if in.Circuit.HasVFD {
			recs = append(recs, vfdAdvisory)
		}
	}

	return recs
}

// minimumAdequateSize scans the catalog ascending for the first size whose
// ampacity covers the required current.
func (e *Engine) minimumAdequateSize(in *VoltageDropInputs) (string, bool) {
	required := in.RequiredCurrent()
	for _, entry := range e.catalog.Entries() {
		if entry.Ampacity[in.ConductorMaterial] >= required {
			return entry.Size, true
		}
	}
	return "", false
}
