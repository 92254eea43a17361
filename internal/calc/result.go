package calc

import "encoding/json"

// ComplianceStatus is the outcome of the voltage-drop limit check.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusNonCompliant ComplianceStatus = "non-compliant"
)

// AmpacityRating reports whether the conductor can carry the required
// current continuously.
type AmpacityRating struct {
	Ampacity        float64 `json:"ampacity"`
	RequiredCurrent float64 `json:"requiredCurrent"`
	IsAdequate      bool    `json:"isAdequate"`
}

// VoltageDropResult is the full evaluation of one circuit configuration.
// It is a pure function of the inputs and is never persisted directly.
type VoltageDropResult struct {
	VoltageDrop         float64 `json:"voltageDrop"`        // volts
	VoltageDropPercent  float64 `json:"voltageDropPercent"` // percent of system voltage
	ReceivingEndVoltage float64 `json:"receivingEndVoltage"`

	ResistiveLossW float64 `json:"resistiveLoss"` // watts
	ReactiveLossW  float64 `json:"reactiveLoss"`  // vars
	TotalLossW     float64 `json:"totalLoss"`

	ComplianceStatus      ComplianceStatus `json:"complianceStatus"`
	MaxAllowedDropPercent float64          `json:"maxAllowedDropPercent"`

	Ampacity AmpacityRating `json:"ampacityRating"`

	// Recommendations are ordered, opaque display text.
	Recommendations []string `json:"recommendations"`
}

// IsCompliant reports whether the drop is within the allowed limit.
func (r *VoltageDropResult) IsCompliant() bool {
	return r.ComplianceStatus == StatusCompliant
}

// Serialize encodes the inputs/result pair losslessly as JSON.
func Serialize(inputs VoltageDropInputs, result VoltageDropResult) ([]byte, error) {
	return json.Marshal(struct {
		Inputs VoltageDropInputs `json:"inputs"`
		Result VoltageDropResult `json:"result"`
	}{inputs, result})
}

// Deserialize decodes a pair produced by Serialize.
func Deserialize(data []byte) (VoltageDropInputs, VoltageDropResult, error) {
	var payload struct {
		Inputs VoltageDropInputs `json:"inputs"`
		Result VoltageDropResult `json:"result"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return VoltageDropInputs{}, VoltageDropResult{}, err
	}
	return payload.Inputs, payload.Result, nil
}
