// Package record persists named calculations as JSON documents so a
// session's work can be saved and restored losslessly.
package record

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/voltflow/voltflow-go/internal/calc"
	"github.com/voltflow/voltflow-go/internal/errors"
)

// SavedCalculation bundles the inputs and the computed result under a
// user-visible name.
type SavedCalculation struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"createdAt"`
	Inputs    calc.VoltageDropInputs `json:"inputs"`
	Result    calc.VoltageDropResult `json:"result"`
}

// NewSavedCalculation assigns an id and creation timestamp.
func NewSavedCalculation(name string, inputs calc.VoltageDropInputs, result calc.VoltageDropResult) SavedCalculation {
	return SavedCalculation{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Inputs:    inputs,
		Result:    result,
	}
}

// Encode serializes the record to indented JSON.
func (s SavedCalculation) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.New(err).
			Component("record").
			Category(errors.CategorySerialization).
			Context("record_id", s.ID).
			Build()
	}
	return data, nil
}

// Decode restores a record from its JSON form.
func Decode(data []byte) (SavedCalculation, error) {
	var s SavedCalculation
	if err := json.Unmarshal(data, &s); err != nil {
		return SavedCalculation{}, errors.New(err).
			Component("record").
			Category(errors.CategorySerialization).
			Build()
	}
	return s, nil
}
