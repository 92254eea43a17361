// Package tracker implements dirty-bit change tracking for circuit edits.
// It records which properties changed per circuit and notifies listeners
// only when an edit touches a voltage-drop-relevant property, so cached
// results are invalidated exactly when they become stale.
package tracker

import (
	"log/slog"
	"sync"
	"time"
)

// ChangeRecord is one property edit on a circuit.
type ChangeRecord struct {
	Property  string    `json:"property"`
	Previous  any       `json:"previousValue"`
	New       any       `json:"newValue"`
	Timestamp time.Time `json:"timestamp"`
}

// relevantProperties is the fixed allow-list of properties whose edits
// invalidate cached voltage-drop results. Everything else (names, notes,
// display order) changes nothing about the calculation.
var relevantProperties = map[string]struct{}{
	"conductorSize":             {},
	"conductorMaterial":         {},
	"conductorLength":           {},
	"conduitMaterial":           {},
	"loadCurrent":               {},
	"systemVoltage":             {},
	"phaseConfiguration":        {},
	"circuitType":               {},
	"ambientTemperature":        {},
	"powerFactor":               {},
	"insulationType":            {},
	"startingCurrentMultiplier": {},
	"hasVfd":                    {},
}

// IsRelevant reports whether editing the property requires recalculation.
func IsRelevant(property string) bool {
	_, ok := relevantProperties[property]
	return ok
}

// Listener receives the circuit id and property of a relevant change.
type Listener func(circuitID, property string)

// Tracker records per-circuit property edits since the last clear.
type Tracker struct {
	mu        sync.RWMutex
	changes   map[string][]ChangeRecord
	listeners []Listener
	suspended bool
	logger    *slog.Logger
}

// New creates an empty tracker. logger may be nil.
func New(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		changes: make(map[string][]ChangeRecord),
		logger:  logger,
	}
}

// OnRecalculationNeeded registers a listener fired for every relevant change
// while tracking is not suspended.
func (t *Tracker) OnRecalculationNeeded(listener Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}

// Record logs a property edit on a circuit. No-op edits (value unchanged)
// are not recorded. Returns true when the change is voltage-drop-relevant
// and listeners were notified.
func (t *Tracker) Record(circuitID, property string, previous, next any) bool {
	if previous == next {
		return false
	}

	t.mu.Lock()
	t.changes[circuitID] = append(t.changes[circuitID], ChangeRecord{
		Property:  property,
		Previous:  previous,
		New:       next,
		Timestamp: time.Now(),
	})
	suspended := t.suspended
	listeners := make([]Listener, len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	if !IsRelevant(property) || suspended {
		return false
	}

	t.logger.Debug("recalculation needed",
		"circuit_id", circuitID,
		"property", property,
	)
	for _, listener := range listeners {
		listener(circuitID, property)
	}
	return true
}

// Changes returns the recorded edits for a circuit since the last clear.
func (t *Tracker) Changes(circuitID string) []ChangeRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	records := t.changes[circuitID]
	out := make([]ChangeRecord, len(records))
	copy(out, records)
	return out
}

// HasChanges reports whether any edits are recorded for a circuit.
func (t *Tracker) HasChanges(circuitID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.changes[circuitID]) > 0
}

// Clear drops the recorded edits for one circuit.
func (t *Tracker) Clear(circuitID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.changes, circuitID)
}

// ClearAll drops all recorded edits.
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changes = make(map[string][]ChangeRecord)
}

// Suspend stops recalculation notifications, e.g. during a bulk import.
// Edits are still recorded.
func (t *Tracker) Suspend() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suspended = true
}

// Resume re-enables recalculation notifications.
func (t *Tracker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suspended = false
}

// Suspended reports whether notifications are currently suppressed.
func (t *Tracker) Suspended() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.suspended
}
