// Package syncer coordinates the two parallel views of circuit data:
// the voltage-drop calculator's circuit records and the load-schedule
// records. It owns the canonical collections, detects and resolves
// conflicts between the views, and maintains undo/redo history plus an
// append-only audit log of every mutation.
package syncer

import "time"

// UnifiedCircuitData is the voltage-drop side view of a circuit.
type UnifiedCircuitData struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ConductorSize     string    `json:"conductorSize"`
	ConductorMaterial string    `json:"conductorMaterial"`
	ConduitMaterial   string    `json:"conduitMaterial"`
	BreakerRating     float64   `json:"breakerRating"`
	LoadCurrent       float64   `json:"loadCurrent"`
	SystemVoltage     float64   `json:"systemVoltage"`
	ConductorLengthFt float64   `json:"conductorLength"`
	Description       string    `json:"description,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// LoadItem is one connected load on a schedule.
type LoadItem struct {
	Name     string  `json:"name"`
	WattsVA  float64 `json:"wattsVa"`
	Quantity int     `json:"quantity"`
}

// LoadSchedule is the panel-schedule side view of the same circuit.
type LoadSchedule struct {
	ID            string     `json:"id"`
	CircuitID     string     `json:"circuitId"`
	Name          string     `json:"name"`
	ConductorSize string     `json:"conductorSize"`
	BreakerRating float64    `json:"breakerRating"`
	LoadCurrent   float64    `json:"loadCurrent"`
	Description   string     `json:"description,omitempty"`
	Items         []LoadItem `json:"items,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Severity grades a property divergence.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Strategy is a conflict resolution choice.
type Strategy string

const (
	StrategyVoltageDropWins Strategy = "voltage-drop-wins"
	StrategyScheduleWins    Strategy = "schedule-wins"
	StrategyManual          Strategy = "manual"
	StrategyMerge           Strategy = "merge"
)

// PropertyComparison captures one differing shared property between the
// two views. Comparisons are historical records and are never rewritten
// after the conflict is created.
type PropertyComparison struct {
	Property            string   `json:"property"`
	ValueA              any      `json:"valueA"` // voltage-drop side
	ValueB              any      `json:"valueB"` // schedule side
	Unit                string   `json:"unit,omitempty"`
	Severity            Severity `json:"severity"`
	SuggestedResolution Strategy `json:"suggestedResolution"`
}

// Conflict is a detected divergence between the two views of a pairing.
// Conflicts are never deleted, only marked resolved.
type Conflict struct {
	ID          string               `json:"id"`
	CircuitID   string               `json:"circuitId"`
	ScheduleID  string               `json:"scheduleId"`
	Comparisons []PropertyComparison `json:"comparisons"`
	Resolved    bool                 `json:"resolved"`
	Strategy    Strategy             `json:"strategy,omitempty"`
	DetectedAt  time.Time            `json:"detectedAt"`
	ResolvedAt  time.Time            `json:"resolvedAt,omitzero"`
}

// MaxSeverity returns the highest severity among the comparisons.
func (c *Conflict) MaxSeverity() Severity {
	max := SeverityLow
	for _, cmp := range c.Comparisons {
		if severityRank(cmp.Severity) > severityRank(max) {
			max = cmp.Severity
		}
	}
	return max
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// PairingState describes where a circuit/schedule pairing sits in the
// sync lifecycle.
type PairingState string

const (
	StateInSync     PairingState = "in-sync"
	StateDirty      PairingState = "dirty"
	StateConflicted PairingState = "conflicted"
	StateResolved   PairingState = "resolved"
)

// Stats aggregates coordinator counters for dashboards and the CLI.
type Stats struct {
	TotalCircuits     int       `json:"totalCircuits"`
	TotalSchedules    int       `json:"totalSchedules"`
	ChangedCircuits   int       `json:"changedCircuits"`
	OpenConflicts     int       `json:"openConflicts"`
	ResolvedConflicts int       `json:"resolvedConflicts"`
	TotalMutations    uint64    `json:"totalMutations"`
	LastSync          time.Time `json:"lastSync,omitzero"`
}

// snapshot is the opaque state triple captured around every mutation.
type snapshot struct {
	circuits  map[string]*UnifiedCircuitData
	schedules map[string]*LoadSchedule
	conflicts map[string]*Conflict
}

func cloneCircuits(src map[string]*UnifiedCircuitData) map[string]*UnifiedCircuitData {
	out := make(map[string]*UnifiedCircuitData, len(src))
	for id, c := range src {
		clone := *c
		out[id] = &clone
	}
	return out
}

func cloneSchedules(src map[string]*LoadSchedule) map[string]*LoadSchedule {
	out := make(map[string]*LoadSchedule, len(src))
	for id, s := range src {
		clone := *s
		clone.Items = make([]LoadItem, len(s.Items))
		copy(clone.Items, s.Items)
		out[id] = &clone
	}
	return out
}

func cloneConflicts(src map[string]*Conflict) map[string]*Conflict {
	out := make(map[string]*Conflict, len(src))
	for id, c := range src {
		clone := *c
		clone.Comparisons = make([]PropertyComparison, len(c.Comparisons))
		copy(clone.Comparisons, c.Comparisons)
		out[id] = &clone
	}
	return out
}
