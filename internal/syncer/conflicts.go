package syncer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voltflow/voltflow-go/internal/errors"
	"github.com/voltflow/voltflow-go/internal/events"
)

// comparedProperty describes one shared property of the two views and
// how a divergence on it is graded.
type comparedProperty struct {
	name     string
	unit     string
	severity Severity
	circuit  func(*UnifiedCircuitData) any
	schedule func(*LoadSchedule) any
}

// sharedProperties lists every property both views carry. Conductor
// size and breaker rating drive protection coordination, so divergence
// there is critical; free-text fields are low.
var sharedProperties = []comparedProperty{
	{
		name:     "conductorSize",
		severity: SeverityCritical,
		circuit:  func(c *UnifiedCircuitData) any { return c.ConductorSize },
		schedule: func(s *LoadSchedule) any { return s.ConductorSize },
	},
	{
		name:     "breakerRating",
		unit:     "A",
		severity: SeverityCritical,
		circuit:  func(c *UnifiedCircuitData) any { return c.BreakerRating },
		schedule: func(s *LoadSchedule) any { return s.BreakerRating },
	},
	{
		name:     "loadCurrent",
		unit:     "A",
		severity: SeverityHigh,
		circuit:  func(c *UnifiedCircuitData) any { return c.LoadCurrent },
		schedule: func(s *LoadSchedule) any { return s.LoadCurrent },
	},
	{
		name:     "name",
		severity: SeverityMedium,
		circuit:  func(c *UnifiedCircuitData) any { return c.Name },
		schedule: func(s *LoadSchedule) any { return s.Name },
	},
	{
		name:     "description",
		severity: SeverityLow,
		circuit:  func(c *UnifiedCircuitData) any { return c.Description },
		schedule: func(s *LoadSchedule) any { return s.Description },
	},
}

// compareViews returns one PropertyComparison per differing shared
// property of the pairing.
func compareViews(circuit *UnifiedCircuitData, schedule *LoadSchedule) []PropertyComparison {
	var comparisons []PropertyComparison
	for _, prop := range sharedProperties {
		a, b := prop.circuit(circuit), prop.schedule(schedule)
		if a == b {
			continue
		}
		suggested := StrategyVoltageDropWins
		if prop.severity == SeverityCritical {
			suggested = StrategyManual
		}
		comparisons = append(comparisons, PropertyComparison{
			Property:            prop.name,
			ValueA:              a,
			ValueB:              b,
			Unit:                prop.unit,
			Severity:            prop.severity,
			SuggestedResolution: suggested,
		})
	}
	return comparisons
}

// detectConflictLocked compares the pairing for circuitID and opens a
// conflict when the views diverge and no conflict is already open for
// the pairing. Caller holds c.mu.
func (c *Coordinator) detectConflictLocked(circuitID string) *Conflict {
	circuit, ok := c.circuits[circuitID]
	if !ok {
		return nil
	}
	schedule := c.scheduleForCircuitLocked(circuitID)
	if schedule == nil {
		return nil
	}

	comparisons := compareViews(circuit, schedule)
	if len(comparisons) == 0 {
		return nil
	}
	if open := c.openConflictLocked(circuitID); open != nil {
		// Comparisons are historical; the open conflict stands as
		// detected until it is resolved.
		return open
	}

	conflict := &Conflict{
		ID:          uuid.New().String(),
		CircuitID:   circuitID,
		ScheduleID:  schedule.ID,
		Comparisons: comparisons,
		DetectedAt:  time.Now(),
	}
	c.conflicts[conflict.ID] = conflict

	c.log.Append(events.TypeConflictDetected, events.SourceCoordinator,
		fmt.Sprintf("%d properties diverge on circuit %s", len(comparisons), circuitID),
		events.ConflictInfo{
			ConflictID: conflict.ID,
			CircuitID:  circuitID,
			Severity:   string(conflict.MaxSeverity()),
		})
	c.metrics.SetOpenConflicts(c.openConflictCountLocked())
	c.logger.Warn("conflict detected",
		"conflict_id", conflict.ID,
		"circuit_id", circuitID,
		"properties", len(comparisons),
		"severity", string(conflict.MaxSeverity()),
	)
	return conflict
}

func (c *Coordinator) scheduleForCircuitLocked(circuitID string) *LoadSchedule {
	for _, s := range c.schedules {
		if s.CircuitID == circuitID {
			return s
		}
	}
	return nil
}

func (c *Coordinator) openConflictLocked(circuitID string) *Conflict {
	for _, conflict := range c.conflicts {
		if conflict.CircuitID == circuitID && !conflict.Resolved {
			return conflict
		}
	}
	return nil
}

func (c *Coordinator) openConflictCountLocked() int {
	n := 0
	for _, conflict := range c.conflicts {
		if !conflict.Resolved {
			n++
		}
	}
	return n
}

// ResolveConflict marks the conflict resolved with the chosen strategy
// and reconciles the two views accordingly. Critical conflicts accept
// only the manual strategy. The stored comparisons are never rewritten.
func (c *Coordinator) ResolveConflict(id string, strategy Strategy) error {
	switch strategy {
	case StrategyVoltageDropWins, StrategyScheduleWins, StrategyManual, StrategyMerge:
	default:
		return errors.Newf("unknown resolution strategy: %q", strategy).
			Component("syncer").
			Category(errors.CategoryValidation).
			Build()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	conflict, ok := c.conflicts[id]
	if !ok {
		return errors.Newf("unknown conflict: %q", id).
			Component("syncer").
			Category(errors.CategoryConflict).
			Build()
	}
	if conflict.Resolved {
		return errors.Newf("conflict %s already resolved with strategy %q", id, conflict.Strategy).
			Component("syncer").
			Category(errors.CategoryConflict).
			Build()
	}
	if conflict.MaxSeverity() == SeverityCritical && strategy != StrategyManual {
		return errors.Newf("critical conflict %s requires manual resolution, got %q", id, strategy).
			Component("syncer").
			Category(errors.CategoryConflict).
			Context("severity", string(SeverityCritical)).
			Build()
	}

	c.pushSnapshotLocked()
	c.applyStrategyLocked(conflict, strategy)

	conflict.Resolved = true
	conflict.Strategy = strategy
	conflict.ResolvedAt = time.Now()
	c.recordCurrentLocked()

	c.log.Append(events.TypeConflictResolved, events.SourceCoordinator,
		fmt.Sprintf("conflict on circuit %s resolved", conflict.CircuitID),
		events.ConflictInfo{
			ConflictID: conflict.ID,
			CircuitID:  conflict.CircuitID,
			Strategy:   string(strategy),
		})
	c.metrics.SetOpenConflicts(c.openConflictCountLocked())
	c.metrics.RecordConflictResolved()
	c.logger.Info("conflict resolved",
		"conflict_id", conflict.ID,
		"circuit_id", conflict.CircuitID,
		"strategy", string(strategy),
	)
	return nil
}

// applyStrategyLocked reconciles the live views. Manual leaves the data
// as the user already edited it; merge takes the calculation-relevant
// side from the voltage-drop view and free text from the schedule.
func (c *Coordinator) applyStrategyLocked(conflict *Conflict, strategy Strategy) {
	circuit := c.circuits[conflict.CircuitID]
	schedule := c.schedules[conflict.ScheduleID]
	if circuit == nil || schedule == nil {
		return
	}

	switch strategy {
	case StrategyVoltageDropWins:
		schedule.ConductorSize = circuit.ConductorSize
		schedule.BreakerRating = circuit.BreakerRating
		schedule.LoadCurrent = circuit.LoadCurrent
		schedule.Name = circuit.Name
		schedule.Description = circuit.Description
		schedule.UpdatedAt = time.Now()
	case StrategyScheduleWins:
		circuit.ConductorSize = schedule.ConductorSize
		circuit.BreakerRating = schedule.BreakerRating
		circuit.LoadCurrent = schedule.LoadCurrent
		circuit.Name = schedule.Name
		circuit.Description = schedule.Description
		circuit.UpdatedAt = time.Now()
	case StrategyMerge:
		schedule.ConductorSize = circuit.ConductorSize
		schedule.BreakerRating = circuit.BreakerRating
		schedule.LoadCurrent = circuit.LoadCurrent
		circuit.Name = schedule.Name
		circuit.Description = schedule.Description
		now := time.Now()
		circuit.UpdatedAt = now
		schedule.UpdatedAt = now
	case StrategyManual:
		// The caller already edited both views by hand.
	}
}
