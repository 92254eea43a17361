package syncer

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voltflow/voltflow-go/internal/conf"
	"github.com/voltflow/voltflow-go/internal/errors"
	"github.com/voltflow/voltflow-go/internal/events"
	"github.com/voltflow/voltflow-go/internal/observability"
)

// Coordinator owns the canonical circuit and load-schedule collections.
// All cross-view visibility of edits flows through it: mutations push a
// history snapshot, apply, append an audit event and re-run conflict
// detection for the touched pairing.
type Coordinator struct {
	mu        sync.Mutex
	circuits  map[string]*UnifiedCircuitData
	schedules map[string]*LoadSchedule
	conflicts map[string]*Conflict

	// history[index] is always the current state; entries above index
	// form the redo tail.
	history []snapshot
	index   int

	dirty     map[string]struct{}
	mutations uint64
	lastSync  time.Time

	isSyncing atomic.Bool

	settings conf.SyncSettings
	log      *events.Log
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates an empty coordinator. metrics and logger may be nil.
func New(settings conf.SyncSettings, metrics *observability.Metrics, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		circuits:  make(map[string]*UnifiedCircuitData),
		schedules: make(map[string]*LoadSchedule),
		conflicts: make(map[string]*Conflict),
		dirty:     make(map[string]struct{}),
		settings:  settings,
		log:       events.NewLog(),
		metrics:   metrics,
		logger:    logger,
	}
	c.history = []snapshot{c.captureLocked()}
	return c
}

// EventLog exposes the append-only audit log for querying.
func (c *Coordinator) EventLog() *events.Log {
	return c.log
}

// Events queries the audit log, returning the page and the total match
// count.
func (c *Coordinator) Events(filter events.Filter) ([]events.Event, int) {
	return c.log.Query(filter)
}

func (c *Coordinator) captureLocked() snapshot {
	return snapshot{
		circuits:  cloneCircuits(c.circuits),
		schedules: cloneSchedules(c.schedules),
		conflicts: cloneConflicts(c.conflicts),
	}
}

func (c *Coordinator) restoreLocked(s snapshot) {
	c.circuits = cloneCircuits(s.circuits)
	c.schedules = cloneSchedules(s.schedules)
	c.conflicts = cloneConflicts(s.conflicts)
}

// pushSnapshotLocked truncates any redo tail ahead of a mutation.
func (c *Coordinator) pushSnapshotLocked() {
	c.history = c.history[:c.index+1]
}

// recordCurrentLocked appends the post-mutation state and advances the
// index onto it.
func (c *Coordinator) recordCurrentLocked() {
	c.history = append(c.history, c.captureLocked())
	c.index++
}

// UpdateCircuit creates or updates the voltage-drop side view. The
// pairing is re-checked for conflicts afterwards.
func (c *Coordinator) UpdateCircuit(data UnifiedCircuitData) error {
	if data.ID == "" {
		return errors.Newf("circuit id is required").
			Component("syncer").
			Category(errors.CategoryValidation).
			Build()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pushSnapshotLocked()

	changed := changedCircuitProperties(c.circuits[data.ID], &data)
	data.UpdatedAt = time.Now()
	stored := data
	c.circuits[data.ID] = &stored

	c.dirty[data.ID] = struct{}{}
	c.mutations++

	c.log.Append(events.TypeCircuitUpdated, events.SourceVoltageDrop,
		fmt.Sprintf("circuit %s updated", data.ID),
		events.CircuitChange{CircuitID: data.ID, Properties: changed})
	c.metrics.RecordMutation("update-circuit")

	// Detect before recording so the history entry carries any conflict
	// this edit opened.
	c.detectConflictLocked(data.ID)
	c.recordCurrentLocked()
	return nil
}

// UpdateLoadSchedule creates or updates the schedule side view.
func (c *Coordinator) UpdateLoadSchedule(data LoadSchedule) error {
	if data.ID == "" {
		return errors.Newf("load schedule id is required").
			Component("syncer").
			Category(errors.CategoryValidation).
			Build()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pushSnapshotLocked()

	data.UpdatedAt = time.Now()
	stored := data
	stored.Items = make([]LoadItem, len(data.Items))
	copy(stored.Items, data.Items)
	c.schedules[data.ID] = &stored

	if data.CircuitID != "" {
		c.dirty[data.CircuitID] = struct{}{}
	}
	c.mutations++

	c.log.Append(events.TypeScheduleUpdated, events.SourceSchedule,
		fmt.Sprintf("load schedule %s updated", data.ID),
		events.ScheduleChange{ScheduleID: data.ID, ItemCount: len(data.Items)})
	c.metrics.RecordMutation("update-schedule")

	if data.CircuitID != "" {
		c.detectConflictLocked(data.CircuitID)
	}
	c.recordCurrentLocked()
	return nil
}

// DeleteCircuit removes the voltage-drop side view.
func (c *Coordinator) DeleteCircuit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.circuits[id]; !ok {
		return errors.Newf("unknown circuit: %q", id).
			Component("syncer").
			Category(errors.CategorySyncState).
			Build()
	}

	c.pushSnapshotLocked()
	delete(c.circuits, id)
	delete(c.dirty, id)
	c.mutations++
	c.recordCurrentLocked()

	c.log.Append(events.TypeCircuitDeleted, events.SourceVoltageDrop,
		fmt.Sprintf("circuit %s deleted", id),
		events.CircuitChange{CircuitID: id})
	c.metrics.RecordMutation("delete-circuit")
	return nil
}

// DeleteLoadSchedule removes the schedule side view.
func (c *Coordinator) DeleteLoadSchedule(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	schedule, ok := c.schedules[id]
	if !ok {
		return errors.Newf("unknown load schedule: %q", id).
			Component("syncer").
			Category(errors.CategorySyncState).
			Build()
	}

	c.pushSnapshotLocked()
	if schedule.CircuitID != "" {
		c.dirty[schedule.CircuitID] = struct{}{}
	}
	delete(c.schedules, id)
	c.mutations++
	c.recordCurrentLocked()

	c.log.Append(events.TypeScheduleDeleted, events.SourceSchedule,
		fmt.Sprintf("load schedule %s deleted", id),
		events.ScheduleChange{ScheduleID: id})
	c.metrics.RecordMutation("delete-schedule")
	return nil
}

// CanUndo reports whether an undo step is available.
func (c *Coordinator) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index > 0
}

// CanRedo reports whether a redo step is available.
func (c *Coordinator) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index < len(c.history)-1
}

// Undo restores the state captured before the most recent mutation.
// At the bottom of the stack it is a no-op returning false.
func (c *Coordinator) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == 0 {
		return false
	}
	c.index--
	c.restoreLocked(c.history[c.index])
	c.logger.Debug("undo", "history_index", c.index)
	return true
}

// Redo re-applies the most recently undone mutation. At the top of the
// stack it is a no-op returning false.
func (c *Coordinator) Redo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index >= len(c.history)-1 {
		return false
	}
	c.index++
	c.restoreLocked(c.history[c.index])
	c.logger.Debug("redo", "history_index", c.index)
	return true
}

// SyncNow runs a full reconciliation pass: conflict detection over
// every pairing, then the dirty set is cleared. A concurrent call while
// a run is in flight is a no-op returning false. The run is not
// cancellable.
func (c *Coordinator) SyncNow() bool {
	if !c.isSyncing.CompareAndSwap(false, true) {
		c.metrics.RecordSyncSuppressed()
		c.logger.Debug("sync already in flight, suppressed")
		return false
	}
	defer c.isSyncing.Store(false)

	c.mu.Lock()
	changed := len(c.dirty)
	c.mu.Unlock()

	c.log.Append(events.TypeSyncStarted, events.SourceCoordinator,
		"synchronization started",
		events.SyncRun{ChangedCircuits: changed})

	if c.settings.SimulatedLatencyMs > 0 {
		time.Sleep(time.Duration(c.settings.SimulatedLatencyMs) * time.Millisecond)
	}

	c.mu.Lock()
	for id := range c.circuits {
		c.detectConflictLocked(id)
	}
	c.dirty = make(map[string]struct{})
	c.lastSync = time.Now()
	open := c.openConflictCountLocked()
	c.mu.Unlock()

	c.log.Append(events.TypeSyncCompleted, events.SourceCoordinator,
		"synchronization completed",
		events.SyncRun{ChangedCircuits: changed, OpenConflicts: open})
	c.metrics.RecordSyncRun()
	c.logger.Info("sync completed",
		"changed_circuits", changed,
		"open_conflicts", open,
	)
	return true
}

// Circuit returns a copy of the voltage-drop side view.
func (c *Coordinator) Circuit(id string) (UnifiedCircuitData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	circuit, ok := c.circuits[id]
	if !ok {
		return UnifiedCircuitData{}, false
	}
	return *circuit, true
}

// Schedule returns a copy of the schedule side view.
func (c *Coordinator) Schedule(id string) (LoadSchedule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	schedule, ok := c.schedules[id]
	if !ok {
		return LoadSchedule{}, false
	}
	clone := *schedule
	clone.Items = make([]LoadItem, len(schedule.Items))
	copy(clone.Items, schedule.Items)
	return clone, true
}

// Conflicts returns copies of every conflict, open and resolved.
func (c *Coordinator) Conflicts() []Conflict {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Conflict, 0, len(c.conflicts))
	for _, conflict := range c.conflicts {
		clone := *conflict
		clone.Comparisons = make([]PropertyComparison, len(conflict.Comparisons))
		copy(clone.Comparisons, conflict.Comparisons)
		out = append(out, clone)
	}
	return out
}

// OpenConflict returns the open conflict for a circuit, if any.
func (c *Coordinator) OpenConflict(circuitID string) (Conflict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	open := c.openConflictLocked(circuitID)
	if open == nil {
		return Conflict{}, false
	}
	clone := *open
	clone.Comparisons = make([]PropertyComparison, len(open.Comparisons))
	copy(clone.Comparisons, open.Comparisons)
	return clone, true
}

// State reports where the pairing for circuitID sits in the sync
// lifecycle.
func (c *Coordinator) State(circuitID string) PairingState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openConflictLocked(circuitID) != nil {
		return StateConflicted
	}
	if _, dirty := c.dirty[circuitID]; dirty {
		return StateDirty
	}
	for _, conflict := range c.conflicts {
		if conflict.CircuitID == circuitID && conflict.Resolved {
			return StateResolved
		}
	}
	return StateInSync
}

// Stats returns the aggregate coordinator counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	resolved := 0
	for _, conflict := range c.conflicts {
		if conflict.Resolved {
			resolved++
		}
	}
	return Stats{
		TotalCircuits:     len(c.circuits),
		TotalSchedules:    len(c.schedules),
		ChangedCircuits:   len(c.dirty),
		OpenConflicts:     c.openConflictCountLocked(),
		ResolvedConflicts: resolved,
		TotalMutations:    c.mutations,
		LastSync:          c.lastSync,
	}
}

// changedCircuitProperties lists the properties that differ between the
// previous and next versions, for the audit event payload.
func changedCircuitProperties(previous, next *UnifiedCircuitData) []string {
	if previous == nil {
		return []string{"created"}
	}

	var changed []string
	if previous.Name != next.Name {
		changed = append(changed, "name")
	}
	if previous.ConductorSize != next.ConductorSize {
		changed = append(changed, "conductorSize")
	}
	if previous.ConductorMaterial != next.ConductorMaterial {
		changed = append(changed, "conductorMaterial")
	}
	if previous.ConduitMaterial != next.ConduitMaterial {
		changed = append(changed, "conduitMaterial")
	}
	if previous.BreakerRating != next.BreakerRating {
		changed = append(changed, "breakerRating")
	}
	if previous.LoadCurrent != next.LoadCurrent {
		changed = append(changed, "loadCurrent")
	}
	if previous.SystemVoltage != next.SystemVoltage {
		changed = append(changed, "systemVoltage")
	}
	if previous.ConductorLengthFt != next.ConductorLengthFt {
		changed = append(changed, "conductorLength")
	}
	if previous.Description != next.Description {
		changed = append(changed, "description")
	}
	return changed
}
