package syncer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltflow/voltflow-go/internal/conf"
	"github.com/voltflow/voltflow-go/internal/errors"
	"github.com/voltflow/voltflow-go/internal/events"
)

func newTestCoordinator() *Coordinator {
	return New(conf.SyncSettings{}, nil, nil)
}

func circuitFixture(id string) UnifiedCircuitData {
	return UnifiedCircuitData{
		ID:                id,
		Name:              "Panel A circuit",
		ConductorSize:     "12 AWG",
		ConductorMaterial: "copper",
		BreakerRating:     20,
		LoadCurrent:       16,
		SystemVoltage:     230,
		ConductorLengthFt: 150,
	}
}

func scheduleFixture(id, circuitID string) LoadSchedule {
	return LoadSchedule{
		ID:            id,
		CircuitID:     circuitID,
		Name:          "Panel A circuit",
		ConductorSize: "12 AWG",
		BreakerRating: 20,
		LoadCurrent:   16,
	}
}

func TestUpdateCircuitStoresCopy(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))

	got, ok := c.Circuit("c1")
	require.True(t, ok)
	assert.Equal(t, "12 AWG", got.ConductorSize)
	assert.False(t, got.UpdatedAt.IsZero())

	assert.Equal(t, StateDirty, c.State("c1"))
}

func TestUpdateCircuitRequiresID(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	err := c.UpdateCircuit(UnifiedCircuitData{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestDeleteUnknownCircuit(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	err := c.DeleteCircuit("missing")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategorySyncState))
}

func TestConflictDetectedOnDivergence(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))

	schedule := scheduleFixture("s1", "c1")
	schedule.ConductorSize = "10 AWG"
	require.NoError(t, c.UpdateLoadSchedule(schedule))

	conflict, ok := c.OpenConflict("c1")
	require.True(t, ok)
	assert.Equal(t, StateConflicted, c.State("c1"))
	assert.Equal(t, SeverityCritical, conflict.MaxSeverity())

	require.Len(t, conflict.Comparisons, 1)
	cmp := conflict.Comparisons[0]
	assert.Equal(t, "conductorSize", cmp.Property)
	assert.Equal(t, "12 AWG", cmp.ValueA)
	assert.Equal(t, "10 AWG", cmp.ValueB)
	assert.Equal(t, StrategyManual, cmp.SuggestedResolution)

	_, total := c.Events(events.Filter{Types: []events.Type{events.TypeConflictDetected}})
	assert.Equal(t, 1, total)
}

func TestNoConflictWhenViewsAgree(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	require.NoError(t, c.UpdateLoadSchedule(scheduleFixture("s1", "c1")))

	_, ok := c.OpenConflict("c1")
	assert.False(t, ok)
	assert.Equal(t, StateDirty, c.State("c1"))
}

func TestExistingOpenConflictIsNotDuplicated(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))

	schedule := scheduleFixture("s1", "c1")
	schedule.ConductorSize = "10 AWG"
	require.NoError(t, c.UpdateLoadSchedule(schedule))

	// Further edits while the conflict is open do not open a second one.
	schedule.LoadCurrent = 18
	require.NoError(t, c.UpdateLoadSchedule(schedule))

	assert.Len(t, c.Conflicts(), 1)
}

func TestCriticalConflictRequiresManual(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	schedule := scheduleFixture("s1", "c1")
	schedule.BreakerRating = 30
	require.NoError(t, c.UpdateLoadSchedule(schedule))

	conflict, ok := c.OpenConflict("c1")
	require.True(t, ok)

	for _, strategy := range []Strategy{StrategyVoltageDropWins, StrategyScheduleWins, StrategyMerge} {
		err := c.ResolveConflict(conflict.ID, strategy)
		require.Error(t, err, string(strategy))
		assert.True(t, errors.IsCategory(err, errors.CategoryConflict))
	}

	// Sync clears the dirty flag; the open conflict survives the run.
	require.True(t, c.SyncNow())
	assert.Equal(t, StateConflicted, c.State("c1"))

	require.NoError(t, c.ResolveConflict(conflict.ID, StrategyManual))
	assert.Equal(t, StateResolved, c.State("c1"))
}

func TestResolveVoltageDropWins(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	schedule := scheduleFixture("s1", "c1")
	schedule.LoadCurrent = 18 // high severity, auto-resolvable
	require.NoError(t, c.UpdateLoadSchedule(schedule))

	conflict, ok := c.OpenConflict("c1")
	require.True(t, ok)
	before := conflict.Comparisons

	require.NoError(t, c.ResolveConflict(conflict.ID, StrategyVoltageDropWins))

	got, _ := c.Schedule("s1")
	assert.InDelta(t, 16, got.LoadCurrent, 1e-9, "schedule takes the voltage-drop value")

	// Resolution marks the conflict but never rewrites the comparisons.
	all := c.Conflicts()
	require.Len(t, all, 1)
	assert.True(t, all[0].Resolved)
	assert.Equal(t, StrategyVoltageDropWins, all[0].Strategy)
	assert.Equal(t, before, all[0].Comparisons)
	assert.False(t, all[0].ResolvedAt.IsZero())

	_, stillOpen := c.OpenConflict("c1")
	assert.False(t, stillOpen)
}

func TestResolveUnknownAndDoubleResolve(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	err := c.ResolveConflict("missing", StrategyManual)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))

	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	schedule := scheduleFixture("s1", "c1")
	schedule.LoadCurrent = 18
	require.NoError(t, c.UpdateLoadSchedule(schedule))
	conflict, _ := c.OpenConflict("c1")

	require.NoError(t, c.ResolveConflict(conflict.ID, StrategyScheduleWins))
	err = c.ResolveConflict(conflict.ID, StrategyScheduleWins)
	require.Error(t, err, "already resolved")
}

func TestUndoRestoresPreMutationState(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	afterFirst, _ := c.Circuit("c1")

	second := circuitFixture("c1")
	second.ConductorSize = "6 AWG"
	require.NoError(t, c.UpdateCircuit(second))

	require.True(t, c.Undo())

	got, ok := c.Circuit("c1")
	require.True(t, ok)
	assert.Equal(t, afterFirst, got, "state equals the snapshot before the second mutation")
}

func TestUndoRedoBoundaries(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	assert.False(t, c.CanUndo())
	assert.False(t, c.CanRedo())
	assert.False(t, c.Undo(), "undo on empty history is a no-op")
	assert.False(t, c.Redo())

	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	assert.True(t, c.CanUndo())
	assert.False(t, c.CanRedo())

	require.True(t, c.Undo())
	_, ok := c.Circuit("c1")
	assert.False(t, ok)
	assert.True(t, c.CanRedo())

	require.True(t, c.Redo())
	_, ok = c.Circuit("c1")
	assert.True(t, ok)
}

func TestNMutationsNUndosNRedos(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	const n = 5
	for i := 0; i < n; i++ {
		circuit := circuitFixture(fmt.Sprintf("c%d", i))
		require.NoError(t, c.UpdateCircuit(circuit))
	}

	var finals []UnifiedCircuitData
	for i := 0; i < n; i++ {
		circuit, ok := c.Circuit(fmt.Sprintf("c%d", i))
		require.True(t, ok)
		finals = append(finals, circuit)
	}

	for i := 0; i < n; i++ {
		require.True(t, c.Undo())
	}
	assert.False(t, c.CanUndo())
	assert.Equal(t, 0, c.Stats().TotalCircuits)

	for i := 0; i < n; i++ {
		require.True(t, c.Redo())
	}
	assert.False(t, c.CanRedo())

	for i := 0; i < n; i++ {
		circuit, ok := c.Circuit(fmt.Sprintf("c%d", i))
		require.True(t, ok)
		assert.Equal(t, finals[i], circuit)
	}
}

func TestMutationTruncatesRedoTail(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	require.NoError(t, c.UpdateCircuit(circuitFixture("c2")))

	require.True(t, c.Undo())
	require.NoError(t, c.UpdateCircuit(circuitFixture("c3")))

	assert.False(t, c.CanRedo(), "new mutation discards the redo tail")
	_, ok := c.Circuit("c2")
	assert.False(t, ok)
}

func TestSyncNowSingleFlight(t *testing.T) {
	t.Parallel()

	c := New(conf.SyncSettings{SimulatedLatencyMs: 60}, nil, nil)
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))

	var wg sync.WaitGroup
	wg.Add(1)
	first := false
	go func() {
		defer wg.Done()
		first = c.SyncNow()
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, c.SyncNow(), "re-entrant call is a no-op")
	wg.Wait()
	assert.True(t, first)

	// Once the run finished a new one may start.
	assert.True(t, c.SyncNow())
}

func TestSyncNowClearsDirtySet(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	require.NoError(t, c.UpdateLoadSchedule(scheduleFixture("s1", "c1")))
	assert.Equal(t, StateDirty, c.State("c1"))

	require.True(t, c.SyncNow())

	assert.Equal(t, StateInSync, c.State("c1"))
	stats := c.Stats()
	assert.Zero(t, stats.ChangedCircuits)
	assert.False(t, stats.LastSync.IsZero())

	_, total := c.Events(events.Filter{Types: []events.Type{
		events.TypeSyncStarted, events.TypeSyncCompleted,
	}})
	assert.Equal(t, 2, total)
}

func TestStats(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateCircuit(circuitFixture("c1")))
	schedule := scheduleFixture("s1", "c1")
	schedule.LoadCurrent = 18
	require.NoError(t, c.UpdateLoadSchedule(schedule))

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalCircuits)
	assert.Equal(t, 1, stats.TotalSchedules)
	assert.Equal(t, 1, stats.ChangedCircuits)
	assert.Equal(t, 1, stats.OpenConflicts)
	assert.Equal(t, uint64(2), stats.TotalMutations)

	conflict, _ := c.OpenConflict("c1")
	require.NoError(t, c.ResolveConflict(conflict.ID, StrategyMerge))
	stats = c.Stats()
	assert.Zero(t, stats.OpenConflicts)
	assert.Equal(t, 1, stats.ResolvedConflicts)
}

func TestDeleteSchedule(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator()
	require.NoError(t, c.UpdateLoadSchedule(scheduleFixture("s1", "c1")))
	require.NoError(t, c.DeleteLoadSchedule("s1"))

	_, ok := c.Schedule("s1")
	assert.False(t, ok)

	err := c.DeleteLoadSchedule("s1")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategorySyncState))
}
