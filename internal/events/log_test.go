package events

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsIdentity(t *testing.T) {
	t.Parallel()

	log := NewLog()
	e := log.Append(TypeCircuitUpdated, SourceVoltageDrop, "conductor size changed",
		CircuitChange{CircuitID: "c1", Properties: []string{"conductorSize"}})

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, TypeCircuitUpdated, e.Type)
	assert.Equal(t, 1, log.Len())

	second := log.Append(TypeSyncStarted, SourceCoordinator, "sync run", nil)
	assert.NotEqual(t, e.ID, second.ID)
}

func TestQueryEmptyFilterReturnsAllNewestFirst(t *testing.T) {
	t.Parallel()

	log := NewLog()
	for i := 0; i < 10; i++ {
		log.Append(TypeCircuitUpdated, SourceVoltageDrop, fmt.Sprintf("edit %d", i), nil)
	}

	page, total := log.Query(Filter{})
	require.Equal(t, 10, total)
	require.Len(t, page, 10)
	assert.Equal(t, "edit 9", page[0].Message)
	assert.Equal(t, "edit 0", page[9].Message)

	for i := 1; i < len(page); i++ {
		assert.False(t, page[i].Timestamp.After(page[i-1].Timestamp))
	}
}

// Paging the full range with a fixed limit reconstructs the unfiltered
// set with no duplicates or omissions.
func TestQueryPaginationIsLossless(t *testing.T) {
	t.Parallel()

	log := NewLog()
	for i := 0; i < 23; i++ {
		log.Append(TypeScheduleUpdated, SourceSchedule, fmt.Sprintf("edit %d", i), nil)
	}

	seen := make(map[string]struct{})
	for offset := 0; ; offset += 7 {
		page, total := log.Query(Filter{Offset: offset, Limit: 7})
		assert.Equal(t, 23, total)
		if len(page) == 0 {
			break
		}
		for _, e := range page {
			_, dup := seen[e.ID]
			assert.False(t, dup, "no duplicates across pages")
			seen[e.ID] = struct{}{}
		}
	}
	assert.Len(t, seen, 23)
}

func TestQueryTypeFilterWithLimit(t *testing.T) {
	t.Parallel()

	log := NewLog()

	// 12 conflict-detected entries interleaved with 8 other events.
	var conflictMessages []string
	for i := 0; i < 12; i++ {
		msg := fmt.Sprintf("conflict %d", i)
		conflictMessages = append(conflictMessages, msg)
		log.Append(TypeConflictDetected, SourceCoordinator, msg,
			ConflictInfo{ConflictID: fmt.Sprintf("cf%d", i), CircuitID: "c1", Severity: "high"})
		if i < 8 {
			log.Append(TypeCircuitUpdated, SourceVoltageDrop, fmt.Sprintf("edit %d", i), nil)
		}
	}

	page, total := log.Query(Filter{
		Types: []Type{TypeConflictDetected},
		Limit: 5,
	})

	assert.Equal(t, 12, total)
	require.Len(t, page, 5)
	for i, e := range page {
		assert.Equal(t, TypeConflictDetected, e.Type)
		// Newest first: conflict 11 down to conflict 7.
		assert.Equal(t, conflictMessages[11-i], e.Message)
	}
}

func TestQuerySourceAndSearchFilters(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(TypeCircuitUpdated, SourceVoltageDrop, "Conductor size changed", nil)
	log.Append(TypeScheduleUpdated, SourceSchedule, "breaker rating changed", nil)
	log.Append(TypeSyncCompleted, SourceCoordinator, "sync finished", nil)

	page, total := log.Query(Filter{Sources: []Source{SourceSchedule}})
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, TypeScheduleUpdated, page[0].Type)

	// Search is case-insensitive and spans type, source and message.
	_, total = log.Query(Filter{Search: "CONDUCTOR"})
	assert.Equal(t, 1, total)
	_, total = log.Query(Filter{Search: "changed"})
	assert.Equal(t, 2, total)
	_, total = log.Query(Filter{Search: "sync"})
	assert.Equal(t, 1, total)
	_, total = log.Query(Filter{Search: "voltage-drop"})
	assert.Equal(t, 1, total)
}

func TestQueryTimeRangeIsInclusive(t *testing.T) {
	t.Parallel()

	log := NewLog()
	first := log.Append(TypeCircuitUpdated, SourceVoltageDrop, "first", nil)
	time.Sleep(2 * time.Millisecond)
	second := log.Append(TypeCircuitUpdated, SourceVoltageDrop, "second", nil)

	_, total := log.Query(Filter{From: first.Timestamp, To: second.Timestamp})
	assert.Equal(t, 2, total, "both boundary timestamps included")

	_, total = log.Query(Filter{From: second.Timestamp})
	assert.Equal(t, 1, total)

	_, total = log.Query(Filter{To: first.Timestamp})
	assert.Equal(t, 1, total)
}

func TestQueryOffsetPastEnd(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(TypeSyncStarted, SourceCoordinator, "run", nil)

	page, total := log.Query(Filter{Offset: 5})
	assert.Equal(t, 1, total)
	assert.Empty(t, page)
}

func TestStats(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(TypeConflictDetected, SourceCoordinator, "a", nil)
	log.Append(TypeConflictDetected, SourceCoordinator, "b", nil)
	log.Append(TypeCircuitUpdated, SourceVoltageDrop, "c", nil)
	log.Query(Filter{})

	stats := log.Stats()
	assert.Equal(t, uint64(3), stats.Appended)
	assert.Equal(t, uint64(1), stats.Queried)
	assert.Equal(t, uint64(2), stats.CountsByType[TypeConflictDetected])
	assert.Equal(t, uint64(1), stats.CountsBySource[SourceVoltageDrop])
}
