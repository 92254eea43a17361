// Package events provides the append-only synchronization audit log.
// Events are immutable once appended and are only ever queried, never
// mutated or deleted, so the log doubles as a forensic record of every
// sync-coordinator mutation and conflict lifecycle step.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type tags the kind of synchronization event.
type Type string

const (
	TypeCircuitUpdated   Type = "circuit-updated"
	TypeScheduleUpdated  Type = "schedule-updated"
	TypeCircuitDeleted   Type = "circuit-deleted"
	TypeScheduleDeleted  Type = "schedule-deleted"
	TypeConflictDetected Type = "conflict-detected"
	TypeConflictResolved Type = "conflict-resolved"
	TypeSyncStarted      Type = "sync-started"
	TypeSyncCompleted    Type = "sync-completed"
)

// Source tags which side of the system raised the event.
type Source string

const (
	SourceVoltageDrop Source = "voltage-drop"
	SourceSchedule    Source = "load-schedule"
	SourceCoordinator Source = "coordinator"
)

// Payload is the optional typed payload attached to an event. Variants
// are small value types, one per event family.
type Payload interface {
	isPayload()
}

// CircuitChange accompanies circuit-updated and circuit-deleted events.
type CircuitChange struct {
	CircuitID  string   `json:"circuitId"`
	Properties []string `json:"properties,omitempty"`
}

// ScheduleChange accompanies schedule-updated and schedule-deleted events.
type ScheduleChange struct {
	ScheduleID string `json:"scheduleId"`
	ItemCount  int    `json:"itemCount,omitempty"`
}

// ConflictInfo accompanies conflict-detected and conflict-resolved events.
type ConflictInfo struct {
	ConflictID string `json:"conflictId"`
	CircuitID  string `json:"circuitId"`
	Severity   string `json:"severity,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
}

// SyncRun accompanies sync-started and sync-completed events.
type SyncRun struct {
	ChangedCircuits int `json:"changedCircuits"`
	OpenConflicts   int `json:"openConflicts"`
}

func (CircuitChange) isPayload()  {}
func (ScheduleChange) isPayload() {}
func (ConflictInfo) isPayload()   {}
func (SyncRun) isPayload()        {}

// Event is one immutable audit entry.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
	Message   string    `json:"message"`
	Payload   Payload   `json:"payload,omitempty"`

	// seq preserves append order for deterministic sorting when
	// timestamps collide.
	seq uint64
}

func newEvent(eventType Type, source Source, message string, payload Payload) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Message:   message,
		Payload:   payload,
	}
}
