package events

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Filter selects a slice of the log. Every predicate short-circuits to
// "match everything" when its value is empty, so a zero Filter returns
// the whole log newest-first.
type Filter struct {
	Types   []Type
	Sources []Source
	From    time.Time // inclusive; zero means unbounded
	To      time.Time // inclusive; zero means unbounded
	Search  string    // case-insensitive substring over type/source/message
	Offset  int
	Limit   int // 0 means no limit
}

func (f *Filter) matches(e *Event) bool {
	if len(f.Types) > 0 && !containsType(f.Types, e.Type) {
		return false
	}
	if len(f.Sources) > 0 && !containsSource(f.Sources, e.Source) {
		return false
	}
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Timestamp.After(f.To) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(string(e.Type)), needle) &&
			!strings.Contains(strings.ToLower(string(e.Source)), needle) &&
			!strings.Contains(strings.ToLower(e.Message), needle) {
			return false
		}
	}
	return true
}

func containsType(set []Type, t Type) bool {
	for _, candidate := range set {
		if candidate == t {
			return true
		}
	}
	return false
}

func containsSource(set []Source, s Source) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// Stats are cumulative counters for the log lifetime.
type Stats struct {
	Appended       uint64
	Queried        uint64
	CountsByType   map[Type]uint64
	CountsBySource map[Source]uint64
}

// Log is the append-only event store.
type Log struct {
	mu      sync.RWMutex
	entries []Event
	nextSeq uint64
	queried uint64
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append records a new event and returns the stored copy.
func (l *Log) Append(eventType Type, source Source, message string, payload Payload) Event {
	e := newEvent(eventType, source, message, payload)

	l.mu.Lock()
	defer l.mu.Unlock()
	e.seq = l.nextSeq
	l.nextSeq++
	l.entries = append(l.entries, e)
	return e
}

// Len returns the number of appended events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Query applies the filter pipeline: type set, source set, inclusive
// time range, substring search, then newest-first sort and offset/limit
// pagination. It returns the page and the total match count before
// pagination.
func (l *Log) Query(filter Filter) ([]Event, int) {
	l.mu.Lock()
	l.queried++
	entries := make([]Event, len(l.entries))
	copy(entries, l.entries)
	l.mu.Unlock()

	matches := entries[:0]
	for i := range entries {
		if filter.matches(&entries[i]) {
			matches = append(matches, entries[i])
		}
	}

	// Newest first; append order breaks timestamp ties so pagination
	// is deterministic.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Timestamp.Equal(matches[j].Timestamp) {
			return matches[i].seq > matches[j].seq
		}
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})

	total := len(matches)

	if filter.Offset > 0 {
		if filter.Offset >= len(matches) {
			return []Event{}, total
		}
		matches = matches[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matches) {
		matches = matches[:filter.Limit]
	}

	page := make([]Event, len(matches))
	copy(page, matches)
	return page, total
}

// Stats reports cumulative counters for the log.
func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{
		Appended:       uint64(len(l.entries)),
		Queried:        l.queried,
		CountsByType:   make(map[Type]uint64),
		CountsBySource: make(map[Source]uint64),
	}
	for i := range l.entries {
		stats.CountsByType[l.entries[i].Type]++
		stats.CountsBySource[l.entries[i].Source]++
	}
	return stats
}
