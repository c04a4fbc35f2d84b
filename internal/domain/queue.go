package domain

import "time"

type RosterMode int

// Roster modes as pushed by the server's team/list updates. Modes 1 and 2
// (removal and info update of the list itself) do not change the length.
const (
	RosterReset  RosterMode = 0
	RosterAdd    RosterMode = 3
	RosterRemove RosterMode = 4
)

// QueueState tracks the queue of one session. The zero value has neither a
// total length nor a previous position.
type QueueState struct {
	total        int
	totalKnown   bool
	lastPosition int
	positionSeen bool
}

// ApplyRoster adjusts the tracked total length and reports whether mode was
// one that affects it. Adjustments on an unknown total start from zero.
func (s *QueueState) ApplyRoster(mode RosterMode, count int) bool {
	switch mode {
	case RosterReset:
		s.total = count
	case RosterAdd:
		s.total += count
	case RosterRemove:
		s.total -= count
	default:
		return false
	}
	s.totalKnown = true
	return true
}

// Total returns the tracked total length, or nil while it is unknown.
func (s *QueueState) Total() *int {
	if !s.totalKnown {
		return nil
	}
	total := s.total
	return &total
}

// ObservePosition records position as the latest one and reports whether it
// differs from the previous position.
func (s *QueueState) ObservePosition(position int) bool {
	changed := !s.positionSeen || s.lastPosition != position
	s.lastPosition = position
	s.positionSeen = true
	return changed
}

func (s *QueueState) LastPosition() (int, bool) {
	return s.lastPosition, s.positionSeen
}

// Observation is one sample of the queue. QueueLength is nil when no roster
// event had been seen yet.
type Observation struct {
	At          time.Time
	Position    int
	QueueLength *int
}

// ObservationLog is the append-only sample history of one session.
type ObservationLog struct {
	entries []Observation
}

func (l *ObservationLog) Append(observation Observation) {
	l.entries = append(l.entries, observation)
}

func (l *ObservationLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the samples in append order.
func (l *ObservationLog) Entries() []Observation {
	entries := make([]Observation, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Record is a finished observation log, identified by its termination time.
type Record struct {
	At           time.Time
	Observations []Observation
}

func (r Record) Key() int64 {
	return r.At.UnixMilli()
}
