package domain

import "fmt"

// EventKind tags a session event.
type EventKind int

const (
	EventSessionEstablished EventKind = iota + 1
	EventChat
	EventHeader
	EventRoster
	EventWorldReady
	EventEnd
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventSessionEstablished:
		return "session"
	case EventChat:
		return "chat"
	case EventHeader:
		return "header"
	case EventRoster:
		return "roster"
	case EventWorldReady:
		return "world_ready"
	case EventEnd:
		return "end"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Terminal reports whether the event ends the session.
func (k EventKind) Terminal() bool {
	return k == EventEnd || k == EventError
}

// Event is a tagged union of everything a session can emit. Only the fields
// belonging to Kind are set.
type Event struct {
	Kind EventKind

	// Text is the raw chat message (EventChat) or header payload (EventHeader).
	Text string

	// RosterMode and RosterCount describe an EventRoster.
	RosterMode  RosterMode
	RosterCount int

	// Reason is the end reason of an EventEnd.
	Reason string

	// Err is the failure carried by an EventError.
	Err error
}

func EstablishedEvent() Event {
	return Event{Kind: EventSessionEstablished}
}

func ChatEvent(message string) Event {
	return Event{Kind: EventChat, Text: message}
}

func HeaderEvent(header string) Event {
	return Event{Kind: EventHeader, Text: header}
}

func RosterEvent(mode RosterMode, count int) Event {
	return Event{Kind: EventRoster, RosterMode: mode, RosterCount: count}
}

func WorldReadyEvent() Event {
	return Event{Kind: EventWorldReady}
}

func EndEvent(reason string) Event {
	return Event{Kind: EventEnd, Reason: reason}
}

func ErrorEvent(err error) Event {
	return Event{Kind: EventError, Err: err}
}
