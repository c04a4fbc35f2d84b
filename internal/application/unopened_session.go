package application

import (
	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
)

// unopenedSession stands in for a session that could not be opened, so the
// failure is observed and recorded like any other error termination.
type unopenedSession struct {
	username string
	events   chan domain.Event
}

var _ ports.Session = (*unopenedSession)(nil)

func newUnopenedSession(username string, err error) *unopenedSession {
	events := make(chan domain.Event, 1)
	events <- domain.ErrorEvent(err)
	close(events)

	return &unopenedSession{username: username, events: events}
}

func (s *unopenedSession) Username() string {
	return s.username
}

func (s *unopenedSession) Events() <-chan domain.Event {
	return s.events
}

func (s *unopenedSession) End(string) {}
