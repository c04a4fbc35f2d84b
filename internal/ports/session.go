package ports

import (
	"context"

	"github.com/bnema/queuewatch/internal/domain"
)

// Session is one live protocol connection for a single credential.
//
// Events delivers inbound events in order. Exactly one terminal event
// (domain.EventEnd or domain.EventError) is delivered, after which the
// channel is closed.
type Session interface {
	Username() string
	Events() <-chan domain.Event
	// End asks the session to close gracefully. It does not block and may be
	// called more than once.
	End(reason string)
}

type SessionFactory interface {
	Open(ctx context.Context, credential domain.Credential) (Session, error)
}
