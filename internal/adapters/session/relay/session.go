// Package relay opens queue sessions through a WebSocket relay that speaks
// the game protocol and forwards decoded packets as JSON frames.
package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 10 * time.Second
	eventBuffer  = 16
)

// Dialer opens one relay connection per credential.
type Dialer struct {
	url     string
	options map[string]any
	dialer  *websocket.Dialer
	logger  zerolog.Logger
}

var _ ports.SessionFactory = (*Dialer)(nil)

// NewDialer returns a Dialer for url. options are the global session
// options every connect frame starts from.
func NewDialer(url string, options map[string]any, logger zerolog.Logger) *Dialer {
	return &Dialer{
		url:     url,
		options: options,
		dialer:  websocket.DefaultDialer,
		logger:  logger,
	}
}

func (d *Dialer) Open(ctx context.Context, credential domain.Credential) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", d.url, err)
	}

	options := domain.MergeOptions(d.options, credential.Options)
	options["username"] = credential.Username
	options["accessToken"] = credential.AccessToken

	s := &Session{
		conn:     conn,
		username: credential.Username,
		events:   make(chan domain.Event, eventBuffer),
		logger:   d.logger,
	}
	if err := s.write(frame{Type: frameConnect, Options: options}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send connect for %s: %w", credential.DisplayName(), err)
	}

	go s.readLoop()

	return s, nil
}

// Session is a relay connection for a single credential.
type Session struct {
	conn     *websocket.Conn
	username string
	events   chan domain.Event
	logger   zerolog.Logger

	writeMu sync.Mutex
	endOnce sync.Once

	mu        sync.Mutex
	endReason string
	ending    bool
}

var _ ports.Session = (*Session)(nil)

func (s *Session) Username() string {
	return s.username
}

func (s *Session) Events() <-chan domain.Event {
	return s.events
}

// End sends an end frame once. If the frame cannot be written the
// connection is closed, which terminates the read loop.
func (s *Session) End(reason string) {
	s.endOnce.Do(func() {
		s.mu.Lock()
		s.ending = true
		s.endReason = reason
		s.mu.Unlock()

		go func() {
			if err := s.write(frame{Type: frameEnd, Reason: reason}); err != nil {
				s.logger.Debug().Err(err).Msg("end frame not delivered, closing relay connection")
				_ = s.conn.Close()
			}
		}()
	})
}

func (s *Session) write(f frame) error {
	data, err := encodeFrame(f)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) readLoop() {
	defer close(s.events)
	defer func() { _ = s.conn.Close() }()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.events <- s.readFailure(err)
			return
		}

		f, err := decodeFrame(data)
		if err != nil {
			s.logger.Debug().Err(err).Msg("skipping relay frame")
			continue
		}

		switch f.Type {
		case frameSession:
			s.events <- domain.EstablishedEvent()
		case framePacket:
			ev, ok, err := packetEvent(f.Name, f.Data)
			if err != nil {
				s.logger.Debug().Err(err).Str("packet", f.Name).Msg("skipping relay packet")
				continue
			}
			if ok {
				s.events <- ev
			}
		case frameEnd:
			s.events <- domain.EndEvent(f.Reason)
			return
		case frameError:
			s.events <- domain.ErrorEvent(errors.New(f.Reason))
			return
		default:
			s.logger.Debug().Str("type", f.Type).Msg("skipping unknown relay frame")
		}
	}
}

// readFailure maps a broken connection to the terminal event. A connection
// dropped after End was requested counts as a graceful end.
func (s *Session) readFailure(err error) domain.Event {
	s.mu.Lock()
	ending, reason := s.ending, s.endReason
	s.mu.Unlock()

	if ending {
		return domain.EndEvent(reason)
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return domain.ErrorEvent(fmt.Errorf("relay closed the connection: %w", err))
	}
	return domain.ErrorEvent(fmt.Errorf("read relay frame: %w", err))
}
