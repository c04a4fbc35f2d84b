package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/parse"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/rs/zerolog"
)

const (
	ReasonDataReceived = "Data received"
	ReasonTimeout      = "Session timeout"
	ReasonShutdown     = "shutting down"
)

type observerState int

const (
	stateConnecting observerState = iota
	stateActive
	stateClosing
	stateTerminated
)

func (s observerState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateActive:
		return "active"
	case stateClosing:
		return "closing"
	case stateTerminated:
		return "terminated"
	default:
		return "observerState(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result describes how an observed session ended.
type Result struct {
	Username string
	// Reason is the end reason of a graceful termination.
	Reason string
	// Err is the session failure of an error-driven termination.
	Err    error
	Record domain.Record
}

func (r Result) Failed() bool {
	return r.Err != nil
}

type ObserverOptions struct {
	// MaxDuration bounds how long a session may stay open. Zero means
	// unbounded.
	MaxDuration time.Duration
}

// Observer follows one session from connection to termination and owns its
// queue state and observation log. It is driven by a single goroutine.
type Observer struct {
	session  ports.Session
	recorder ports.Recorder
	clock    ports.Clock
	logger   zerolog.Logger
	opts     ObserverOptions

	state  observerState
	queue  domain.QueueState
	log    domain.ObservationLog
	reason string
	err    error
}

func NewObserver(session ports.Session, recorder ports.Recorder, clock ports.Clock, logger zerolog.Logger, opts ObserverOptions) *Observer {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Observer{
		session:  session,
		recorder: recorder,
		clock:    clock,
		logger:   logger,
		opts:     opts,
	}
}

// Run consumes session events until the terminal one, then persists the
// observation log exactly once. Cancelling ctx asks the session to end and
// keeps draining, so the log of an interrupted session is still written.
// The returned error is a persistence failure; session failures are
// reported in Result.Err.
func (o *Observer) Run(ctx context.Context) (Result, error) {
	var timeout <-chan time.Time
	if o.opts.MaxDuration > 0 {
		timeout = o.clock.After(o.opts.MaxDuration)
	}

	done := ctx.Done()
	events := o.session.Events()

	for o.state != stateTerminated {
		select {
		case ev, ok := <-events:
			if !ok {
				o.handle(domain.ErrorEvent(domain.ErrSessionClosed))
				continue
			}
			o.handle(ev)
		case <-done:
			done = nil
			o.logger.Info().Msg("stopping session")
			o.session.End(ReasonShutdown)
		case <-timeout:
			timeout = nil
			o.logger.Warn().Dur("max_duration", o.opts.MaxDuration).Msg("session timed out")
			o.session.End(ReasonTimeout)
		}
	}

	return o.finish(context.WithoutCancel(ctx))
}

func (o *Observer) handle(ev domain.Event) {
	switch ev.Kind {
	case domain.EventSessionEstablished:
		if o.state == stateConnecting {
			o.transition(stateActive)
			o.logger.Info().Msg("logged in")
		}
	case domain.EventChat:
		if position, ok := parse.ChatPosition(ev.Text); ok {
			o.observe(position)
		}
	case domain.EventHeader:
		if position, ok := parse.HeaderPosition(ev.Text); ok {
			o.observe(position)
		}
	case domain.EventRoster:
		if o.state == stateClosing {
			return
		}
		if o.queue.ApplyRoster(ev.RosterMode, ev.RosterCount) {
			o.logger.Debug().Int("mode", int(ev.RosterMode)).Int("count", ev.RosterCount).Msg("queue length updated")
		}
	case domain.EventWorldReady:
		if o.state == stateClosing {
			return
		}
		o.log.Append(domain.Observation{At: o.clock.Now(), Position: 0, QueueLength: o.queue.Total()})
		o.logger.Info().Msg("reached the front of the queue")
		o.transition(stateClosing)
		o.session.End(ReasonDataReceived)
	case domain.EventEnd:
		o.reason = ev.Reason
		o.transition(stateTerminated)
	case domain.EventError:
		o.err = ev.Err
		if o.err == nil {
			o.err = domain.ErrSessionClosed
		}
		o.transition(stateTerminated)
	}
}

func (o *Observer) transition(next observerState) {
	o.logger.Debug().Stringer("from", o.state).Stringer("to", next).Msg("session state")
	o.state = next
}

func (o *Observer) observe(position int) {
	if o.state == stateClosing {
		return
	}

	total := o.queue.Total()
	if o.queue.ObservePosition(position) {
		o.logger.Info().Msgf("%d/%s", position, formatTotal(total))
	}
	o.log.Append(domain.Observation{At: o.clock.Now(), Position: position, QueueLength: total})
}

func (o *Observer) finish(ctx context.Context) (Result, error) {
	result := Result{
		Username: o.session.Username(),
		Reason:   o.reason,
		Err:      o.err,
		Record: domain.Record{
			At:           o.clock.Now(),
			Observations: o.log.Entries(),
		},
	}

	if result.Failed() {
		o.logger.Warn().Err(result.Err).Int("samples", len(result.Record.Observations)).Msg("session ended with error")
	} else {
		o.logger.Info().Str("reason", result.Reason).Int("samples", len(result.Record.Observations)).Msg("session ended")
	}

	if err := o.recorder.Persist(ctx, result.Record); err != nil {
		return result, fmt.Errorf("persist observations of %s: %w", result.Username, err)
	}

	return result, nil
}

func formatTotal(total *int) string {
	if total == nil {
		return "?"
	}
	return strconv.Itoa(*total)
}
