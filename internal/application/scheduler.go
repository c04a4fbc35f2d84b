package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/logging"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

type SchedulerConfig struct {
	Lanes int
	// BudgetWindow is spread evenly across lane starts.
	BudgetWindow time.Duration
	// Cooldown is waited between two sessions of the same lane.
	Cooldown time.Duration
	// RetryDelay is waited after a session could not be opened.
	RetryDelay         time.Duration
	MaxSessionDuration time.Duration
}

// Stagger is the delay between two lane starts.
func (c SchedulerConfig) Stagger() time.Duration {
	if c.Lanes < 1 {
		return 0
	}
	return c.BudgetWindow / time.Duration(c.Lanes)
}

// Scheduler rotates credentials through parallel lanes. Each lane runs its
// sessions strictly one after another and never finishes on its own.
type Scheduler struct {
	lanes    []*domain.Lane
	cfg      SchedulerConfig
	sessions ports.SessionFactory
	recorder ports.Recorder
	clock    ports.Clock
	logger   zerolog.Logger
}

func NewScheduler(creds []domain.Credential, cfg SchedulerConfig, sessions ports.SessionFactory, recorder ports.Recorder, clock ports.Clock, logger zerolog.Logger) (*Scheduler, error) {
	if sessions == nil {
		return nil, errors.New("session factory is nil")
	}
	if recorder == nil {
		return nil, errors.New("recorder is nil")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	lanes, err := domain.Partition(creds, cfg.Lanes)
	if err != nil {
		return nil, fmt.Errorf("partition credentials: %w", err)
	}

	return &Scheduler{
		lanes:    lanes,
		cfg:      cfg,
		sessions: sessions,
		recorder: recorder,
		clock:    clock,
		logger:   logger,
	}, nil
}

func (s *Scheduler) Lanes() []*domain.Lane {
	return s.lanes
}

// Run starts the lanes, staggered over the budget window, and blocks until
// ctx is cancelled or a lane fails to persist a record. The first such
// failure cancels the remaining lanes and is returned. Cancellation alone
// returns nil once every lane has wound down its current session.
func (s *Scheduler) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := pool.New().WithContext(runCtx).WithCancelOnError().WithFirstError()
	stagger := s.cfg.Stagger()

	launched := 0
launch:
	for i, lane := range s.lanes {
		lane := lane
		p.Go(func(laneCtx context.Context) error {
			if err := s.runLane(laneCtx, lane); err != nil {
				cancel()
				return err
			}
			return nil
		})
		launched++

		if i+1 == len(s.lanes) {
			break
		}

		s.logger.Info().Dur("delay", stagger).Msgf("starting lane %d/%d in %s", i+2, len(s.lanes), stagger)
		select {
		case <-runCtx.Done():
			break launch
		case <-s.clock.After(stagger):
		}
	}

	if launched == len(s.lanes) {
		s.logger.Info().Msgf("maximum number of lanes (%d) now in action", len(s.lanes))
	}

	return p.Wait()
}

func (s *Scheduler) runLane(ctx context.Context, lane *domain.Lane) error {
	laneLogger := logging.ForLane(s.logger, lane.Label())
	laneLogger.Info().Int("credentials", len(lane.Credentials)).Msg("lane started")

	for ctx.Err() == nil {
		cred := lane.Next()
		logger := logging.ForSession(s.logger, lane.Label(), cred.DisplayName())
		logger.Info().Int("cycle", lane.Cycle()).Msg("opening session")

		session, openErr := s.sessions.Open(ctx, cred)
		if openErr != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error().Err(openErr).Msg("could not open session")
			session = newUnopenedSession(cred.Username, openErr)
		}

		observer := NewObserver(session, s.recorder, s.clock, logger, ObserverOptions{MaxDuration: s.cfg.MaxSessionDuration})
		if _, err := observer.Run(ctx); err != nil {
			laneLogger.Error().Err(err).Msg("lane stopped")
			return fmt.Errorf("lane %s: %w", lane.Label(), err)
		}

		pause := s.cfg.Cooldown
		if openErr != nil && s.cfg.RetryDelay > pause {
			pause = s.cfg.RetryDelay
		}
		if !s.wait(ctx, pause) {
			break
		}
	}

	laneLogger.Info().Int("cycles", lane.Cycle()).Msg("lane stopped")
	return nil
}

// wait pauses for d and reports whether the lane should continue.
func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-s.clock.After(d):
		return true
	}
}
