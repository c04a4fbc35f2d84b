package application

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

var testEpoch = time.UnixMilli(1700000000000)

// fakeClock advances by step on every Now call. After fires immediately
// unless a manual channel is set.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	step   time.Duration
	afters []time.Duration
	manual chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch, step: time.Second}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afters = append(c.afters, d)
	if c.manual != nil {
		return c.manual
	}
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Afters() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.afters...)
}

// fakeSession replays a script. When the script has no terminal event, End
// answers with an end event carrying the requested reason, the way the
// relay does.
type fakeSession struct {
	username string
	events   chan domain.Event

	mu         sync.Mutex
	ends       []string
	terminated bool
}

func newFakeSession(username string, script ...domain.Event) *fakeSession {
	s := &fakeSession{
		username: username,
		events:   make(chan domain.Event, len(script)+1),
	}
	for _, ev := range script {
		s.events <- ev
		if ev.Kind.Terminal() {
			s.terminated = true
			close(s.events)
			break
		}
	}
	return s
}

func (s *fakeSession) Username() string {
	return s.username
}

func (s *fakeSession) Events() <-chan domain.Event {
	return s.events
}

func (s *fakeSession) End(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ends = append(s.ends, reason)
	if s.terminated {
		return
	}
	s.terminated = true
	s.events <- domain.EndEvent(reason)
	close(s.events)
}

func (s *fakeSession) Ends() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ends...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []domain.Record
	err     error
}

func (r *fakeRecorder) Persist(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRecorder) Records() []domain.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Record(nil), r.records...)
}

type fakeRecordReader struct {
	records []domain.Record
	err     error
}

func (r fakeRecordReader) List(context.Context) ([]domain.Record, error) {
	return r.records, r.err
}

// logBuffer collects JSON log lines from concurrent writers.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) Logger() zerolog.Logger {
	return zerolog.New(b).Level(zerolog.InfoLevel)
}

// Lines returns the decoded log entries in write order.
func (b *logBuffer) Lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		if err := sonic.UnmarshalString(raw, &line); err != nil {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (b *logBuffer) Messages() []string {
	lines := b.Lines()
	messages := make([]string, 0, len(lines))
	for _, line := range lines {
		msg, _ := line[zerolog.MessageFieldName].(string)
		messages = append(messages, msg)
	}
	return messages
}

func chatPosition(position string) domain.Event {
	return domain.ChatEvent(`{"text":"","extra":[{"text":"Position in queue: "},{"text":"` + position + `"}]}`)
}

func headerPosition(position string) domain.Event {
	return domain.HeaderEvent(`{"text":"\n§6Position in queue: §l` + position + `\n"}`)
}
