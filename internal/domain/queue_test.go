package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueStateRosterSequence(t *testing.T) {
	t.Parallel()

	var state QueueState
	assert.Nil(t, state.Total())

	assert.True(t, state.ApplyRoster(RosterReset, 50))
	assert.True(t, state.ApplyRoster(RosterAdd, 3))
	assert.True(t, state.ApplyRoster(RosterRemove, 1))

	total := state.Total()
	require.NotNil(t, total)
	assert.Equal(t, 52, *total)
}

func TestQueueStateIgnoresUnrelatedRosterModes(t *testing.T) {
	t.Parallel()

	var state QueueState
	assert.False(t, state.ApplyRoster(RosterMode(2), 10))
	assert.Nil(t, state.Total())

	assert.True(t, state.ApplyRoster(RosterAdd, 2))
	require.NotNil(t, state.Total())
	assert.Equal(t, 2, *state.Total())
}

func TestQueueStateTotalIsACopy(t *testing.T) {
	t.Parallel()

	var state QueueState
	state.ApplyRoster(RosterReset, 7)
	total := state.Total()
	*total = 99

	assert.Equal(t, 7, *state.Total())
}

func TestQueueStateObservePositionReportsChanges(t *testing.T) {
	t.Parallel()

	var state QueueState
	var changed []bool
	for _, position := range []int{5, 5, 3, 3, 3, 1} {
		changed = append(changed, state.ObservePosition(position))
	}

	assert.Equal(t, []bool{true, false, true, false, false, true}, changed)
	last, ok := state.LastPosition()
	assert.True(t, ok)
	assert.Equal(t, 1, last)
}

func TestObservationLogEntriesAreCopied(t *testing.T) {
	t.Parallel()

	var log ObservationLog
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	log.Append(Observation{At: at, Position: 4})

	entries := log.Entries()
	entries[0].Position = 100

	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 4, log.Entries()[0].Position)
}
