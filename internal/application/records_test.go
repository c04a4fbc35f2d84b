package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	length := func(v int) *int { return &v }
	record := domain.Record{
		At: testEpoch.Add(time.Hour),
		Observations: []domain.Observation{
			{At: testEpoch, Position: 40},
			{At: testEpoch.Add(10 * time.Minute), Position: 31, QueueLength: length(60)},
			{At: testEpoch.Add(20 * time.Minute), Position: 12, QueueLength: length(55)},
			{At: testEpoch.Add(30 * time.Minute), Position: 0, QueueLength: length(48)},
		},
	}

	summary := Summarize(record)
	assert.Equal(t, record.At, summary.At)
	assert.Equal(t, 4, summary.Samples)
	require.NotNil(t, summary.FirstPosition)
	assert.Equal(t, 40, *summary.FirstPosition)
	require.NotNil(t, summary.LastPosition)
	assert.Equal(t, 0, *summary.LastPosition)
	require.NotNil(t, summary.MaxLength)
	assert.Equal(t, 60, *summary.MaxLength)
	assert.Equal(t, 30*time.Minute, summary.Duration)
	assert.True(t, summary.ReachedFront)
}

func TestSummarizeEmptyRecord(t *testing.T) {
	t.Parallel()

	summary := Summarize(domain.Record{At: testEpoch})
	assert.Zero(t, summary.Samples)
	assert.Nil(t, summary.FirstPosition)
	assert.Nil(t, summary.LastPosition)
	assert.Nil(t, summary.MaxLength)
	assert.False(t, summary.ReachedFront)
}

func TestRecordServiceSummaries(t *testing.T) {
	t.Parallel()

	reader := fakeRecordReader{records: []domain.Record{
		{At: testEpoch, Observations: []domain.Observation{{At: testEpoch, Position: 9}}},
		{At: testEpoch.Add(time.Hour)},
	}}

	summaries, err := NewRecordService(reader).Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].Samples)
	assert.Zero(t, summaries[1].Samples)

	_, err = NewRecordService(fakeRecordReader{err: errors.New("boom")}).Summaries(context.Background())
	assert.ErrorContains(t, err, "list records: boom")
}
