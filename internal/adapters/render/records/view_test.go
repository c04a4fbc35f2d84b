package records

import (
	"testing"
	"time"

	"github.com/bnema/queuewatch/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestRenderRecordSummaries(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render([]application.RecordSummary{
		{
			At:            now.Add(-2 * time.Hour),
			Samples:       14,
			FirstPosition: intPtr(80),
			LastPosition:  intPtr(0),
			MaxLength:     intPtr(96),
			Duration:      95 * time.Minute,
			ReachedFront:  true,
		},
		{
			At:      now.Add(-30 * time.Minute),
			Samples: 0,
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "Queue Sessions")
	assert.Contains(t, output, "records: 2")
	assert.Contains(t, output, "Session 2026-02-14 09:00:00 (2h0m0s ago)")
	assert.Contains(t, output, "[front reached]")
	assert.Contains(t, output, "80 -> 0")
	assert.Contains(t, output, "samples: 14  queue: 96  watched: 1h35m0s")
	assert.Contains(t, output, "no positions reported")
}

func TestRenderEmpty(t *testing.T) {
	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "records: 0")
	assert.Contains(t, output, "No recorded sessions yet.")
}

func TestRenderLimitKeepsMostRecent(t *testing.T) {
	base := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	summaries := []application.RecordSummary{
		{At: base, Samples: 1, FirstPosition: intPtr(9), LastPosition: intPtr(9)},
		{At: base.Add(time.Hour), Samples: 1, FirstPosition: intPtr(7), LastPosition: intPtr(7)},
		{At: base.Add(2 * time.Hour), Samples: 1, FirstPosition: intPtr(5), LastPosition: intPtr(5)},
	}

	output, err := Render(summaries, RenderOptions{Limit: 2})

	require.NoError(t, err)
	assert.Contains(t, output, "records: 3")
	assert.NotContains(t, output, "Session 2026-02-14 08:00:00")
	assert.Contains(t, output, "Session 2026-02-14 09:00:00")
	assert.Contains(t, output, "Session 2026-02-14 10:00:00")
}

func TestProgressFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary application.RecordSummary
		want    float64
	}{
		{name: "unknown", summary: application.RecordSummary{}, want: 0},
		{name: "half way", summary: application.RecordSummary{FirstPosition: intPtr(40), LastPosition: intPtr(20)}, want: 0.5},
		{name: "front", summary: application.RecordSummary{FirstPosition: intPtr(40), LastPosition: intPtr(0)}, want: 1},
		{name: "pushed back", summary: application.RecordSummary{FirstPosition: intPtr(10), LastPosition: intPtr(15)}, want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.want, progressFraction(tc.summary), 0.0001)
		})
	}
}
