package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionAssignsRoundRobin(t *testing.T) {
	t.Parallel()

	creds := []Credential{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}

	lanes, err := Partition(creds, 2)
	require.NoError(t, err)
	require.Len(t, lanes, 2)

	assert.Equal(t, []AccountID{"A", "C"}, laneIDs(lanes[0]))
	assert.Equal(t, []AccountID{"B", "D"}, laneIDs(lanes[1]))
	assert.Equal(t, "1/2", lanes[0].Label())
	assert.Equal(t, "2/2", lanes[1].Label())
}

func TestLaneNextCyclesFromFirstCredential(t *testing.T) {
	t.Parallel()

	lanes, err := Partition([]Credential{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}, 2)
	require.NoError(t, err)

	lane := lanes[0]
	got := []AccountID{lane.Next().ID, lane.Next().ID, lane.Next().ID}

	assert.Equal(t, []AccountID{"A", "C", "A"}, got)
	assert.Equal(t, 3, lane.Cycle())
}

func TestLaneNextWithSingleCredentialRepeats(t *testing.T) {
	t.Parallel()

	lanes, err := Partition([]Credential{{ID: "solo"}}, 1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, AccountID("solo"), lanes[0].Next().ID)
	}
}

func TestPartitionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		creds   []Credential
		count   int
		wantErr error
	}{
		{name: "zero lanes", creds: []Credential{{ID: "A"}}, count: 0, wantErr: ErrInvalidLaneCount},
		{name: "negative lanes", creds: []Credential{{ID: "A"}}, count: -1, wantErr: ErrInvalidLaneCount},
		{name: "no credentials", count: 2, wantErr: ErrNoCredentials},
		{name: "fewer credentials than lanes", creds: []Credential{{ID: "A"}}, count: 2, wantErr: ErrEmptyLane},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Partition(tc.creds, tc.count)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func laneIDs(lane *Lane) []AccountID {
	ids := make([]AccountID, 0, len(lane.Credentials))
	for _, cred := range lane.Credentials {
		ids = append(ids, cred.ID)
	}
	return ids
}
