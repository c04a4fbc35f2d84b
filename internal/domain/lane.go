package domain

import "fmt"

// Lane is one sequential rotation over a subset of the credential pool.
// It is owned by a single goroutine and is not safe for concurrent use.
type Lane struct {
	Index       int
	Count       int
	Credentials []Credential

	cycle int
}

// Partition assigns creds to count lanes round-robin by index modulo count.
// Every lane must end up with at least one credential.
func Partition(creds []Credential, count int) ([]*Lane, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLaneCount, count)
	}
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	lanes := make([]*Lane, count)
	for i := range lanes {
		lanes[i] = &Lane{Index: i, Count: count}
	}
	for i, cred := range creds {
		lane := lanes[i%count]
		lane.Credentials = append(lane.Credentials, cred)
	}

	for _, lane := range lanes {
		if len(lane.Credentials) == 0 {
			return nil, fmt.Errorf("%w: lane %s (%d credentials for %d lanes)", ErrEmptyLane, lane.Label(), len(creds), count)
		}
	}

	return lanes, nil
}

// Next advances the cycle counter and returns the credential for the new
// cycle. The first call returns the first credential of the lane.
func (l *Lane) Next() Credential {
	l.cycle++
	return l.Credentials[(l.cycle-1)%len(l.Credentials)]
}

// Cycle is the number of credentials handed out so far.
func (l *Lane) Cycle() int {
	return l.cycle
}

// Label is the human-readable position of the lane, e.g. "1/2".
func (l *Lane) Label() string {
	return fmt.Sprintf("%d/%d", l.Index+1, l.Count)
}
