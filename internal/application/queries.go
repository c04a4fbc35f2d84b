package application

import (
	"time"

	"github.com/bnema/queuewatch/internal/domain"
)

type AccountSummary struct {
	Account         domain.Account
	TokenConfigured bool
}

// RecordSummary condenses one finished session for display.
type RecordSummary struct {
	At      time.Time
	Samples int
	// FirstPosition and LastPosition are nil for a session that never
	// reported a position.
	FirstPosition *int
	LastPosition  *int
	MaxLength     *int
	Duration      time.Duration
	ReachedFront  bool
}
