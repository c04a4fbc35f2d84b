package ports

import (
	"context"

	"github.com/bnema/queuewatch/internal/domain"
)

// Recorder persists finished observation logs. Implementations must be safe
// for concurrent use by several lanes.
type Recorder interface {
	Persist(ctx context.Context, record domain.Record) error
}

type RecordReader interface {
	List(ctx context.Context) ([]domain.Record, error)
}
