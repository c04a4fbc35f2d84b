package application

import (
	"context"
	"fmt"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
)

type RecordService struct {
	reader ports.RecordReader
}

func NewRecordService(reader ports.RecordReader) *RecordService {
	return &RecordService{reader: reader}
}

// Summaries returns one summary per stored record, oldest first.
func (s *RecordService) Summaries(ctx context.Context) ([]RecordSummary, error) {
	records, err := s.reader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	summaries := make([]RecordSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, Summarize(record))
	}

	return summaries, nil
}

// Summarize condenses record. The closing (0, length) sample of a session
// that reached the front counts as its last position.
func Summarize(record domain.Record) RecordSummary {
	summary := RecordSummary{
		At:      record.At,
		Samples: len(record.Observations),
	}
	if len(record.Observations) == 0 {
		return summary
	}

	first := record.Observations[0]
	last := record.Observations[len(record.Observations)-1]
	summary.FirstPosition = intPtr(first.Position)
	summary.LastPosition = intPtr(last.Position)
	summary.Duration = last.At.Sub(first.At)
	summary.ReachedFront = last.Position == 0

	for _, observation := range record.Observations {
		if observation.QueueLength == nil {
			continue
		}
		if summary.MaxLength == nil || *observation.QueueLength > *summary.MaxLength {
			summary.MaxLength = intPtr(*observation.QueueLength)
		}
	}

	return summary
}

func intPtr(v int) *int {
	return &v
}
