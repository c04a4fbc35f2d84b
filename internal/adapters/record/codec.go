// Package record holds the serialized form shared by the record backends:
// a JSON object mapping the epoch-millisecond sample time to a
// [position, queueLength] pair, queueLength being null while unknown.
package record

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bytedance/sonic"
)

type sample [2]*int

// Encode serializes the observations of record. Samples sharing a
// millisecond collapse into the last one appended.
func Encode(record domain.Record) ([]byte, error) {
	samples := make(map[string]sample, len(record.Observations))
	for _, observation := range record.Observations {
		position := observation.Position
		var length *int
		if observation.QueueLength != nil {
			value := *observation.QueueLength
			length = &value
		}
		samples[strconv.FormatInt(observation.At.UnixMilli(), 10)] = sample{&position, length}
	}

	data, err := sonic.ConfigStd.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("encode record %d: %w", record.Key(), err)
	}
	return data, nil
}

// Decode parses data into a record terminated at at, samples ordered by time.
func Decode(at time.Time, data []byte) (domain.Record, error) {
	var samples map[string]sample
	if err := sonic.ConfigStd.Unmarshal(data, &samples); err != nil {
		return domain.Record{}, fmt.Errorf("decode record %d: %w", at.UnixMilli(), err)
	}

	observations := make([]domain.Observation, 0, len(samples))
	for key, s := range samples {
		ms, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return domain.Record{}, fmt.Errorf("decode record %d: invalid sample time %q", at.UnixMilli(), key)
		}
		if s[0] == nil {
			return domain.Record{}, fmt.Errorf("decode record %d: sample %s has no position", at.UnixMilli(), key)
		}
		observations = append(observations, domain.Observation{
			At:          time.UnixMilli(ms),
			Position:    *s[0],
			QueueLength: s[1],
		})
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].At.Before(observations[j].At)
	})

	return domain.Record{At: at, Observations: observations}, nil
}
