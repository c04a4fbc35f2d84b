// Package file persists observation records as one JSON file per finished
// session, named after its termination time in epoch milliseconds.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/queuewatch/internal/adapters/record"
	"github.com/bnema/queuewatch/internal/atomicfile"
	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
)

const recordExt = ".json"

var writeOptions = atomicfile.Options{
	FileMode:    0o644,
	DirMode:     0o755,
	TempPattern: ".record-*.tmp",
}

// Store is shared by every lane. Directory creation is idempotent and each
// record targets its own file, so no locking is needed.
type Store struct {
	dir string
}

var (
	_ ports.Recorder     = (*Store)(nil)
	_ ports.RecordReader = (*Store)(nil)
)

func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the file a record is written to. Two records terminated
// within the same millisecond share a path and the later write wins.
func (s *Store) PathFor(rec domain.Record) string {
	return filepath.Join(s.dir, strconv.FormatInt(rec.Key(), 10)+recordExt)
}

func (s *Store) Persist(ctx context.Context, rec domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := record.Encode(rec)
	if err != nil {
		return err
	}

	if err := atomicfile.Write(s.PathFor(rec), data, writeOptions); err != nil {
		return fmt.Errorf("write record %d: %w", rec.Key(), err)
	}

	return nil
}

// List reads every record in the directory, oldest first. A missing
// directory yields no records.
func (s *Store) List(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record directory %s: %w", s.dir, err)
	}

	records := make([]domain.Record, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ms, ok := recordKey(entry)
		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read record %s: %w", entry.Name(), err)
		}
		rec, err := record.Decode(time.UnixMilli(ms), data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].At.Before(records[j].At)
	})

	return records, nil
}

func recordKey(entry os.DirEntry) (int64, bool) {
	if entry.IsDir() {
		return 0, false
	}
	stem, ok := strings.CutSuffix(entry.Name(), recordExt)
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(stem, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
