// Package redis stores observation records in Redis. Each record is a string
// key holding the same JSON document the file backend writes, and a sorted
// set indexes the keys by termination time.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bnema/queuewatch/internal/adapters/record"
	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "queuewatch:record:"
	indexSuffix      = "index"
)

type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type Recorder struct {
	client goredis.UniversalClient
	prefix string
}

var (
	_ ports.Recorder     = (*Recorder)(nil)
	_ ports.RecordReader = (*Recorder)(nil)
)

// Dial connects and pings the server so a bad address fails at startup
// instead of at the end of the first session.
func Dial(ctx context.Context, opts Options) (*Recorder, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is empty")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}

	return New(client, opts.KeyPrefix), nil
}

func New(client goredis.UniversalClient, prefix string) *Recorder {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Recorder{client: client, prefix: prefix}
}

func (r *Recorder) Close() error {
	return r.client.Close()
}

func (r *Recorder) RecordKey(ms int64) string {
	return r.prefix + strconv.FormatInt(ms, 10)
}

func (r *Recorder) IndexKey() string {
	return r.prefix + indexSuffix
}

// Persist overwrites any record sharing the same millisecond key.
func (r *Recorder) Persist(ctx context.Context, rec domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := record.Encode(rec)
	if err != nil {
		return err
	}

	key := rec.Key()
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.RecordKey(key), data, 0)
		pipe.ZAdd(ctx, r.IndexKey(), goredis.Z{
			Score:  float64(key),
			Member: strconv.FormatInt(key, 10),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store record %d: %w", key, err)
	}

	return nil
}

func (r *Recorder) List(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	members, err := r.client.ZRange(ctx, r.IndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read record index: %w", err)
	}

	records := make([]domain.Record, 0, len(members))
	for _, member := range members {
		ms, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}

		data, err := r.client.Get(ctx, r.RecordKey(ms)).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}
			return nil, fmt.Errorf("read record %d: %w", ms, err)
		}

		rec, err := record.Decode(time.UnixMilli(ms), data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}
