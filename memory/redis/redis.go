// Package redis provides a Redis-backed core.Memory implementation. Entries
// are stored as JSON values in a hash keyed by id, with per-shard lists
// preserving insertion order so recency truncation stays stable across
// processes. Marker filtering happens client-side after retrieval; the
// backend only handles ordering and shard partitioning.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storyloom/storyloom/core"
)

// Options configure the Redis memory store.
type Options struct {
	// Addr is the Redis server address (host:port). Ignored when Client is set.
	Addr string
	// Password authenticates against the server; empty for none.
	Password string
	// DB selects the logical Redis database.
	DB int
	// KeyPrefix namespaces all keys written by this store.
	KeyPrefix string
	// Client overrides connection options with an existing client.
	Client *redis.Client
}

// Compile-time interface compliance check.
var _ core.Memory = (*Store)(nil)

// Store is a core.Memory backed by Redis. Safe for concurrent use; id
// assignment uses uuids so concurrent writers never collide.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Redis memory store. With no options it connects to
// localhost:6379, database 0.
func New(optFns ...func(o *Options)) *Store {
	opts := Options{
		Addr:      "localhost:6379",
		KeyPrefix: "storyloom",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.Client
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
	}

	return &Store{client: client, prefix: opts.KeyPrefix}
}

// Ping verifies connectivity to the backend.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w: %v", core.ErrMemoryUnavailable, err)
	}
	return nil
}

// Close releases the underlying client connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) entriesKey() string { return s.prefix + ":entries" }

func (s *Store) orderKey(shard string) string {
	if shard == "" {
		return s.prefix + ":order"
	}
	return s.prefix + ":shard:" + shard
}

// Write persists a new entry, assigning id and timestamps centrally, and
// appends its id to the global and (when sharded) per-shard order lists in a
// single transaction.
func (s *Store) Write(ctx context.Context, entry core.Entry) (core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return core.Entry{}, err
	}

	now := time.Now().UTC()
	e := entry.Clone()
	e.ID = core.NewID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Version == 0 {
		e.Version = 1
	}
	for i := range e.Markers {
		if e.Markers[i].ID == "" {
			e.Markers[i].ID = core.NewID()
		}
		if e.Markers[i].Timestamp.IsZero() {
			e.Markers[i].Timestamp = now
		}
	}

	data, err := encodeEntry(e)
	if err != nil {
		return core.Entry{}, err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.entriesKey(), e.ID, data)
	pipe.RPush(ctx, s.orderKey(""), e.ID)
	if e.Shard != "" {
		pipe.RPush(ctx, s.orderKey(e.Shard), e.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return core.Entry{}, wrapBackendErr(ctx, "redis write", err)
	}

	return e, nil
}

// Query loads the shard's id list in insertion order, fetches the entries and
// filters them by marker compatibility client-side.
func (s *Store) Query(ctx context.Context, filters []core.MarkerFilter, shard string) ([]core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := core.ValidateFilters(filters); err != nil {
		return nil, err
	}

	ids, err := s.client.LRange(ctx, s.orderKey(shard), 0, -1).Result()
	if err != nil {
		return nil, wrapBackendErr(ctx, "redis query", err)
	}
	if len(ids) == 0 {
		return []core.Entry{}, nil
	}

	raw, err := s.client.HMGet(ctx, s.entriesKey(), ids...).Result()
	if err != nil {
		return nil, wrapBackendErr(ctx, "redis query", err)
	}

	results := []core.Entry{}
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue // id present in order list but entry evicted
		}
		e, err := decodeEntry([]byte(str))
		if err != nil {
			return nil, err
		}
		if !core.MatchesFilters(e, filters) {
			continue
		}
		results = append(results, e)
	}
	return results, nil
}

// wrapBackendErr tags backend failures as ErrMemoryUnavailable so the runner
// retries them. Cancellation is not a backend failure: it surfaces unwrapped
// so a cancelled run is never retried.
func wrapBackendErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w: %v", op, core.ErrMemoryUnavailable, err)
}

func encodeEntry(e core.Entry) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	return data, nil
}

func decodeEntry(data []byte) (core.Entry, error) {
	var e core.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return core.Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return e, nil
}
