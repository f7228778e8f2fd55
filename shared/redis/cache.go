package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ViewCache stores JSON projections of type T under prefix+id. A ttl of 0 keeps
// entries until they are deleted.
//
// Write failures are logged and swallowed: the cache is never the source of
// truth, so callers fall back to the database on a miss.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration, log zerolog.Logger) *ViewCache[T] {
	return &ViewCache[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.With().Str("component", "view_cache").Str("prefix", prefix).Logger(),
	}
}

func (c *ViewCache[T]) key(id string) string {
	return c.prefix + id
}

// Get returns (nil, false) on a miss, a Redis error or an undecodable entry.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Debug().Err(err).Str("id", id).Msg("view cache read failed")
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("dropping undecodable view")
		c.Delete(ctx, id)
		return nil, false
	}
	return &v, true
}

// Has checks for the key without decoding it.
func (c *ViewCache[T]) Has(ctx context.Context, id string) bool {
	n, err := c.client.Exists(ctx, c.key(id)).Result()
	if err != nil {
		c.log.Debug().Err(err).Str("id", id).Msg("view cache lookup failed")
		return false
	}
	return n > 0
}

func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("view cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("view cache write failed")
	}
}

// Move stores value under newID and drops oldID in one transaction.
func (c *ViewCache[T]) Move(ctx context.Context, oldID, newID string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("id", newID).Msg("view cache marshal failed")
		return
	}
	_, err = c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, c.key(oldID))
		pipe.Set(ctx, c.key(newID), data, c.ttl)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("from", oldID).Str("to", newID).Msg("view cache move failed")
	}
}

func (c *ViewCache[T]) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("view cache delete failed")
	}
}
