package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/redis/go-redis/v9"
)

// RedisRepo stores documents as JSON in a hash ("<prefix>items", field = id)
// and keeps insertion order in a list ("<prefix>order").
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisRepo creates a Redis-based repository. Prefix may be empty.
func NewRedisRepo(client *redis.Client, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = "docs:"
	}
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) itemsKey() string { return r.prefix + "items" }
func (r *RedisRepo) orderKey() string { return r.prefix + "order" }

// insertScript writes the item and its order entry together. HEXISTS and
// RPUSH run before HSET so a WRONGTYPE failure leaves nothing behind.
var insertScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

func (r *RedisRepo) Insert(ctx context.Context, doc *document.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	n, err := insertScript.Run(ctx, r.client, []string{r.itemsKey(), r.orderKey()}, doc.ID, string(b)).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	b, err := r.client.HGet(ctx, r.itemsKey(), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	var d document.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RedisRepo) List(ctx context.Context) ([]*document.Document, error) {
	ids, err := r.client.LRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*document.Document, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	vals, err := r.client.HMGet(ctx, r.itemsKey(), ids...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// order entry without item; skip
			continue
		}
		var d document.Document
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, nil
}

func (r *RedisRepo) Update(ctx context.Context, doc *document.Document) error {
	exists, err := r.client.HExists(ctx, r.itemsKey(), doc.ID).Result()
	if err != nil {
		return err
	}
	if !exists {
		return document.ErrNotFound
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.itemsKey(), doc.ID, b).Err()
}

func (r *RedisRepo) Delete(ctx context.Context, id string) (*document.Document, error) {
	d, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.itemsKey(), id)
		pipe.LRem(ctx, r.orderKey(), 1, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close is a no-op; the client is shared with the rate limiter.
func (r *RedisRepo) Close() error { return nil }
