package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

const (
	// DefaultIndexKey is the sorted set holding keys ordered by write time.
	DefaultIndexKey = "cache:insertion-order"

	scanCount = 500
)

// Option is custom configuration of Redis.
type Option func(r *Redis)

// Redis is a networked key-value store with per-entry expiration.
// Unless created WithoutIndex, every write is also recorded in an insertion-order
// index, so KeysMatching returns the oldest keys first.
type Redis struct {
	url      string
	indexKey string
	now      func() time.Time

	mu        sync.RWMutex
	client    *redis.Client
	lastScore int64
}

// NewRedis returns new Redis. Connect has to be called before use.
func NewRedis(url string, ops ...Option) *Redis {
	r := &Redis{
		url:      url,
		indexKey: DefaultIndexKey,
		now:      time.Now,
	}

	for _, op := range ops {
		op(r)
	}

	return r
}

// WithoutIndex disables the insertion-order index. KeysMatching then returns keys
// in lexical order. Use it for stores which never enumerate keys, the index isn't
// pruned otherwise.
func WithoutIndex() Option {
	return func(r *Redis) {
		r.indexKey = ""
	}
}

// WithNow sets custom time source used to order writes.
func WithNow(now func() time.Time) Option {
	return func(r *Redis) {
		r.now = now
	}
}

// Connect opens and verifies connection. Calling it on connected store is a no-op.
func (r *Redis) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return nil
	}

	opts, err := redis.ParseURL(r.url)
	if err != nil {
		return platform.NewCacheError("can't parse cache store url", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return platform.NewCacheError("can't connect to cache store", err)
	}

	r.client = client

	return nil
}

// Close releases connection.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}

	err := r.client.Close()
	r.client = nil
	if err != nil {
		return platform.NewCacheError("can't close cache store connection", err)
	}

	return nil
}

// Get returns value stored under key. Missing key is not an error.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	client, err := r.conn()
	if err != nil {
		return "", false, err
	}

	value, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, platform.NewCacheError(fmt.Sprintf("can't get %q", key), err)
	}

	return value, true, nil
}

// SetWithExpiry stores value under key for ttl.
func (r *Redis) SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error {
	return r.MultiSetWithExpiry(ctx, map[string]string{key: value}, ttl)
}

// Exists reports whether key is stored.
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	client, err := r.conn()
	if err != nil {
		return false, err
	}

	n, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, platform.NewCacheError(fmt.Sprintf("can't check %q", key), err)
	}

	return n > 0, nil
}

// Delete removes keys. Deleting nothing is a no-op.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	client, err := r.conn()
	if err != nil {
		return err
	}

	_, err = client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		if r.indexed() {
			pipe.ZRem(ctx, r.indexKey, lo.ToAnySlice(keys)...)
		}
		return nil
	})
	if err != nil {
		return platform.NewCacheError(fmt.Sprintf("can't delete %d keys", len(keys)), err)
	}

	return nil
}

// KeysMatching returns keys matching glob pattern, oldest written first.
// Keys written without the index (by other clients) are returned last.
// Index members whose keys expired are pruned on the way.
func (r *Redis) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	client, err := r.conn()
	if err != nil {
		return nil, err
	}

	live := make(map[string]struct{})
	iter := client.Scan(ctx, 0, pattern, scanCount).Iterator()
	for iter.Next(ctx) {
		if key := iter.Val(); key != r.indexKey {
			live[key] = struct{}{}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, platform.NewCacheError(fmt.Sprintf("can't scan keys matching %q", pattern), err)
	}

	if !r.indexed() {
		keys := lo.Keys(live)
		slices.Sort(keys)
		return keys, nil
	}

	indexed, err := client.ZRange(ctx, r.indexKey, 0, -1).Result()
	if err != nil {
		return nil, platform.NewCacheError("can't read insertion-order index", err)
	}

	keys := make([]string, 0, len(live))
	unknown := make([]string, 0)
	for _, member := range indexed {
		if _, ok := live[member]; ok {
			keys = append(keys, member)
			delete(live, member)
			continue
		}
		unknown = append(unknown, member)
	}

	rest := lo.Keys(live)
	slices.Sort(rest)
	keys = append(keys, rest...)

	r.prune(ctx, client, unknown)

	return keys, nil
}

// GetMultiple returns values of keys in one round trip. Missing keys are nil.
func (r *Redis) GetMultiple(ctx context.Context, keys []string) ([]*string, error) {
	if len(keys) == 0 {
		return []*string{}, nil
	}

	client, err := r.conn()
	if err != nil {
		return nil, err
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, platform.NewCacheError(fmt.Sprintf("can't get %d keys", len(keys)), err)
	}

	return lo.Map(values, func(v any, _ int) *string {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		return &s
	}), nil
}

// MultiSetWithExpiry stores entries for ttl in one MULTI/EXEC round trip.
func (r *Redis) MultiSetWithExpiry(ctx context.Context, entries map[string]string, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	client, err := r.conn()
	if err != nil {
		return err
	}

	keys := lo.Keys(entries)
	slices.Sort(keys)

	_, err = client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(ctx, key, entries[key], ttl)
			if r.indexed() {
				pipe.ZAdd(ctx, r.indexKey, redis.Z{Score: r.nextScore(), Member: key})
			}
		}
		return nil
	})
	if err != nil {
		return platform.NewCacheError(fmt.Sprintf("can't set %d keys", len(entries)), err)
	}

	return nil
}

// prune drops index members whose keys no longer exist. Failures are ignored,
// the next enumeration retries.
func (r *Redis) prune(ctx context.Context, client *redis.Client, candidates []string) {
	if len(candidates) == 0 {
		return
	}

	cmds, err := client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range candidates {
			pipe.Exists(ctx, key)
		}
		return nil
	})
	if err != nil {
		return
	}

	dead := make([]any, 0, len(candidates))
	for i, cmd := range cmds {
		if n, err := cmd.(*redis.IntCmd).Result(); err == nil && n == 0 {
			dead = append(dead, candidates[i])
		}
	}

	if len(dead) > 0 {
		_ = client.ZRem(ctx, r.indexKey, dead...).Err()
	}
}

// nextScore returns strictly increasing microsecond score, so writes done
// within the same microsecond keep their order.
func (r *Redis) nextScore() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	score := r.now().UnixMicro()
	if score <= r.lastScore {
		score = r.lastScore + 1
	}
	r.lastScore = score

	return float64(score)
}

func (r *Redis) indexed() bool {
	return r.indexKey != ""
}

func (r *Redis) conn() (*redis.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.client == nil {
		return nil, platform.NewCacheError("can't use cache store", ErrNotConnected)
	}

	return r.client, nil
}
