package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// Writes go to the underlying store and drop the cached copy. Only FindByHash
// populates the cache.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "url:",
		ttl:    ttl,
	}
}

// FindByHash checks the cache before falling back to the underlying store.
func (r *RedisCacheRepository) FindByHash(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	if rec, err := r.getFromCache(ctx, hash); err == nil {
		return rec, nil
	}

	rec, err := r.store.FindByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	r.cacheRecord(ctx, rec)

	return rec, nil
}

// Insert stores the record and drops any cached copy of its hash.
func (r *RedisCacheRepository) Insert(ctx context.Context, rec *shortener.Record) error {
	if err := r.store.Insert(ctx, rec); err != nil {
		return err
	}

	r.invalidate(ctx, rec.Hash)

	return nil
}

// IncrementVisitCounter updates the underlying store and drops the cached copy.
func (r *RedisCacheRepository) IncrementVisitCounter(
	ctx context.Context, hash shortener.Hash,
) (*shortener.Record, error) {
	rec, err := r.store.IncrementVisitCounter(ctx, hash)
	r.invalidate(ctx, hash)

	return rec, err
}

// UpdateActiveState updates the underlying store and drops the cached copy.
func (r *RedisCacheRepository) UpdateActiveState(
	ctx context.Context, hash shortener.Hash, change shortener.StateChange,
) (*shortener.Record, error) {
	rec, err := r.store.UpdateActiveState(ctx, hash, change)
	r.invalidate(ctx, hash)

	return rec, err
}

func (r *RedisCacheRepository) invalidate(ctx context.Context, hash shortener.Hash) {
	r.client.Del(ctx, r.prefix+string(hash))
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(hash)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	rec := &shortener.Record{
		URL:         result["url"],
		Protocol:    result["protocol"],
		Domain:      result["domain"],
		Path:        result["path"],
		Hash:        shortener.Hash(result["hash"]),
		IsCustom:    result["is_custom"] == "1",
		RemoveToken: result["remove_token"],
		Active:      result["active"] == "1",
	}

	if n, err := strconv.ParseInt(result["visit_counter"], 10, 64); err == nil {
		rec.VisitCounter = n
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		rec.CreatedAt = time.Unix(0, nanos)
	}

	if nanos, err := strconv.ParseInt(result["removed_at"], 10, 64); err == nil {
		removedAt := time.Unix(0, nanos)
		rec.RemovedAt = &removedAt
	}

	return rec, nil
}

func (r *RedisCacheRepository) cacheRecord(ctx context.Context, rec *shortener.Record) {
	pipe := r.client.TxPipeline()
	key := r.prefix + string(rec.Hash)

	fields := map[string]interface{}{
		"url":           rec.URL,
		"protocol":      rec.Protocol,
		"domain":        rec.Domain,
		"path":          rec.Path,
		"hash":          string(rec.Hash),
		"is_custom":     boolFlag(rec.IsCustom),
		"remove_token":  rec.RemoveToken,
		"active":        boolFlag(rec.Active),
		"visit_counter": rec.VisitCounter,
		"created_at":    rec.CreatedAt.UnixNano(),
	}

	pipe.Del(ctx, key)

	if rec.RemovedAt != nil {
		fields["removed_at"] = rec.RemovedAt.UnixNano()
	}

	pipe.HSet(ctx, key, fields)

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
