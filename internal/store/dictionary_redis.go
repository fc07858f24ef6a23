package store

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// identifyScript returns the stored identifier for ARGV[1] in hash KEYS[1],
// assigning the next value of counter KEYS[2] on first occurrence.
var identifyScript = redis.NewScript(`
local id = redis.call("HGET", KEYS[1], ARGV[1])
if id then
	return tonumber(id)
end
id = redis.call("INCR", KEYS[2])
redis.call("HSET", KEYS[1], ARGV[1], id)
return id
`)

// RedisDictionary persists component identifiers in Redis so they survive
// restarts and are shared by every process using the same Redis.
type RedisDictionary struct {
	client redis.Scripter
	prefix string
}

// NewRedisDictionary creates a Redis-backed dictionary.
func NewRedisDictionary(client redis.Scripter) *RedisDictionary {
	return &RedisDictionary{
		client: client,
		prefix: "dict:",
	}
}

func (d *RedisDictionary) Identify(ctx context.Context, class shortener.ComponentClass, value string) (uint64, error) {
	keys := []string{
		d.prefix + string(class),
		d.prefix + string(class) + ":counter",
	}

	n, err := identifyScript.Run(ctx, d.client, keys, value).Int64()
	if err != nil {
		return 0, err
	}

	// The counter starts at 1.
	return shortener.FirstIdentifier + uint64(n) - 1, nil
}

// Compile-time check.
var _ shortener.Dictionary = (*RedisDictionary)(nil)
