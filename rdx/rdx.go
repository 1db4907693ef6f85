package rdx

import (
	"os"

	"roamio/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Connect opens the Redis connection used for the issued-token cache.
// The cache is best-effort: callers log failures and carry on.
func Connect() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	return Conn.Ping(globals.Ctx).Err()
}

func RdxHset(group, field, value string) error {
	return Conn.HSet(globals.Ctx, group, field, value).Err()
}

func RdxHget(group, field string) (string, error) {
	return Conn.HGet(globals.Ctx, group, field).Result()
}

func RdxHdel(group, field string) (int64, error) {
	return Conn.HDel(globals.Ctx, group, field).Result()
}
