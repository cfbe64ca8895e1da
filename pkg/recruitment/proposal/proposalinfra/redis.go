package proposalinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore reserva llaves de idempotencia con SET NX. Una llave
// reservada sobrevive su TTL; el reintento honesto tras un fallo la libera
// explícitamente.
type RedisIdempotencyStore struct {
	rdb *redis.Client
}

func NewRedisIdempotencyStore(rdb *redis.Client) proposal.IdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

func (s *RedisIdempotencyStore) key(k string) string {
	return "idem:submission:" + k
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.key(key), "1", ttl).Result()
	if err != nil {
		return false, errx.Wrap(err, "failed to reserve idempotency key", errx.TypeExternal)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return errx.Wrap(err, "failed to release idempotency key", errx.TypeExternal)
	}
	return nil
}
