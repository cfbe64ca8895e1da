package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/config"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/Abraxas-365/convocatoria/pkg/logx"
	"github.com/redis/go-redis/v9"
)

// RetryingRoleLoader reintenta la carga de roles con backoff lineal. La
// resiliencia vive aquí, en la frontera de identidad: los servicios de
// dominio reciben roles ya resueltos y nunca reintentan.
type RetryingRoleLoader struct {
	inner       RoleLoader
	maxAttempts int
	backoff     time.Duration
}

func NewRetryingRoleLoader(inner RoleLoader, cfg config.RoleLoaderConfig) *RetryingRoleLoader {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingRoleLoader{
		inner:       inner,
		maxAttempts: maxAttempts,
		backoff:     cfg.Backoff,
	}
}

func (l *RetryingRoleLoader) LoadRoles(ctx context.Context, userID kernel.UserID) ([]iam.Role, error) {
	var lastErr error

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		roles, err := l.inner.LoadRoles(ctx, userID)
		if err == nil {
			return roles, nil
		}
		lastErr = err

		if attempt < l.maxAttempts {
			logx.WithFields(logx.Fields{
				"user_id": userID.String(),
				"attempt": attempt,
			}).Warnf("role load failed, retrying: %v", err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.backoff):
			}
		}
	}

	return nil, ErrRoleLoadFailed().WithCause(lastErr)
}

// CachedRoleLoader cachea los roles resueltos en Redis. El TTL corto acota la
// ventana en la que una revocación de rol sigue siendo visible.
type CachedRoleLoader struct {
	inner RoleLoader
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedRoleLoader(inner RoleLoader, rdb *redis.Client, ttl time.Duration) *CachedRoleLoader {
	return &CachedRoleLoader{inner: inner, rdb: rdb, ttl: ttl}
}

func (l *CachedRoleLoader) cacheKey(userID kernel.UserID) string {
	return fmt.Sprintf("roles:%s", userID.String())
}

func (l *CachedRoleLoader) LoadRoles(ctx context.Context, userID kernel.UserID) ([]iam.Role, error) {
	key := l.cacheKey(userID)

	cached, err := l.rdb.Get(ctx, key).Result()
	if err == nil {
		var names []string
		if err := json.Unmarshal([]byte(cached), &names); err == nil {
			return iam.RolesFromStrings(names), nil
		}
		// Entrada corrupta, se ignora y se recarga
		l.rdb.Del(ctx, key)
	}

	roles, err := l.inner.LoadRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(iam.RolesToStrings(roles)); err == nil {
		if err := l.rdb.Set(ctx, key, payload, l.ttl).Err(); err != nil {
			logx.Warnf("role cache write failed for %s: %v", userID.String(), err)
		}
	}

	return roles, nil
}

// Invalidate borra la entrada de cache de un usuario
func (l *CachedRoleLoader) Invalidate(ctx context.Context, userID kernel.UserID) {
	if err := l.rdb.Del(ctx, l.cacheKey(userID)).Err(); err != nil {
		logx.Warnf("role cache invalidation failed for %s: %v", userID.String(), err)
	}
}
