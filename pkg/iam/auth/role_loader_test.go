package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/convocatoria/pkg/config"
	"github.com/Abraxas-365/convocatoria/pkg/errx"
	"github.com/Abraxas-365/convocatoria/pkg/iam"
	"github.com/Abraxas-365/convocatoria/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRoleLoader struct {
	failures int
	calls    int
	roles    []iam.Role
}

func (l *flakyRoleLoader) LoadRoles(ctx context.Context, userID kernel.UserID) ([]iam.Role, error) {
	l.calls++
	if l.calls <= l.failures {
		return nil, errors.New("db temporalmente caída")
	}
	return l.roles, nil
}

func retryConfig(attempts int) config.RoleLoaderConfig {
	return config.RoleLoaderConfig{
		MaxAttempts: attempts,
		Backoff:     time.Millisecond,
	}
}

func TestRetryingRoleLoaderRecovers(t *testing.T) {
	inner := &flakyRoleLoader{failures: 2, roles: []iam.Role{iam.RolePlaneacion}}
	loader := NewRetryingRoleLoader(inner, retryConfig(3))

	roles, err := loader.LoadRoles(context.Background(), kernel.NewUserID("user-1"))
	require.NoError(t, err)
	assert.Equal(t, []iam.Role{iam.RolePlaneacion}, roles)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingRoleLoaderExhaustsAttempts(t *testing.T) {
	inner := &flakyRoleLoader{failures: 10}
	loader := NewRetryingRoleLoader(inner, retryConfig(3))

	_, err := loader.LoadRoles(context.Background(), kernel.NewUserID("user-1"))
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeExternal))
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingRoleLoaderHonorsContext(t *testing.T) {
	inner := &flakyRoleLoader{failures: 10}
	loader := NewRetryingRoleLoader(inner, config.RoleLoaderConfig{
		MaxAttempts: 5,
		Backoff:     time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadRoles(ctx, kernel.NewUserID("user-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}
