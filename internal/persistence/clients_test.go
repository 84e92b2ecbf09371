package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/config"
)

func TestNewPostgres_EmptyDSNRunsWithoutPool(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, pg.PoolHandle())
	require.NoError(t, pg.Ping(context.Background()))
	pg.Close()
}

func TestRedis_UnconfiguredClient(t *testing.T) {
	var r *Redis
	require.Error(t, r.Ping(context.Background()))
	require.Error(t, r.Publish(context.Background(), "notifications:u-1", []byte("{}")))
	r.Close()
}
