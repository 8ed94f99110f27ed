package tenant_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/tenant"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type countingLookup struct {
	orgs  map[string]string
	calls int
}

func (l *countingLookup) GetOrgIDBySlug(ctx context.Context, slug string) (string, error) {
	l.calls++
	if id, ok := l.orgs[slug]; ok {
		return id, nil
	}
	return "", sql.ErrNoRows
}

func TestResolverWithoutRedisHitsLookupEveryTime(t *testing.T) {
	lookup := &countingLookup{orgs: map[string]string{"skylight": "org-1"}}
	resolver := tenant.NewResolver(lookup, nil, time.Minute, logger.NewLogger())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		id, err := resolver.OrgIDBySlug(ctx, "skylight")
		require.NoError(t, err)
		assert.Equal(t, "org-1", id)
	}
	assert.Equal(t, 3, lookup.calls)
}

func TestResolverRejectsEmptySlug(t *testing.T) {
	lookup := &countingLookup{orgs: map[string]string{}}
	resolver := tenant.NewResolver(lookup, nil, time.Minute, logger.NewLogger())

	_, err := resolver.OrgIDBySlug(context.Background(), "")
	assert.Error(t, err)
	assert.Equal(t, 0, lookup.calls)
}

// TestResolverCacheIntegration exercises the slug cache against a real Redis container.
func TestResolverCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})
	defer client.Close()

	lookup := &countingLookup{orgs: map[string]string{"skylight": "org-1"}}
	resolver := tenant.NewResolver(lookup, client, time.Minute, logger.NewLogger())

	// First resolution misses the cache and hits the lookup.
	id, err := resolver.OrgIDBySlug(ctx, "skylight")
	require.NoError(t, err)
	assert.Equal(t, "org-1", id)
	assert.Equal(t, 1, lookup.calls)

	// Second resolution is served from Redis.
	id, err = resolver.OrgIDBySlug(ctx, "skylight")
	require.NoError(t, err)
	assert.Equal(t, "org-1", id)
	assert.Equal(t, 1, lookup.calls)

	// Invalidation forces the next resolution back to the lookup.
	require.NoError(t, resolver.Invalidate(ctx, "skylight"))
	id, err = resolver.OrgIDBySlug(ctx, "skylight")
	require.NoError(t, err)
	assert.Equal(t, "org-1", id)
	assert.Equal(t, 2, lookup.calls)

	// Unknown slugs are not cached as hits.
	_, err = resolver.OrgIDBySlug(ctx, "nosuch")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
