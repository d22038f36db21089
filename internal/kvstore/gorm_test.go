package kvstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=campus",
			"POSTGRES_PASSWORD=campus",
			"POSTGRES_DB=campus",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("postgres://campus:campus@%s/campus?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
		if openErr != nil {
			return openErr
		}
		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	return db
}

func TestGorm(t *testing.T) {
	db := openTestPostgres(t)
	ctx := context.Background()

	// The table is created lazily on first use.
	store := NewGorm(db, "test")
	other := NewGorm(db, "other")

	_, err := store.Get(ctx, "event_registrations")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "event_registrations", []byte(`[{"mssv":"1"}]`)))
	require.NoError(t, store.Set(ctx, "event_registrations", []byte(`[{"mssv":"2"}]`)))

	got, err := store.Get(ctx, "event_registrations")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"mssv":"2"}]`, string(got))

	_, err = other.Get(ctx, "event_registrations")
	assert.ErrorIs(t, err, ErrNotFound, "namespaces must not leak into each other")

	require.NoError(t, store.Remove(ctx, "event_registrations"))
	_, err = store.Get(ctx, "event_registrations")
	assert.ErrorIs(t, err, ErrNotFound)
}
