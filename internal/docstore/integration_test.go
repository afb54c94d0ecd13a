//go:build integration

package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
)

func TestGormStore_Postgres(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("dorm_admin"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := docstore.NewGormStore(db, "dormitory")
	require.NoError(t, store.Migrate(ctx))

	_, err = store.Create(ctx, "payments", "p1", map[string]interface{}{"status": "paid", "amount": 100, "notes": "March rent"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "payments", "p2", map[string]interface{}{"status": "pending", "amount": 20, "notes": "laundry"})
	require.NoError(t, err)

	res, err := store.List(ctx, "payments", docstore.ListOptions{Filters: []docstore.Filter{docstore.Equal("status", "paid")}})
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "p1", res.Documents[0].ID)

	res, err = store.List(ctx, "payments", docstore.ListOptions{Filters: []docstore.Filter{docstore.LessThan("amount", 50)}})
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "p2", res.Documents[0].ID)

	res, err = store.List(ctx, "payments", docstore.ListOptions{Filters: []docstore.Filter{docstore.Search("notes", "RENT")}})
	require.NoError(t, err)
	assert.Len(t, res.Documents, 1)

	_, err = store.Update(ctx, "payments", "p2", map[string]interface{}{"status": "paid"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "payments", "p1"))

	res, err = store.List(ctx, "payments", docstore.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}
