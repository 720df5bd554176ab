//go:build integration
// +build integration

package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"poolcare_server/config"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("poolcare"),
		postgres.WithUsername("poolcare"),
		postgres.WithPassword("poolcare"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.ConnectDSN(ctx, dsn, config.NewLogger(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.CreateSchema(ctx, db, "schedule_changes"))
	// running it twice must be harmless
	require.NoError(t, database.CreateSchema(ctx, db, "schedule_changes"))
	return db
}

func TestDatabaseIntegration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("query builder", func(t *testing.T) {
		for i := range 5 {
			_, err := database.Create(ctx, db, &tables.Category{Name: fmt.Sprintf("Chemicals %d", i), SortOrder: 5 - i})
			require.NoError(t, err)
		}

		all, err := database.Query[tables.Category](db).
			Search("chemicals", "name").
			OrderBy("sort_order", database.ASC).
			All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "Chemicals 4", all[0].Name)

		missing, err := database.FindByID[tables.Category](ctx, db, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		page, err := database.Paginate(ctx, database.Query[tables.Category](db).OrderBy("name", database.ASC), 2, 2)
		require.NoError(t, err)
		assert.Len(t, page.Data, 2)
		assert.Equal(t, 5, page.Pagination.Total)
		assert.Equal(t, 3, page.Pagination.TotalPages)
		assert.Equal(t, "Chemicals 2", page.Data[0].Name)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		errAbort := errors.New("abort")
		err := db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
			if _, err := database.Create(ctx, tx, &tables.Category{Name: "Rolled back"}); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		exists, err := database.Query[tables.Category](db).Where("name", "Rolled back").Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		user := &tables.User{Name: "Pat", Email: "pat@example.com", PasswordHash: "x", Role: tables.RoleCustomer}
		_, err := database.Create(ctx, db, user)
		require.NoError(t, err)

		_, err = database.Create(ctx, db, &tables.User{Name: "Pat 2", Email: "pat@example.com", PasswordHash: "x", Role: tables.RoleCustomer})
		require.Error(t, err)
		assert.ErrorIs(t, lib.MapPgError(err), lib.ErrConflict)
	})

	t.Run("parent delete is restricted", func(t *testing.T) {
		parent, err := database.Create(ctx, db, &tables.Category{Name: "Equipment"})
		require.NoError(t, err)
		_, err = database.Create(ctx, db, &tables.Category{Name: "Pumps", ParentId: &parent.Id})
		require.NoError(t, err)

		_, err = database.DeleteByID[tables.Category](ctx, db, parent.Id)
		require.Error(t, err)
		assert.ErrorIs(t, lib.MapPgError(err), lib.ErrInUse)
	})

	t.Run("update by id", func(t *testing.T) {
		category, err := database.Create(ctx, db, &tables.Category{Name: "Filters"})
		require.NoError(t, err)

		updated, err := database.UpdateByID[tables.Category](ctx, db, category.Id, map[string]any{"name": "Filters & cartridges"})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Filters & cartridges", updated.Name)

		none, err := database.UpdateByID[tables.Category](ctx, db, uuid.New(), map[string]any{"name": "ghost"})
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}
