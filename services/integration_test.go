//go:build integration
// +build integration

package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"poolcare_server/catalog"
	"poolcare_server/config"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// recordingStore keeps uploaded and deleted keys in memory. afterUpload runs
// once the object is "stored", which lets a test cancel the request between
// the upload and the row insert.
type recordingStore struct {
	mu          sync.Mutex
	uploaded    []string
	deleted     []string
	afterUpload func()
}

func (s *recordingStore) Upload(_ context.Context, key string, body io.ReadSeeker, _ int64, _ string) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	s.mu.Lock()
	s.uploaded = append(s.uploaded, key)
	s.mu.Unlock()
	if s.afterUpload != nil {
		s.afterUpload()
	}
	return nil
}

func (s *recordingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *recordingStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type catalogFixture struct {
	db          *database.DB
	store       *recordingStore
	categories  *CategoryService
	attachments *AttachmentService
	bundles     *BundleService
}

func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()

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
			t.Logf("Failed to terminate postgres: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func startRedis(t *testing.T, ctx context.Context) string {
	t.Helper()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis: %v", err)
		}
	})

	addr, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)
	return addr
}

func setupCatalog(t *testing.T) *catalogFixture {
	t.Helper()
	ctx := context.Background()
	logger := config.NewLogger(false)

	db, err := database.ConnectDSN(ctx, startPostgres(t, ctx), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.CreateSchema(ctx, db, "schedule_changes"))

	cfg := &structs.Config{
		Cache:   &structs.CacheConfig{Address: startRedis(t, ctx)},
		Auth:    &structs.AuthConfig{},
		Storage: &structs.StorageConfig{MaxUploadSize: 1 << 20},
	}
	redisClient := NewRedisClient(cfg.Cache)
	t.Cleanup(func() { _ = redisClient.Close() })

	cache := NewCacheService(logger, cfg, redisClient)
	store := &recordingStore{}
	categories := NewCategoryService(logger, cfg, db, cache)
	attachments := NewAttachmentService(logger, cfg, db, store)
	products := NewProductService(logger, cfg, db, cache, categories, attachments)
	offerings := NewOfferingService(logger, cfg, db, cache, categories, attachments)

	return &catalogFixture{
		db:          db,
		store:       store,
		categories:  categories,
		attachments: attachments,
		bundles:     NewBundleService(logger, cfg, db, cache, products, offerings, attachments),
	}
}

func TestCatalogWritesIntegration(t *testing.T) {
	fx := setupCatalog(t)
	ctx := context.Background()

	t.Run("category with children is not deleted", func(t *testing.T) {
		parent, err := fx.categories.Create(ctx, &structs.CategoryRequest{Name: "Equipment"})
		require.NoError(t, err)
		child, err := fx.categories.Create(ctx, &structs.CategoryRequest{Name: "Pumps", ParentId: &parent.Id})
		require.NoError(t, err)

		err = fx.categories.Delete(ctx, parent.Id)
		require.ErrorIs(t, err, lib.ErrHasChildren)

		for _, id := range []uuid.UUID{parent.Id, child.Id} {
			exists, err := database.Query[tables.Category](fx.db).Where("id", id).Exists(ctx)
			require.NoError(t, err)
			assert.True(t, exists)
		}

		listing, err := fx.categories.List(ctx)
		require.NoError(t, err)
		flags := map[string]bool{}
		var walk func(nodes []*catalog.TreeNode)
		walk = func(nodes []*catalog.TreeNode) {
			for _, n := range nodes {
				flags[n.Name] = n.HasChildren
				walk(n.Children)
			}
		}
		walk(listing.Tree)
		assert.True(t, flags["Equipment"])
		assert.False(t, flags["Pumps"])

		require.NoError(t, fx.categories.Delete(ctx, child.Id))
		require.NoError(t, fx.categories.Delete(ctx, parent.Id))
	})

	t.Run("bundle save replaces lines", func(t *testing.T) {
		chlorine, err := database.Create(ctx, fx.db, &tables.Product{Name: "Chlorine tabs", Price: 30})
		require.NoError(t, err)
		shock, err := database.Create(ctx, fx.db, &tables.Product{Name: "Shock", Price: 12.5})
		require.NoError(t, err)
		opening, err := database.Create(ctx, fx.db, &tables.Service{Name: "Pool opening", Price: 150})
		require.NoError(t, err)

		created, err := fx.bundles.Save(ctx, nil, catalog.BundleForm{
			Name:     "Opening kit",
			Products: []catalog.Line{{ItemID: chlorine.Id, Quantity: 2}},
			Services: []catalog.Line{{ItemID: opening.Id, Quantity: 1}},
		})
		require.NoError(t, err)
		require.Len(t, created.Products, 1)
		require.Len(t, created.Services, 1)

		updated, err := fx.bundles.Save(ctx, &created.Id, catalog.BundleForm{
			Name: "Opening kit",
			Products: []catalog.Line{
				{ItemID: shock.Id, Quantity: 1},
				{ItemID: chlorine.Id, Quantity: 3},
			},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Products, 2)
		assert.Empty(t, updated.Services)

		productRows, err := database.Query[tables.BundleProduct](fx.db).Where("bundle_id", created.Id).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, productRows)
		serviceRows, err := database.Query[tables.BundleService](fx.db).Where("bundle_id", created.Id).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, serviceRows)
	})

	t.Run("bundle with a negative line is rejected before writing", func(t *testing.T) {
		filter, err := database.Create(ctx, fx.db, &tables.Product{Name: "Sand filter", Price: 400})
		require.NoError(t, err)

		_, err = fx.bundles.Save(ctx, nil, catalog.BundleForm{
			Name: "Broken kit",
			Products: []catalog.Line{
				{ItemID: filter.Id, Quantity: -5},
				{ItemID: filter.Id, Quantity: 6},
			},
		})
		var res catalog.ValidationResult
		require.True(t, errors.As(err, &res))
		assert.False(t, res.OK)

		exists, err := database.Query[tables.Bundle](fx.db).Where("name", "Broken kit").Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("failed attachment insert removes the object", func(t *testing.T) {
		heater, err := database.Create(ctx, fx.db, &tables.Product{Name: "Heat pump", Price: 2100})
		require.NoError(t, err)

		reqCtx, cancel := context.WithCancel(ctx)
		fx.store.afterUpload = cancel
		t.Cleanup(func() { fx.store.afterUpload = nil })

		_, err = fx.attachments.Upload(reqCtx, &Upload{
			ItemType:    tables.ItemTypeProduct,
			ItemID:      heater.Id,
			FileName:    "heat-pump.jpg",
			ContentType: "image/jpeg",
			Size:        4,
			Body:        bytes.NewReader([]byte("jpeg")),
		})
		require.Error(t, err)

		require.Len(t, fx.store.uploaded, 1)
		assert.Equal(t, fx.store.uploaded, fx.store.deleted)

		rows, err := fx.attachments.List(ctx, tables.ItemTypeProduct, heater.Id)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("attachment upload records the row", func(t *testing.T) {
		pump, err := database.Create(ctx, fx.db, &tables.Product{Name: "Variable speed pump", Price: 900})
		require.NoError(t, err)
		before := len(fx.store.deleted)

		att, err := fx.attachments.Upload(ctx, &Upload{
			ItemType:    tables.ItemTypeProduct,
			ItemID:      pump.Id,
			FileName:    "manual.pdf",
			ContentType: "application/pdf",
			Size:        3,
			Body:        bytes.NewReader([]byte("pdf")),
		})
		require.NoError(t, err)
		assert.Equal(t, tables.MediaTypeDocument, att.MediaType)
		assert.Equal(t, "https://cdn.example.com/"+att.ObjectKey, att.URL)
		assert.Len(t, fx.store.deleted, before)
	})
}
