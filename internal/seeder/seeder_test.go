package seeder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func smallFanOut() FanOut {
	return FanOut{
		Collections:                   3,
		CategoriesPerCollection:       2,
		SubcollectionsPerCategory:     2,
		SubcategoriesPerSubcollection: 2,
		ProductsPerSubcategory:        3,
	}
}

func TestSeedMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	fanOut := smallFanOut()

	s := New(store, "memory", SeedConfig{FanOut: fanOut, Clear: true, RandSeed: 21}, nil)
	summary, err := s.Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fanOut.EstimatedTotal(), summary.Counts.Total())
	assert.Equal(t, int64(21), summary.RandSeed)
	assert.NotEmpty(t, summary.RunID)

	for table, want := range fanOut.Totals() {
		assert.Equal(t, want, store.Count(table), table)
	}
}

func TestSeedClearsPreviousRun(t *testing.T) {
	store := NewMemoryStore()
	cfg := SeedConfig{FanOut: smallFanOut(), Clear: true}

	_, err := New(store, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)
	_, err = New(store, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.FanOut.Products(), store.Count(catalog.TableProducts))
}

func TestSeedWithoutClearKeepsRows(t *testing.T) {
	store := NewMemoryStore()
	cfg := SeedConfig{FanOut: smallFanOut(), Clear: true}

	_, err := New(store, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)

	cfg.Clear = false
	_, err = New(store, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2*cfg.FanOut.Collections, store.Count(catalog.TableCollections))
}

// failingStore fails the products insert after everything else succeeded.
type failingStore struct {
	*MemoryStore
}

var errInjected = errors.New("injected failure")

func (f failingStore) InsertProducts(ctx context.Context, rows []catalog.Product) error {
	return errInjected
}

func (f failingStore) Transaction(ctx context.Context, fn func(catalog.Store) error) error {
	return f.MemoryStore.Transaction(ctx, func(tx catalog.Store) error {
		return fn(failingStore{MemoryStore: tx.(*MemoryStore)})
	})
}

func TestSeedRollsBackOnFailure(t *testing.T) {
	mem := NewMemoryStore()
	cfg := SeedConfig{FanOut: smallFanOut(), Clear: true}

	_, err := New(mem, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)

	_, err = New(failingStore{mem}, "memory", cfg, nil).Seed(context.Background())
	require.ErrorIs(t, err, errInjected)
	assert.Contains(t, err.Error(), catalog.TableProducts)

	// the earlier run is untouched
	assert.Equal(t, cfg.FanOut.Products(), mem.Count(catalog.TableProducts))
	assert.Equal(t, cfg.FanOut.Collections, mem.Count(catalog.TableCollections))
}

func TestSeedWithoutTransactionLeavesPartialRows(t *testing.T) {
	mem := NewMemoryStore()
	cfg := SeedConfig{FanOut: smallFanOut(), Clear: true, NoTransaction: true}

	_, err := New(failingStore{mem}, "memory", cfg, nil).Seed(context.Background())
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, cfg.FanOut.Subcategories(), mem.Count(catalog.TableSubcategories))
	assert.Zero(t, mem.Count(catalog.TableProducts))
}

func openSQLite(t *testing.T) (*gorm.DB, database.DatabaseAdapter) {
	t.Helper()

	adapter, err := database.NewAdapter("sqlite")
	require.NoError(t, err)

	url := "sqlite://" + filepath.Join(t.TempDir(), "seed.db")
	db, err := database.Connect(context.Background(), adapter, url, &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, catalog.AutoMigrate(context.Background(), db))
	return db, adapter
}

func TestSeedSQLite(t *testing.T) {
	db, adapter := openSQLite(t)
	fanOut := smallFanOut()
	repo := catalog.NewRepository(db, adapter, 7)

	for run := 0; run < 2; run++ {
		summary, err := New(repo, adapter.Name(), SeedConfig{FanOut: fanOut, Clear: true}, nil).Seed(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fanOut.EstimatedTotal(), summary.Counts.Total())
	}

	for table, want := range fanOut.Totals() {
		var got int64
		require.NoError(t, db.Table(table).Count(&got).Error)
		assert.Equal(t, int64(want), got, table)
	}

	var orphans int64
	require.NoError(t, db.Table(catalog.TableProducts+" p").
		Joins("LEFT JOIN subcategories s ON s.slug = p.subcategory_slug").
		Where("s.slug IS NULL").
		Count(&orphans).Error)
	assert.Zero(t, orphans)

	var product catalog.Product
	require.NoError(t, db.First(&product).Error)
	assert.True(t, product.Price.IsPositive())
	assert.NotEmpty(t, product.ImageURL)
}

func TestSeedSameRandSeedReproducesCatalog(t *testing.T) {
	cfg := SeedConfig{FanOut: smallFanOut(), Clear: true, RandSeed: 99}

	first := NewMemoryStore()
	_, err := New(first, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)

	second := NewMemoryStore()
	_, err = New(second, "memory", cfg, nil).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.collections, second.collections)
	assert.Equal(t, first.categories, second.categories)
	assert.Equal(t, first.products, second.products)
}

// cancellingStore cancels the run's context once the categories are written.
type cancellingStore struct {
	catalog.Store
	cancel context.CancelFunc
}

func (c cancellingStore) InsertCategories(ctx context.Context, rows []catalog.Category) error {
	if err := c.Store.InsertCategories(ctx, rows); err != nil {
		return err
	}
	c.cancel()
	return nil
}

func (c cancellingStore) Transaction(ctx context.Context, fn func(catalog.Store) error) error {
	return c.Store.Transaction(ctx, func(tx catalog.Store) error {
		return fn(cancellingStore{Store: tx, cancel: c.cancel})
	})
}

func TestSeedSQLiteRollsBackOnCancel(t *testing.T) {
	db, adapter := openSQLite(t)
	fanOut := smallFanOut()
	repo := catalog.NewRepository(db, adapter, 0)

	_, err := New(repo, adapter.Name(), SeedConfig{FanOut: fanOut, Clear: true, RandSeed: 1}, nil).Seed(context.Background())
	require.NoError(t, err)

	var before []string
	require.NoError(t, db.Model(&catalog.Product{}).Order("slug").Pluck("slug", &before).Error)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := cancellingStore{Store: repo, cancel: cancel}
	_, err = New(store, adapter.Name(), SeedConfig{FanOut: fanOut, Clear: true, RandSeed: 2}, nil).Seed(ctx)
	require.Error(t, err)

	var after []string
	require.NoError(t, db.Model(&catalog.Product{}).Order("slug").Pluck("slug", &after).Error)
	assert.Equal(t, before, after)

	for table, want := range fanOut.Totals() {
		var got int64
		require.NoError(t, db.Table(table).Count(&got).Error)
		assert.Equal(t, int64(want), got, table)
	}
}
