package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/database/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	adapter := sqlite.New()
	db, err := adapter.Open(filepath.Join(t.TempDir(), "catalog.db"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, AutoMigrate(context.Background(), db))
	return NewRepository(db, adapter, 2), db
}

func seedChain(t *testing.T, repo Store) {
	t.Helper()
	ctx := context.Background()

	collections := []Collection{{Name: "Toys 1a2b", Slug: "toys-1a2b"}, {Name: "Books 3c4d", Slug: "books-3c4d"}}
	require.NoError(t, repo.InsertCollections(ctx, collections))
	require.NotZero(t, collections[0].ID)
	require.NotZero(t, collections[1].ID)
	require.NotEqual(t, collections[0].ID, collections[1].ID)

	categories := []Category{{Slug: "soft-steel", Name: "Soft Steel", CollectionID: collections[1].ID}}
	require.NoError(t, repo.InsertCategories(ctx, categories))

	subcollections := []Subcollection{
		{Name: "Rustic Steel Chair", CategorySlug: "soft-steel"},
		{Name: "Sleek Wooden Table", CategorySlug: "soft-steel"},
		{Name: "Small Cotton Hat", CategorySlug: "soft-steel"},
	}
	require.NoError(t, repo.InsertSubcollections(ctx, subcollections))
	for _, sc := range subcollections {
		require.NotZero(t, sc.ID)
	}

	subcategories := []Subcategory{{Slug: "steel-soft", Name: "Steel Soft", SubcollectionID: subcollections[2].ID}}
	require.NoError(t, repo.InsertSubcategories(ctx, subcategories))

	products := []Product{{
		Slug:            "rustic-steel-chair-abcdef",
		Name:            "Rustic Steel Chair abcdef",
		Description:     "A chair.",
		Price:           decimal.RequireFromString("49.99"),
		SubcategorySlug: "steel-soft",
	}}
	require.NoError(t, repo.InsertProducts(ctx, products))
}

func TestRepositoryInsertChain(t *testing.T) {
	repo, db := newTestRepository(t)
	seedChain(t, repo)

	var product Product
	require.NoError(t, db.First(&product, "slug = ?", "rustic-steel-chair-abcdef").Error)
	assert.True(t, decimal.RequireFromString("49.99").Equal(product.Price))
}

func TestRepositoryDuplicateSlug(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCollections(ctx, []Collection{{Name: "A", Slug: "a"}}))
	err := repo.InsertCollections(ctx, []Collection{{Name: "A", Slug: "a"}})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRepositoryMissingParent(t *testing.T) {
	repo, _ := newTestRepository(t)

	err := repo.InsertCategories(context.Background(), []Category{{Slug: "x", Name: "X", CollectionID: 404}})
	require.ErrorIs(t, err, ErrMissingParent)
}

func TestRepositoryClear(t *testing.T) {
	repo, db := newTestRepository(t)
	seedChain(t, repo)

	require.NoError(t, repo.Clear(context.Background(), []string{
		TableProducts, TableSubcategories, TableSubcollections, TableCategories, TableCollections,
	}))

	for _, table := range Tables {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		assert.Zero(t, n, table)
	}
}

func TestRepositoryTransactionRollback(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx Store) error {
		if err := tx.InsertCollections(ctx, []Collection{{Name: "A", Slug: "a"}}); err != nil {
			return err
		}
		return tx.InsertCategories(ctx, []Category{{Slug: "x", Name: "X", CollectionID: 404}})
	})
	require.ErrorIs(t, err, ErrMissingParent)

	var n int64
	require.NoError(t, db.Table(TableCollections).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRepositoryEnforcesForeignKeysWithCustomURLParams(t *testing.T) {
	adapter := sqlite.New()
	url := "sqlite://" + filepath.Join(t.TempDir(), "params.db") + "?_busy_timeout=100"
	db, err := adapter.Open(url, &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, AutoMigrate(context.Background(), db))

	repo := NewRepository(db, adapter, 0)
	err = repo.InsertCategories(context.Background(), []Category{{Slug: "x", Name: "X", CollectionID: 404}})
	require.ErrorIs(t, err, ErrMissingParent)
}
