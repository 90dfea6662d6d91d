package verify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/database"
	"github.com/Lumos-Labs-HQ/catalogseed/internal/seeder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fanOut = seeder.FanOut{
	Collections:                   2,
	CategoriesPerCollection:       2,
	SubcollectionsPerCategory:     1,
	SubcategoriesPerSubcollection: 2,
	ProductsPerSubcategory:        2,
}

func seededVerifier(t *testing.T) (*Verifier, *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	adapter, err := database.NewAdapter("sqlite")
	require.NoError(t, err)

	url := "sqlite://" + filepath.Join(t.TempDir(), "verify.db")
	db, err := database.Connect(ctx, adapter, url, &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, catalog.AutoMigrate(ctx, db))

	repo := catalog.NewRepository(db, adapter, 0)
	_, err = seeder.New(repo, adapter.Name(), seeder.SeedConfig{FanOut: fanOut, Clear: true}, nil).Seed(ctx)
	require.NoError(t, err)

	sqlxDB, err := database.SQLX(db, adapter)
	require.NoError(t, err)

	return New(sqlxDB, adapter.Placeholder()), db
}

func TestVerifyCleanRun(t *testing.T) {
	v, _ := seededVerifier(t)

	report, err := v.Verify(context.Background(), fanOut)
	require.NoError(t, err)
	assert.False(t, report.Failed(), "%+v", report.Failures())
	assert.Len(t, report.Checks, len(catalog.Tables)+len(sluggedTables)+2*len(relations))
}

func TestCounts(t *testing.T) {
	v, _ := seededVerifier(t)

	counts, err := v.Counts(context.Background())
	require.NoError(t, err)
	for table, want := range fanOut.Totals() {
		assert.Equal(t, int64(want), counts[table], table)
	}
}

func TestVerifyDetectsOrphanAndCountDrift(t *testing.T) {
	v, db := seededVerifier(t)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec(
		"INSERT INTO products (slug, name, description, price, subcategory_slug, image_url) VALUES (?, ?, ?, ?, ?, ?)",
		"stray-product", "Stray", "nothing", "12.50", "missing-subcategory", "https://placehold.co/400x400",
	).Error)

	report, err := v.Verify(context.Background(), fanOut)
	require.NoError(t, err)
	require.True(t, report.Failed())

	failed := map[string]bool{}
	for _, c := range report.Failures() {
		failed[c.Name] = true
	}
	assert.True(t, failed["count:products"])
	assert.True(t, failed["foreign-keys:products"])
	assert.False(t, failed["fan-out:products"])
	assert.False(t, failed["count:collections"])
}

func TestVerifyDetectsUnevenFanOut(t *testing.T) {
	v, db := seededVerifier(t)

	var victim catalog.Product
	require.NoError(t, db.First(&victim).Error)
	require.NoError(t, db.Delete(&victim).Error)

	report, err := v.Verify(context.Background(), fanOut)
	require.NoError(t, err)

	failed := map[string]bool{}
	for _, c := range report.Failures() {
		failed[c.Name] = true
	}
	assert.True(t, failed["fan-out:products"])
	assert.True(t, failed["count:products"])
	assert.False(t, failed["foreign-keys:products"])
}
