package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrMissingParent = errors.New("parent row does not exist")
)

const DefaultBatchSize = 500

// Store is what a seeding run writes through. Insert methods assign generated
// ids to the passed rows in place.
type Store interface {
	Clear(ctx context.Context, tables []string) error
	InsertCollections(ctx context.Context, rows []Collection) error
	InsertCategories(ctx context.Context, rows []Category) error
	InsertSubcollections(ctx context.Context, rows []Subcollection) error
	InsertSubcategories(ctx context.Context, rows []Subcategory) error
	InsertProducts(ctx context.Context, rows []Product) error
	Transaction(ctx context.Context, fn func(Store) error) error
}

// TableClearer empties a table the way the underlying database prefers.
type TableClearer interface {
	ClearTable(ctx context.Context, db *gorm.DB, table string) error
}

type Repository struct {
	db        *gorm.DB
	clearer   TableClearer
	batchSize int
}

func NewRepository(db *gorm.DB, clearer TableClearer, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Repository{
		db:        db,
		clearer:   clearer,
		batchSize: batchSize,
	}
}

func (r *Repository) Clear(ctx context.Context, tables []string) error {
	for _, table := range tables {
		if err := r.clearer.ClearTable(ctx, r.db, table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repository) InsertCollections(ctx context.Context, rows []Collection) error {
	return insertBatches(ctx, r, TableCollections, rows)
}

func (r *Repository) InsertCategories(ctx context.Context, rows []Category) error {
	return insertBatches(ctx, r, TableCategories, rows)
}

func (r *Repository) InsertSubcollections(ctx context.Context, rows []Subcollection) error {
	return insertBatches(ctx, r, TableSubcollections, rows)
}

func (r *Repository) InsertSubcategories(ctx context.Context, rows []Subcategory) error {
	return insertBatches(ctx, r, TableSubcategories, rows)
}

func (r *Repository) InsertProducts(ctx context.Context, rows []Product) error {
	return insertBatches(ctx, r, TableProducts, rows)
}

func (r *Repository) Transaction(ctx context.Context, fn func(Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, clearer: r.clearer, batchSize: r.batchSize})
	})
}

func insertBatches[T any](ctx context.Context, r *Repository, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(rows, r.batchSize).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("failed to insert into %s: %w: %v", table, ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("failed to insert into %s: %w: %v", table, ErrMissingParent, err)
	default:
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
}
