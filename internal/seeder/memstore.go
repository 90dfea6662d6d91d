package seeder

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
)

// MemoryStore keeps the catalog in memory. It backs --dry-run and enforces
// the same key and foreign key rules as the real schema.
type MemoryStore struct {
	nextCollectionID    int64
	nextSubcollectionID int64

	collections    map[int64]catalog.Collection
	collectionSlug map[string]int64
	categories     map[string]catalog.Category
	subcollections map[int64]catalog.Subcollection
	subcategories  map[string]catalog.Subcategory
	products       map[string]catalog.Product
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	m.reset()
	return m
}

func (m *MemoryStore) reset() {
	m.nextCollectionID = 0
	m.nextSubcollectionID = 0
	m.collections = make(map[int64]catalog.Collection)
	m.collectionSlug = make(map[string]int64)
	m.categories = make(map[string]catalog.Category)
	m.subcollections = make(map[int64]catalog.Subcollection)
	m.subcategories = make(map[string]catalog.Subcategory)
	m.products = make(map[string]catalog.Product)
}

// Count returns the number of rows held for table.
func (m *MemoryStore) Count(table string) int {
	switch table {
	case catalog.TableCollections:
		return len(m.collections)
	case catalog.TableCategories:
		return len(m.categories)
	case catalog.TableSubcollections:
		return len(m.subcollections)
	case catalog.TableSubcategories:
		return len(m.subcategories)
	case catalog.TableProducts:
		return len(m.products)
	}
	return 0
}

func (m *MemoryStore) Clear(ctx context.Context, tables []string) error {
	for _, table := range tables {
		switch table {
		case catalog.TableCollections:
			m.collections = make(map[int64]catalog.Collection)
			m.collectionSlug = make(map[string]int64)
			m.nextCollectionID = 0
		case catalog.TableCategories:
			m.categories = make(map[string]catalog.Category)
		case catalog.TableSubcollections:
			m.subcollections = make(map[int64]catalog.Subcollection)
			m.nextSubcollectionID = 0
		case catalog.TableSubcategories:
			m.subcategories = make(map[string]catalog.Subcategory)
		case catalog.TableProducts:
			m.products = make(map[string]catalog.Product)
		default:
			return fmt.Errorf("unknown table %s", table)
		}
	}
	return nil
}

func (m *MemoryStore) InsertCollections(ctx context.Context, rows []catalog.Collection) error {
	for i := range rows {
		if _, dup := m.collectionSlug[rows[i].Slug]; dup {
			return fmt.Errorf("%w: collections.slug %q", catalog.ErrDuplicateKey, rows[i].Slug)
		}
		m.nextCollectionID++
		rows[i].ID = m.nextCollectionID
		m.collections[rows[i].ID] = rows[i]
		m.collectionSlug[rows[i].Slug] = rows[i].ID
	}
	return nil
}

func (m *MemoryStore) InsertCategories(ctx context.Context, rows []catalog.Category) error {
	for _, row := range rows {
		if _, dup := m.categories[row.Slug]; dup {
			return fmt.Errorf("%w: categories.slug %q", catalog.ErrDuplicateKey, row.Slug)
		}
		if _, ok := m.collections[row.CollectionID]; !ok {
			return fmt.Errorf("%w: collections.id %d", catalog.ErrMissingParent, row.CollectionID)
		}
		m.categories[row.Slug] = row
	}
	return nil
}

func (m *MemoryStore) InsertSubcollections(ctx context.Context, rows []catalog.Subcollection) error {
	for i := range rows {
		if _, ok := m.categories[rows[i].CategorySlug]; !ok {
			return fmt.Errorf("%w: categories.slug %q", catalog.ErrMissingParent, rows[i].CategorySlug)
		}
		m.nextSubcollectionID++
		rows[i].ID = m.nextSubcollectionID
		m.subcollections[rows[i].ID] = rows[i]
	}
	return nil
}

func (m *MemoryStore) InsertSubcategories(ctx context.Context, rows []catalog.Subcategory) error {
	for _, row := range rows {
		if _, dup := m.subcategories[row.Slug]; dup {
			return fmt.Errorf("%w: subcategories.slug %q", catalog.ErrDuplicateKey, row.Slug)
		}
		if _, ok := m.subcollections[row.SubcollectionID]; !ok {
			return fmt.Errorf("%w: subcollections.id %d", catalog.ErrMissingParent, row.SubcollectionID)
		}
		m.subcategories[row.Slug] = row
	}
	return nil
}

func (m *MemoryStore) InsertProducts(ctx context.Context, rows []catalog.Product) error {
	for _, row := range rows {
		if _, dup := m.products[row.Slug]; dup {
			return fmt.Errorf("%w: products.slug %q", catalog.ErrDuplicateKey, row.Slug)
		}
		if _, ok := m.subcategories[row.SubcategorySlug]; !ok {
			return fmt.Errorf("%w: subcategories.slug %q", catalog.ErrMissingParent, row.SubcategorySlug)
		}
		m.products[row.Slug] = row
	}
	return nil
}

// Transaction runs fn against a copy and keeps the copy only if fn succeeds.
func (m *MemoryStore) Transaction(ctx context.Context, fn func(catalog.Store) error) error {
	tx := m.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*m = *tx
	return nil
}

func (m *MemoryStore) clone() *MemoryStore {
	c := &MemoryStore{
		nextCollectionID:    m.nextCollectionID,
		nextSubcollectionID: m.nextSubcollectionID,
		collections:         make(map[int64]catalog.Collection, len(m.collections)),
		collectionSlug:      make(map[string]int64, len(m.collectionSlug)),
		categories:          make(map[string]catalog.Category, len(m.categories)),
		subcollections:      make(map[int64]catalog.Subcollection, len(m.subcollections)),
		subcategories:       make(map[string]catalog.Subcategory, len(m.subcategories)),
		products:            make(map[string]catalog.Product, len(m.products)),
	}
	for k, v := range m.collections {
		c.collections[k] = v
	}
	for k, v := range m.collectionSlug {
		c.collectionSlug[k] = v
	}
	for k, v := range m.categories {
		c.categories[k] = v
	}
	for k, v := range m.subcollections {
		c.subcollections[k] = v
	}
	for k, v := range m.subcategories {
		c.subcategories[k] = v
	}
	for k, v := range m.products {
		c.products[k] = v
	}
	return c
}
