// Package catalog holds the storefront schema the seeder populates:
// collections -> categories -> subcollections -> subcategories -> products.
package catalog

import "github.com/shopspring/decimal"

const (
	TableCollections    = "collections"
	TableCategories     = "categories"
	TableSubcollections = "subcollections"
	TableSubcategories  = "subcategories"
	TableProducts       = "products"
)

// Tables lists every catalog table, parents before children.
var Tables = []string{
	TableCollections,
	TableCategories,
	TableSubcollections,
	TableSubcategories,
	TableProducts,
}

type Collection struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" db:"id"`
	Name string `gorm:"type:varchar(255);not null" db:"name"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" db:"slug"`
}

func (Collection) TableName() string { return TableCollections }

type Category struct {
	Slug         string      `gorm:"primaryKey;type:varchar(255)" db:"slug"`
	Name         string      `gorm:"type:varchar(255);not null" db:"name"`
	CollectionID int64       `gorm:"not null;index" db:"collection_id"`
	ImageURL     string      `gorm:"column:image_url;type:varchar(512)" db:"image_url"`
	Collection   *Collection `gorm:"foreignKey:CollectionID;references:ID;constraint:OnDelete:CASCADE" db:"-"`
}

func (Category) TableName() string { return TableCategories }

type Subcollection struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" db:"id"`
	Name         string    `gorm:"type:varchar(255);not null" db:"name"`
	CategorySlug string    `gorm:"type:varchar(255);not null;index" db:"category_slug"`
	Category     *Category `gorm:"foreignKey:CategorySlug;references:Slug;constraint:OnDelete:CASCADE" db:"-"`
}

func (Subcollection) TableName() string { return TableSubcollections }

type Subcategory struct {
	Slug            string         `gorm:"primaryKey;type:varchar(255)" db:"slug"`
	Name            string         `gorm:"type:varchar(255);not null" db:"name"`
	SubcollectionID int64          `gorm:"not null;index" db:"subcollection_id"`
	ImageURL        string         `gorm:"column:image_url;type:varchar(512)" db:"image_url"`
	Subcollection   *Subcollection `gorm:"foreignKey:SubcollectionID;references:ID;constraint:OnDelete:CASCADE" db:"-"`
}

func (Subcategory) TableName() string { return TableSubcategories }

type Product struct {
	Slug            string          `gorm:"primaryKey;type:varchar(255)" db:"slug"`
	Name            string          `gorm:"type:varchar(255);not null" db:"name"`
	Description     string          `gorm:"type:text;not null" db:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" db:"price"`
	SubcategorySlug string          `gorm:"type:varchar(255);not null;index" db:"subcategory_slug"`
	ImageURL        string          `gorm:"column:image_url;type:varchar(512)" db:"image_url"`
	Subcategory     *Subcategory    `gorm:"foreignKey:SubcategorySlug;references:Slug;constraint:OnDelete:CASCADE" db:"-"`
}

func (Product) TableName() string { return TableProducts }

// Models returns one zero value per table, parents first, for AutoMigrate.
func Models() []any {
	return []any{
		&Collection{},
		&Category{},
		&Subcollection{},
		&Subcategory{},
		&Product{},
	}
}
