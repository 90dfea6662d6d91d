package seeder

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
)

// FanOut is how many children each parent row gets at every catalog level.
type FanOut struct {
	Collections                   int `yaml:"collections"`
	CategoriesPerCollection       int `yaml:"categories_per_collection"`
	SubcollectionsPerCategory     int `yaml:"subcollections_per_category"`
	SubcategoriesPerSubcollection int `yaml:"subcategories_per_subcollection"`
	ProductsPerSubcategory        int `yaml:"products_per_subcategory"`
}

func DefaultFanOut() FanOut {
	return FanOut{
		Collections:                   20,
		CategoriesPerCollection:       5,
		SubcollectionsPerCategory:     2,
		SubcategoriesPerSubcollection: 2,
		ProductsPerSubcategory:        10,
	}
}

// MaxRows caps the rows one run may produce.
const MaxRows = 100_000_000

var ErrFanOutTooLarge = errors.New("fan-out produces too many rows")

func (f FanOut) levels() []int {
	return []int{
		f.Collections,
		f.CategoriesPerCollection,
		f.SubcollectionsPerCategory,
		f.SubcategoriesPerSubcollection,
		f.ProductsPerSubcategory,
	}
}

// Validate rejects fan-outs below one per level and those whose total would
// exceed MaxRows, checking before any multiplication can overflow.
func (f FanOut) Validate() error {
	rows, total := 1, 0
	for _, n := range f.levels() {
		if n < 1 {
			return fmt.Errorf("invalid fan-out %+v: every level needs at least 1 row", f)
		}
		if rows > MaxRows/n {
			return fmt.Errorf("%w: more than %d", ErrFanOutTooLarge, MaxRows)
		}
		rows *= n
		total += rows
		if total > MaxRows {
			return fmt.Errorf("%w: %d, limit %d", ErrFanOutTooLarge, total, MaxRows)
		}
	}
	return nil
}

func (f FanOut) Categories() int {
	return f.Collections * f.CategoriesPerCollection
}

func (f FanOut) Subcollections() int {
	return f.Categories() * f.SubcollectionsPerCategory
}

func (f FanOut) Subcategories() int {
	return f.Subcollections() * f.SubcategoriesPerSubcollection
}

func (f FanOut) Products() int {
	return f.Subcategories() * f.ProductsPerSubcategory
}

// Totals is the expected row count per table.
func (f FanOut) Totals() map[string]int {
	return map[string]int{
		catalog.TableCollections:    f.Collections,
		catalog.TableCategories:     f.Categories(),
		catalog.TableSubcollections: f.Subcollections(),
		catalog.TableSubcategories:  f.Subcategories(),
		catalog.TableProducts:       f.Products(),
	}
}

func (f FanOut) EstimatedTotal() int {
	return f.Collections + f.Categories() + f.Subcollections() + f.Subcategories() + f.Products()
}

// ChildrenPer returns the configured fan-out below table, keyed by child table.
func (f FanOut) ChildrenPer() map[string]int {
	return map[string]int{
		catalog.TableCategories:     f.CategoriesPerCollection,
		catalog.TableSubcollections: f.SubcollectionsPerCategory,
		catalog.TableSubcategories:  f.SubcategoriesPerSubcollection,
		catalog.TableProducts:       f.ProductsPerSubcategory,
	}
}

type SeedConfig struct {
	FanOut        FanOut
	Clear         bool  // Empty the catalog tables first
	NoTransaction bool  // Disable transaction wrapping
	DryRun        bool  // Generate rows without touching the database
	RandSeed      int64 // 0 picks a time-based seed
}

type Counts struct {
	Collections    int `yaml:"collections"`
	Categories     int `yaml:"categories"`
	Subcollections int `yaml:"subcollections"`
	Subcategories  int `yaml:"subcategories"`
	Products       int `yaml:"products"`
}

func (c Counts) Total() int {
	return c.Collections + c.Categories + c.Subcollections + c.Subcategories + c.Products
}

type Summary struct {
	RunID          string        `yaml:"run_id"`
	Provider       string        `yaml:"provider"`
	DryRun         bool          `yaml:"dry_run"`
	RandSeed       int64         `yaml:"rand_seed"`
	FanOut         FanOut        `yaml:"fan_out"`
	Counts         Counts        `yaml:"counts"`
	EstimatedTotal int           `yaml:"estimated_total"`
	StartedAt      time.Time     `yaml:"started_at"`
	Duration       time.Duration `yaml:"duration"`
}
