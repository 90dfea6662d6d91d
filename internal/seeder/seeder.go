package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stepFunc func(ctx context.Context, store catalog.Store, st *runState) (int, error)

// runState carries the rows inserted by earlier steps so children can
// reference them.
type runState struct {
	collections    []catalog.Collection
	categories     []catalog.Category
	subcollections []catalog.Subcollection
	subcategories  []catalog.Subcategory
	products       []catalog.Product
}

func (st *runState) counts() Counts {
	return Counts{
		Collections:    len(st.collections),
		Categories:     len(st.categories),
		Subcollections: len(st.subcollections),
		Subcategories:  len(st.subcategories),
		Products:       len(st.products),
	}
}

type Seeder struct {
	store     catalog.Store
	provider  string
	config    SeedConfig
	randSeed  int64
	generator *DataGenerator
	graph     *DependencyGraph
	logger    *zap.Logger
}

func New(store catalog.Store, provider string, cfg SeedConfig, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}

	randSeed := cfg.RandSeed
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}

	return &Seeder{
		store:     store,
		provider:  provider,
		config:    cfg,
		randSeed:  randSeed,
		generator: NewDataGenerator(randSeed),
		graph:     CatalogGraph(),
		logger:    logger,
	}
}

func (s *Seeder) steps() map[string]stepFunc {
	return map[string]stepFunc{
		catalog.TableCollections:    s.seedCollections,
		catalog.TableCategories:     s.seedCategories,
		catalog.TableSubcollections: s.seedSubcollections,
		catalog.TableSubcategories:  s.seedSubcategories,
		catalog.TableProducts:       s.seedProducts,
	}
}

func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	fanOut := s.config.FanOut
	if err := fanOut.Validate(); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:          uuid.NewString(),
		Provider:       s.provider,
		DryRun:         s.config.DryRun,
		RandSeed:       s.randSeed,
		FanOut:         fanOut,
		EstimatedTotal: fanOut.EstimatedTotal(),
		StartedAt:      time.Now(),
	}
	log := s.logger.With(zap.String("run_id", summary.RunID))

	color.Cyan("🌱 Seeding started...")
	if s.config.DryRun {
		color.Yellow("🧪 Dry run: rows are generated but nothing is written")
	}

	order, err := s.graph.BuildInsertionOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to build insertion order: %w", err)
	}
	clearOrder, err := s.graph.ClearOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to build clear order: %w", err)
	}

	steps := s.steps()
	for _, table := range order {
		if _, ok := steps[table]; !ok {
			return nil, fmt.Errorf("no seeding step for table %s", table)
		}
	}

	color.Cyan("📋 Insertion order: %s", strings.Join(order, " → "))
	color.Cyan("📊 Estimated total entries: %d", summary.EstimatedTotal)
	log.Info("seeding started",
		zap.String("provider", s.provider),
		zap.Int64("rand_seed", s.randSeed),
		zap.Int("estimated_total", summary.EstimatedTotal),
		zap.Bool("dry_run", s.config.DryRun),
	)

	var counts Counts
	run := func(store catalog.Store) error {
		st := &runState{}

		if s.config.Clear {
			color.Yellow("🗑️  Clearing existing data...")
			if err := store.Clear(ctx, clearOrder); err != nil {
				return err
			}
			color.Green("✅ Existing data cleared")
			log.Debug("tables cleared", zap.Strings("tables", clearOrder))
		}

		for _, table := range order {
			started := time.Now()
			n, err := steps[table](ctx, store, st)
			if err != nil {
				return fmt.Errorf("failed to seed table %s: %w", table, err)
			}
			color.Green("  ✅ %d %s added", n, table)
			log.Debug("table seeded",
				zap.String("table", table),
				zap.Int("rows", n),
				zap.Duration("elapsed", time.Since(started)),
			)
		}

		counts = st.counts()
		return nil
	}

	if s.config.NoTransaction {
		err = run(s.store)
	} else {
		color.Cyan("🔒 Transaction started")
		err = s.store.Transaction(ctx, run)
		if err != nil {
			color.Yellow("🔄 Transaction rolled back")
		} else {
			color.Cyan("🔓 Transaction committed")
		}
	}
	if err != nil {
		log.Error("seeding failed", zap.Error(err))
		return nil, err
	}

	summary.Counts = counts
	summary.Duration = time.Since(summary.StartedAt)
	log.Info("seeding completed",
		zap.Int("total", counts.Total()),
		zap.Duration("duration", summary.Duration),
	)

	PrintSummary(summary)
	return summary, nil
}

func (s *Seeder) seedCollections(ctx context.Context, store catalog.Store, st *runState) (int, error) {
	slugs := NewSlugSet(catalog.TableCollections)
	rows := make([]catalog.Collection, 0, s.config.FanOut.Collections)

	for i := 0; i < s.config.FanOut.Collections; i++ {
		name, slug, err := slugs.Unique(s.generator.CollectionName, s.generator.Slug)
		if err != nil {
			return 0, err
		}
		rows = append(rows, catalog.Collection{Name: name, Slug: slug})
	}

	if err := store.InsertCollections(ctx, rows); err != nil {
		return 0, err
	}
	st.collections = rows
	return len(rows), nil
}

func (s *Seeder) seedCategories(ctx context.Context, store catalog.Store, st *runState) (int, error) {
	slugs := NewSlugSet(catalog.TableCategories)
	perParent := s.config.FanOut.CategoriesPerCollection
	rows := make([]catalog.Category, 0, len(st.collections)*perParent)

	for _, collection := range st.collections {
		for i := 0; i < perParent; i++ {
			name, slug, err := slugs.Unique(s.generator.CategoryName, s.generator.Slug)
			if err != nil {
				return 0, err
			}
			rows = append(rows, catalog.Category{
				Slug:         slug,
				Name:         name,
				CollectionID: collection.ID,
				ImageURL:     s.generator.ImageURL(ImageCategory),
			})
		}
	}

	if err := store.InsertCategories(ctx, rows); err != nil {
		return 0, err
	}
	st.categories = rows
	return len(rows), nil
}

// Subcollections carry no slug, so their names are not deduplicated.
func (s *Seeder) seedSubcollections(ctx context.Context, store catalog.Store, st *runState) (int, error) {
	perParent := s.config.FanOut.SubcollectionsPerCategory
	rows := make([]catalog.Subcollection, 0, len(st.categories)*perParent)

	for _, category := range st.categories {
		for i := 0; i < perParent; i++ {
			rows = append(rows, catalog.Subcollection{
				Name:         s.generator.SubcollectionName(),
				CategorySlug: category.Slug,
			})
		}
	}

	if err := store.InsertSubcollections(ctx, rows); err != nil {
		return 0, err
	}
	st.subcollections = rows
	return len(rows), nil
}

func (s *Seeder) seedSubcategories(ctx context.Context, store catalog.Store, st *runState) (int, error) {
	slugs := NewSlugSet(catalog.TableSubcategories)
	perParent := s.config.FanOut.SubcategoriesPerSubcollection
	rows := make([]catalog.Subcategory, 0, len(st.subcollections)*perParent)

	for _, subcollection := range st.subcollections {
		for i := 0; i < perParent; i++ {
			name, slug, err := slugs.Unique(s.generator.SubcategoryName, s.generator.Slug)
			if err != nil {
				return 0, err
			}
			rows = append(rows, catalog.Subcategory{
				Slug:            slug,
				Name:            name,
				SubcollectionID: subcollection.ID,
				ImageURL:        s.generator.ImageURL(ImageSubcategory),
			})
		}
	}

	if err := store.InsertSubcategories(ctx, rows); err != nil {
		return 0, err
	}
	st.subcategories = rows
	return len(rows), nil
}

func (s *Seeder) seedProducts(ctx context.Context, store catalog.Store, st *runState) (int, error) {
	slugs := NewSlugSet(catalog.TableProducts)
	perParent := s.config.FanOut.ProductsPerSubcategory
	rows := make([]catalog.Product, 0, len(st.subcategories)*perParent)

	for _, subcategory := range st.subcategories {
		for i := 0; i < perParent; i++ {
			name, slug, err := slugs.Unique(s.generator.ProductName, s.generator.Slug)
			if err != nil {
				return 0, err
			}
			rows = append(rows, catalog.Product{
				Slug:            slug,
				Name:            name,
				Description:     s.generator.Description(),
				Price:           s.generator.Price(),
				SubcategorySlug: subcategory.Slug,
				ImageURL:        s.generator.ImageURL(ImageProduct),
			})
		}
	}

	if err := store.InsertProducts(ctx, rows); err != nil {
		return 0, err
	}
	st.products = rows
	return len(rows), nil
}

func PrintSummary(summary *Summary) {
	header := color.New(color.FgCyan, color.Bold)

	fmt.Println()
	header.Println("📦 Seeding Summary:")
	fmt.Println("----------------")
	fmt.Printf("Collections:    %d\n", summary.Counts.Collections)
	fmt.Printf("Categories:     %d\n", summary.Counts.Categories)
	fmt.Printf("Subcollections: %d\n", summary.Counts.Subcollections)
	fmt.Printf("Subcategories:  %d\n", summary.Counts.Subcategories)
	fmt.Printf("Products:       %d\n", summary.Counts.Products)
	fmt.Printf("Total Entries:  %d (estimated %d)\n", summary.Counts.Total(), summary.EstimatedTotal)
	fmt.Printf("Duration:       %s\n", summary.Duration.Round(time.Millisecond))
	color.Green("\n✅ Seeding completed successfully!")
}
