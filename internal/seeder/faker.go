package seeder

import (
	"fmt"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type ImageKind int

const (
	ImageProduct ImageKind = iota
	ImageCategory
	ImageSubcategory
)

const (
	imageWidth  = 400
	imageHeight = 400

	nanoidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

	// Prices are drawn in cents so the two fraction digits are exact.
	minPriceCents = 1000
	maxPriceCents = 50000
)

// faker/v4 draws from a package-level source; descriptionMu guards swapping in
// the generator's own source for the duration of one call.
var descriptionMu sync.Mutex

// DataGenerator produces the names, slugs, prices, descriptions and image URLs
// for catalog rows. Every random choice is derived from one seed so a fixed
// seed reproduces the same catalog.
type DataGenerator struct {
	fake        *gofakeit.Faker
	descriptive mathrand.Source
}

func NewDataGenerator(seed int64) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DataGenerator{
		fake:        gofakeit.New(uint64(seed)),
		descriptive: mathrand.NewSource(seed),
	}
}

func (g *DataGenerator) intn(n int) int {
	return g.fake.Number(0, n-1)
}

func (g *DataGenerator) Department() string {
	return g.fake.ProductCategory()
}

func (g *DataGenerator) ProductAdjective() string {
	return g.fake.AdjectiveDescriptive()
}

func (g *DataGenerator) ProductMaterial() string {
	return g.fake.ProductMaterial()
}

func (g *DataGenerator) ProductTitle() string {
	return g.fake.ProductName()
}

// NanoID returns size characters from the URL-safe nanoid alphabet.
func (g *DataGenerator) NanoID(size int) string {
	var b strings.Builder
	b.Grow(size)
	for i := 0; i < size; i++ {
		b.WriteByte(nanoidAlphabet[g.intn(len(nanoidAlphabet))])
	}
	return b.String()
}

func (g *DataGenerator) CollectionName() string {
	return g.Department() + " " + g.NanoID(4)
}

func (g *DataGenerator) CategoryName() string {
	return g.ProductAdjective() + " " + g.ProductMaterial() + " " + g.NanoID(4)
}

func (g *DataGenerator) SubcollectionName() string {
	return g.ProductTitle() + " " + g.NanoID(4)
}

func (g *DataGenerator) SubcategoryName() string {
	return g.ProductMaterial() + " " + g.ProductAdjective() + " " + g.NanoID(4)
}

func (g *DataGenerator) ProductName() string {
	return g.ProductTitle() + " " + g.NanoID(6)
}

func (g *DataGenerator) Slug(name string) string {
	return slug.Make(strings.ToLower(name))
}

func (g *DataGenerator) Description() string {
	descriptionMu.Lock()
	defer descriptionMu.Unlock()

	faker.SetRandomSource(g.descriptive)
	return faker.Paragraph()
}

// Price returns a value in [10.00, 500.00] with two fraction digits.
func (g *DataGenerator) Price() decimal.Decimal {
	cents := g.fake.Number(minPriceCents, maxPriceCents)
	return decimal.New(int64(cents), -2)
}

func (g *DataGenerator) hexColor() string {
	return fmt.Sprintf("%06x", g.fake.Number(0, 0xffffff))
}

func (g *DataGenerator) ImageURL(kind ImageKind) string {
	base := fmt.Sprintf("https://placehold.co/%dx%d", imageWidth, imageHeight)
	colored := fmt.Sprintf("%s/%s/%s", base, g.hexColor(), g.hexColor())

	var pool []string
	if kind == ImageProduct {
		pool = []string{
			base + "/png?text=Product",
			base + "/jpeg?text=Product+Image",
			colored,
		}
	} else {
		pool = []string{
			base + "/png?text=Category",
			base + "/png?text=Department",
			colored,
		}
	}
	return pool[g.intn(len(pool))]
}
