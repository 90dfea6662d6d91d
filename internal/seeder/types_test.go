package seeder

import (
	"context"
	"testing"

	"github.com/Lumos-Labs-HQ/catalogseed/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFanOutTotals(t *testing.T) {
	f := DefaultFanOut()

	assert.Equal(t, 20, f.Collections)
	assert.Equal(t, 100, f.Categories())
	assert.Equal(t, 200, f.Subcollections())
	assert.Equal(t, 400, f.Subcategories())
	assert.Equal(t, 4000, f.Products())
	assert.Equal(t, 4720, f.EstimatedTotal())

	totals := f.Totals()
	sum := 0
	for _, table := range catalog.Tables {
		sum += totals[table]
	}
	assert.Equal(t, f.EstimatedTotal(), sum)
}

func TestChildrenPer(t *testing.T) {
	f := FanOut{Collections: 1, CategoriesPerCollection: 2, SubcollectionsPerCategory: 3, SubcategoriesPerSubcollection: 4, ProductsPerSubcategory: 5}
	per := f.ChildrenPer()

	assert.Equal(t, 2, per[catalog.TableCategories])
	assert.Equal(t, 3, per[catalog.TableSubcollections])
	assert.Equal(t, 4, per[catalog.TableSubcategories])
	assert.Equal(t, 5, per[catalog.TableProducts])
	assert.Equal(t, 1+2+6+24+120, f.EstimatedTotal())
}

func TestFanOutValidate(t *testing.T) {
	tests := []struct {
		name    string
		fanOut  FanOut
		wantErr error
		invalid bool
	}{
		{name: "defaults", fanOut: DefaultFanOut()},
		{name: "zero level", fanOut: FanOut{1, 1, 0, 1, 1}, invalid: true},
		{name: "at limit", fanOut: FanOut{1, 1, 1, 1, MaxRows - 4}},
		{name: "over limit", fanOut: FanOut{1, 1, 1, 1, MaxRows}, wantErr: ErrFanOutTooLarge},
		{name: "would overflow int", fanOut: FanOut{10000, 10000, 10000, 10000, 10000}, wantErr: ErrFanOutTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fanOut.Validate()
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.invalid:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestSeedRejectsOversizedFanOut(t *testing.T) {
	store := NewMemoryStore()
	fanOut := FanOut{10000, 10000, 10000, 10000, 10000}

	_, err := New(store, "memory", SeedConfig{FanOut: fanOut, Clear: true}, nil).Seed(context.Background())
	require.ErrorIs(t, err, ErrFanOutTooLarge)
	assert.Zero(t, store.Count(catalog.TableCollections))
}
