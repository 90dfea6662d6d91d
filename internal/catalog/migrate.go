package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates the catalog tables, or adds whatever columns and
// constraints an existing schema is missing.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}
