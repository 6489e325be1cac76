package repository

import (
	"context"

	"motoparts-inventory/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table. Safe to run repeatedly.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(model.All()...)
}
