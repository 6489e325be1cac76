package repository

import (
	"context"

	"motoparts-inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompatibilityRepository maintains the product ↔ motorcycle fitment table.
type CompatibilityRepository interface {
	Add(ctx context.Context, productID, motorcycleID uint, actor string) error
	Remove(ctx context.Context, productID, motorcycleID uint) error
	Replace(ctx context.Context, productID uint, motorcycleIDs []uint, actor string) error
	MotorcyclesForProduct(ctx context.Context, productID uint) ([]model.Motorcycle, error)
	ProductsForMotorcycle(ctx context.Context, motorcycleID uint) ([]model.Product, error)
}

type compatibilityRepo struct {
	db *gorm.DB
}

func NewCompatibilityRepo(db *gorm.DB) CompatibilityRepository {
	return &compatibilityRepo{db}
}

// Add is idempotent: an existing pair is left untouched.
func (r *compatibilityRepo) Add(ctx context.Context, productID, motorcycleID uint, actor string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "motorcycle_id"}},
		DoNothing: true,
	}).Create(&model.ProductMotorcycleCompatibility{
		ProductID:    productID,
		MotorcycleID: motorcycleID,
		CreatedBy:    actor,
	}).Error
}

func (r *compatibilityRepo) Remove(ctx context.Context, productID, motorcycleID uint) error {
	res := r.db.WithContext(ctx).
		Where("product_id = ? AND motorcycle_id = ?", productID, motorcycleID).
		Delete(&model.ProductMotorcycleCompatibility{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *compatibilityRepo) Replace(ctx context.Context, productID uint, motorcycleIDs []uint, actor string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductMotorcycleCompatibility{}).Error; err != nil {
			return err
		}
		if len(motorcycleIDs) == 0 {
			return nil
		}

		rows := make([]model.ProductMotorcycleCompatibility, 0, len(motorcycleIDs))
		for _, id := range motorcycleIDs {
			rows = append(rows, model.ProductMotorcycleCompatibility{ProductID: productID, MotorcycleID: id, CreatedBy: actor})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

func (r *compatibilityRepo) MotorcyclesForProduct(ctx context.Context, productID uint) ([]model.Motorcycle, error) {
	var motorcycles []model.Motorcycle
	err := r.db.WithContext(ctx).
		Joins("JOIN product_motorcycle_compatibility AS c ON c.motorcycle_id = motorcycles.id").
		Where("c.product_id = ?", productID).
		Order("motorcycles.manufacturer ASC, motorcycles.model ASC").
		Find(&motorcycles).Error
	return motorcycles, err
}

func (r *compatibilityRepo) ProductsForMotorcycle(ctx context.Context, motorcycleID uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Brand").
		Joins("JOIN product_motorcycle_compatibility AS c ON c.product_id = products.id").
		Where("c.motorcycle_id = ?", motorcycleID).
		Order("products.id ASC").
		Find(&products).Error
	return products, err
}
