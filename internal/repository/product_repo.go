package repository

import (
	"context"

	"motoparts-inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the product side of the transaction workflow.
type StockRepository interface {
	// FindByIDForUpdate loads a product and row-locks it until the enclosing
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error)
	UpdateStock(ctx context.Context, id uint, newStock int, updatedBy string) error
}

// ProductFilter narrows FindAll. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID   uint
	BrandID      uint
	MotorcycleID uint
	LowStockOnly bool
}

type ProductRepository interface {
	StockRepository
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Brand").Preload("Motorcycle")
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := r.withAssociations(ctx)
	if filter.CategoryID != 0 {
		q = q.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.BrandID != 0 {
		q = q.Where("products.brand_id = ?", filter.BrandID)
	}
	if filter.MotorcycleID != 0 {
		// direct fitment or an explicit compatibility entry
		q = q.Where("products.motorcycle_id = ? OR products.id IN (?)", filter.MotorcycleID,
			r.db.Model(&model.ProductMotorcycleCompatibility{}).Select("product_id").Where("motorcycle_id = ?", filter.MotorcycleID))
	}
	if filter.LowStockOnly {
		q = q.Where("products.current_stock <= products.min_threshold")
	}

	var products []model.Product
	err := q.Order("products.id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.withAssociations(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// UpdateStock runs on whatever handle the repo was built with, so inside a
// unit of work it joins that transaction.
func (r *productRepo) UpdateStock(ctx context.Context, id uint, newStock int, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"updated_by":    updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
