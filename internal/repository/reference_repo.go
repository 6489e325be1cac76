package repository

import (
	"context"

	"motoparts-inventory/internal/model"

	"gorm.io/gorm"
)

// ReferenceRepository is the CRUD store shared by categories, brands and motorcycles.
type ReferenceRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type referenceRepo[T any] struct {
	db    *gorm.DB
	order string
}

func NewCategoryRepo(db *gorm.DB) ReferenceRepository[model.Category] {
	return &referenceRepo[model.Category]{db: db, order: "name ASC"}
}

func NewBrandRepo(db *gorm.DB) ReferenceRepository[model.Brand] {
	return &referenceRepo[model.Brand]{db: db, order: "name ASC"}
}

func NewMotorcycleRepo(db *gorm.DB) ReferenceRepository[model.Motorcycle] {
	return &referenceRepo[model.Motorcycle]{db: db, order: "manufacturer ASC, model ASC"}
}

func (r *referenceRepo[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *referenceRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	var list []T
	err := r.db.WithContext(ctx).Order(r.order).Find(&list).Error
	return list, err
}

func (r *referenceRepo[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *referenceRepo[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *referenceRepo[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	res := r.db.WithContext(ctx).Delete(&entity, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *referenceRepo[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var entity T
	var count int64
	err := r.db.WithContext(ctx).Model(&entity).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
