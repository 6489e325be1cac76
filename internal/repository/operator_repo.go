package repository

import (
	"context"

	"motoparts-inventory/internal/model"

	"gorm.io/gorm"
)

type OperatorRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Operator, error)
	FindByID(ctx context.Context, id uint) (*model.Operator, error)
	Create(ctx context.Context, operator *model.Operator) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword, updatedBy string) error
	StartSession(ctx context.Context, id uint, tokenVersion string) error
}

type operatorRepo struct {
	db *gorm.DB
}

func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db}
}

func (r *operatorRepo) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&operator).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) FindByID(ctx context.Context, id uint) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.WithContext(ctx).First(&operator, id).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) Create(ctx context.Context, operator *model.Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}

// UpdatePassword also rotates the token version, ending any open session.
func (r *operatorRepo) UpdatePassword(ctx context.Context, id uint, hashedPassword, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Operator{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":      hashedPassword,
		"token_version": "",
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

func (r *operatorRepo) StartSession(ctx context.Context, id uint, tokenVersion string) error {
	return r.db.WithContext(ctx).Model(&model.Operator{}).Where("id = ?", id).Updates(map[string]interface{}{
		"token_version": tokenVersion,
		"last_login_at": gorm.Expr("NOW()"),
	}).Error
}
