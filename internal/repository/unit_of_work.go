package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories exposes the write-side repositories bound to one unit of work.
// Everything obtained from it shares the same database transaction.
type Repositories interface {
	Stock() StockRepository
	Products() ProductRepository
	Ledger() LedgerRepository
}

// UnitOfWork runs fn atomically: it commits when fn returns nil and rolls
// back every write made through repos otherwise.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) Stock() StockRepository {
	return &productRepo{db: r.tx}
}

func (r *txRepositories) Products() ProductRepository {
	return &productRepo{db: r.tx}
}

func (r *txRepositories) Ledger() LedgerRepository {
	return &transactionRepo{db: r.tx}
}

var (
	_ UnitOfWork   = (*gormUnitOfWork)(nil)
	_ Repositories = (*txRepositories)(nil)
)
