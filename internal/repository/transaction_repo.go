package repository

import (
	"context"
	"time"

	"motoparts-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the transaction side of the workflow: headers and
// their line items.
type LedgerRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	CreateItem(ctx context.Context, item *model.TransactionItem) error
	FindWithItems(ctx context.Context, id uint) (*model.Transaction, error)
	DeleteItems(ctx context.Context, transactionID uint) error
	Delete(ctx context.Context, id uint) error
}

// TransactionReader serves the read-only endpoints. Results carry
// items → product → category/brand.
type TransactionReader interface {
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
}

type TransactionRepository interface {
	LedgerRepository
	TransactionReader
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetFinancialSummary(ctx context.Context, startDate, endDate time.Time) (*FinancialSummary, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardStats struct {
	TotalProducts  int64           `json:"totalProducts"`
	LowStockCount  int64           `json:"lowStockCount"`
	TotalValuation decimal.Decimal `json:"totalValuation"` // Σ current_stock × buy_price
}

type FinancialSummary struct {
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Returns   decimal.Decimal `json:"returns"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
}

func (r *transactionRepo) CreateItem(ctx context.Context, item *model.TransactionItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *transactionRepo) FindWithItems(ctx context.Context, id uint) (*model.Transaction, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("transaction_items.id ASC") }).
		First(&tx, id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepo) DeleteItems(ctx context.Context, transactionID uint) error {
	return r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Delete(&model.TransactionItem{}).Error
}

func (r *transactionRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *transactionRepo) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("transaction_items.id ASC") }).
		Preload("Items.Product.Category").
		Preload("Items.Product.Brand")
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.withItems(ctx).Order("date DESC, id DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.withItems(ctx).First(&transaction, id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByDateRange returns transactions with start <= date < end.
func (r *transactionRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.withItems(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Purchases and returns bring goods in, sales take them out
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select(`
			TO_CHAR(t.date, 'YYYY-MM-DD') AS date,
			COALESCE(SUM(CASE WHEN t.type IN (?, ?) THEN i.quantity ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN t.type = ? THEN i.quantity ELSE 0 END), 0) AS outbound
		`, model.TxPurchase, model.TxReturn, model.TxSale).
		Joins("JOIN transaction_items AS i ON i.transaction_id = t.id").
		Where("t.date BETWEEN ? AND ?", startDate, endDate).
		Group("TO_CHAR(t.date, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *transactionRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("current_stock <= min_threshold").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	var valuation struct{ Total decimal.Decimal }
	if err := db.Model(&model.Product{}).Select("COALESCE(SUM(current_stock * buy_price), 0) AS total").Scan(&valuation).Error; err != nil {
		return nil, err
	}
	stats.TotalValuation = valuation.Total
	return &stats, nil
}

func (r *transactionRepo) GetFinancialSummary(ctx context.Context, startDate, endDate time.Time) (*FinancialSummary, error) {
	var rows []struct {
		Type  model.TransactionType
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("type, COALESCE(SUM(total_amount), 0) AS total").
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &FinancialSummary{Sales: decimal.Zero, Purchases: decimal.Zero, Returns: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case model.TxSale:
			summary.Sales = row.Total
		case model.TxPurchase:
			summary.Purchases = row.Total
		case model.TxReturn:
			summary.Returns = row.Total
		}
	}
	return summary, nil
}
