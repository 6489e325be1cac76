package service

import (
	"context"
	"time"

	"motoparts-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

const maxMovementDays = 366

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	GetFinancialStats(ctx context.Context, rangeKey string) (*FinancialStats, error)
}

// FinancialStats totals each transaction type over a reporting window.
type FinancialStats struct {
	Range     string          `json:"range"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Returns   decimal.Decimal `json:"returns"`
	NetSales  decimal.Decimal `json:"netSales"` // sales minus returns
}

// financialRanges maps the accepted range keys to how far back they reach.
var financialRanges = map[string]struct{ months, days int }{
	"7d":  {days: 7},
	"1m":  {months: 1},
	"3m":  {months: 3},
	"6m":  {months: 6},
	"12m": {months: 12},
}

type dashboardService struct {
	txRepo repository.TransactionRepository
	now    func() time.Time
}

func NewDashboardService(txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{txRepo: txRepo, now: time.Now}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 || days > maxMovementDays {
		return nil, fieldError("days", "range")
	}
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.txRepo.GetDashboardStats(ctx)
}

func (s *dashboardService) GetFinancialStats(ctx context.Context, rangeKey string) (*FinancialStats, error) {
	if rangeKey == "" {
		rangeKey = "1m"
	}
	window, ok := financialRanges[rangeKey]
	if !ok {
		return nil, fieldError("range", "oneof")
	}

	endDate := s.now()
	startDate := endDate.AddDate(0, -window.months, -window.days)

	summary, err := s.txRepo.GetFinancialSummary(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &FinancialStats{
		Range:     rangeKey,
		StartDate: startDate,
		EndDate:   endDate,
		Sales:     summary.Sales,
		Purchases: summary.Purchases,
		Returns:   summary.Returns,
		NetSales:  summary.Sales.Sub(summary.Returns),
	}, nil
}
