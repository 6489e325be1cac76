//go:build integration
// +build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/internal/ws"
	"motoparts-inventory/pkg/database"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ws.Event) {}

type PostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *gorm.DB

	txRepo   repository.TransactionRepository
	products repository.ProductRepository
	txs      service.TransactionService
	category model.Category
	brand    model.Brand
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("motoparts"),
		postgres.WithUsername("motoparts"),
		postgres.WithPassword("motoparts"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = database.Connect(dsn, database.Options{MaxIdleConns: 2, MaxOpenConns: 20, ConnMaxLifetime: time.Minute}, zerolog.Nop())
	s.Require().NoError(err)
	s.Require().NoError(repository.Migrate(s.ctx, s.db))

	s.txRepo = repository.NewTransactionRepo(s.db)
	s.products = repository.NewProductRepo(s.db)
	s.txs = service.NewTransactionService(repository.NewUnitOfWork(s.db), s.txRepo, nopPublisher{}, zerolog.Nop())
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.container != nil {
		if err := s.container.Terminate(s.ctx); err != nil {
			s.T().Logf("terminate container: %v", err)
		}
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(`TRUNCATE transaction_items, transactions, product_motorcycle_compatibility,
		products, motorcycles, brands, categories RESTART IDENTITY CASCADE`).Error)

	s.category = model.Category{Name: "Brake pads"}
	s.Require().NoError(repository.NewCategoryRepo(s.db).Create(s.ctx, &s.category))
	s.brand = model.Brand{Name: "Nissin"}
	s.Require().NoError(repository.NewBrandRepo(s.db).Create(s.ctx, &s.brand))
}

func (s *PostgresSuite) newProduct(stock int) uint {
	p := &model.Product{
		CategoryID:   s.category.ID,
		BrandID:      s.brand.ID,
		BuyPrice:     decimal.NewFromInt(30000),
		SellPrice:    decimal.NewFromInt(50000),
		CurrentStock: stock,
	}
	s.Require().NoError(s.products.Create(s.ctx, p))
	return p.ID
}

func (s *PostgresSuite) stock(id uint) int {
	p, err := s.products.FindByID(s.ctx, id)
	s.Require().NoError(err)
	return p.CurrentStock
}

func (s *PostgresSuite) count(table string) int64 {
	var n int64
	s.Require().NoError(s.db.Table(table).Count(&n).Error)
	return n
}

func sale(items ...service.TransactionItemRequest) *service.CreateTransactionRequest {
	return &service.CreateTransactionRequest{Type: model.TxSale, PaymentMethod: "cash", Items: items}
}

func item(productID uint, qty int, price int64) service.TransactionItemRequest {
	return service.TransactionItemRequest{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func (s *PostgresSuite) TestCreateAndDeleteRoundTrip() {
	id := s.newProduct(10)

	tx, err := s.txs.Create(s.ctx, sale(item(id, 3, 50000)), service.System)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(150000).Equal(tx.TotalAmount))
	s.Require().Len(tx.Items, 1)
	s.Require().NotNil(tx.Items[0].Product)
	s.Equal("Brake pads", tx.Items[0].Product.Category.Name)
	s.Equal(7, s.stock(id))

	s.Require().NoError(s.txs.Delete(s.ctx, tx.ID, service.System))
	s.Equal(10, s.stock(id))
	s.Zero(s.count("transactions"))
	s.Zero(s.count("transaction_items"))
}

func (s *PostgresSuite) TestMissingProductRollsBackHeaderAndEarlierItems() {
	id := s.newProduct(10)

	_, err := s.txs.Create(s.ctx, sale(item(id, 2, 100), item(999, 1, 100)), service.System)

	s.ErrorIs(err, service.ErrTransactionAborted)
	s.ErrorIs(err, service.ErrProductNotFound)
	s.Zero(s.count("transactions"))
	s.Zero(s.count("transaction_items"))
	s.Equal(10, s.stock(id))
}

func (s *PostgresSuite) TestDeleteMissingTransaction() {
	s.ErrorIs(s.txs.Delete(s.ctx, 99999, service.System), service.ErrTransactionNotFound)
	s.ErrorIs(s.txs.Delete(s.ctx, 99999, service.System), service.ErrTransactionNotFound)
}

func (s *PostgresSuite) TestConcurrentSalesDoNotLoseUpdates() {
	id := s.newProduct(10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.txs.Create(s.ctx, sale(item(id, 1, 100)), service.System)
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal(2, s.stock(id))
	s.EqualValues(8, s.count("transactions"))
}

func (s *PostgresSuite) TestDateRangeAndReports() {
	id := s.newProduct(5)
	_, err := s.txs.Create(s.ctx, &service.CreateTransactionRequest{
		Type: model.TxPurchase, PaymentMethod: "transfer", Items: []service.TransactionItemRequest{item(id, 20, 10000)},
	}, service.System)
	s.Require().NoError(err)
	s.Equal(25, s.stock(id))

	now := time.Now()
	list, err := s.txRepo.FindByDateRange(s.ctx, now.Add(-time.Hour), now.Add(time.Hour))
	s.Require().NoError(err)
	s.Len(list, 1)

	movement, err := s.txRepo.GetStockMovement(s.ctx, now.AddDate(0, 0, -1), now.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().Len(movement, 1)
	s.Equal(20, movement[0].Inbound)

	stats, err := s.txRepo.GetDashboardStats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, stats.TotalProducts)
	s.True(decimal.NewFromInt(750000).Equal(stats.TotalValuation), "valuation %s", stats.TotalValuation)

	summary, err := s.txRepo.GetFinancialSummary(s.ctx, now.AddDate(0, 0, -7), now.Add(time.Hour))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(200000).Equal(summary.Purchases))
	s.True(summary.Sales.IsZero())
}

func (s *PostgresSuite) TestCompatibilityAndRestrictedDelete() {
	id := s.newProduct(1)
	motorcycles := repository.NewMotorcycleRepo(s.db)
	bike := model.Motorcycle{Manufacturer: "Honda", Model: "Beat"}
	s.Require().NoError(motorcycles.Create(s.ctx, &bike))

	compat := repository.NewCompatibilityRepo(s.db)
	s.Require().NoError(compat.Add(s.ctx, id, bike.ID, "test"))
	s.Require().NoError(compat.Add(s.ctx, id, bike.ID, "test"))
	s.EqualValues(1, s.count("product_motorcycle_compatibility"))

	filtered, err := s.products.FindAll(s.ctx, repository.ProductFilter{MotorcycleID: bike.ID})
	s.Require().NoError(err)
	s.Len(filtered, 1)

	categories := service.NewCategoryService(repository.NewCategoryRepo(s.db), nopPublisher{}, zerolog.Nop())
	s.ErrorIs(categories.Delete(s.ctx, s.category.ID, service.System), service.ErrConflict)

	_, err = categories.Create(s.ctx, &model.Category{Name: "Brake pads"}, service.System)
	s.ErrorIs(err, service.ErrConflict)
}

func (s *PostgresSuite) TestPriceEditKeepsStockWrittenBySale() {
	id := s.newProduct(10)
	_, err := s.txs.Create(s.ctx, sale(item(id, 4, 50000)), service.System)
	s.Require().NoError(err)

	products := service.NewProductService(s.products, repository.NewUnitOfWork(s.db),
		repository.NewCategoryRepo(s.db), repository.NewBrandRepo(s.db), repository.NewMotorcycleRepo(s.db),
		repository.NewCompatibilityRepo(s.db), nopPublisher{}, zerolog.Nop())

	updated, err := products.UpdateProduct(s.ctx, id, &service.ProductRequest{
		CategoryID: s.category.ID,
		BrandID:    s.brand.ID,
		BuyPrice:   decimal.NewFromInt(30000),
		SellPrice:  decimal.NewFromInt(55000),
	}, service.System)
	s.Require().NoError(err)

	s.Equal(6, updated.CurrentStock)
	s.True(decimal.NewFromInt(55000).Equal(updated.SellPrice))
}
