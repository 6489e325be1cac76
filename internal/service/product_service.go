package service

import (
	"context"
	"fmt"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/ws"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *ProductRequest, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint, actor Actor) error
	GetAllProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetLowStock(ctx context.Context) ([]model.Product, error)

	GetCompatibleMotorcycles(ctx context.Context, productID uint) ([]model.Motorcycle, error)
	SetCompatibleMotorcycles(ctx context.Context, productID uint, motorcycleIDs []uint, actor Actor) ([]model.Motorcycle, error)
	AddCompatibleMotorcycle(ctx context.Context, productID, motorcycleID uint, actor Actor) error
	RemoveCompatibleMotorcycle(ctx context.Context, productID, motorcycleID uint) error
	GetProductsForMotorcycle(ctx context.Context, motorcycleID uint) ([]model.Product, error)
}

type ProductRequest struct {
	CategoryID   uint            `json:"categoryId" validate:"required"`
	BrandID      uint            `json:"brandId" validate:"required"`
	MotorcycleID *uint           `json:"motorcycleId" validate:"omitempty,gt=0"`
	Size         string          `json:"size" validate:"max=50"`
	BuyPrice     decimal.Decimal `json:"buyPrice" validate:"gte=0"`
	SellPrice    decimal.Decimal `json:"sellPrice" validate:"gte=0"`
	Note         string          `json:"note"`
	CurrentStock *int            `json:"currentStock" validate:"omitempty,gte=0"`
	MinThreshold int             `json:"minThreshold" validate:"gte=0"`
}

type productService struct {
	productRepo       repository.ProductRepository
	uow               repository.UnitOfWork
	categoryRepo      repository.ReferenceRepository[model.Category]
	brandRepo         repository.ReferenceRepository[model.Brand]
	motorcycleRepo    repository.ReferenceRepository[model.Motorcycle]
	compatibilityRepo repository.CompatibilityRepository
	events            ws.Publisher
	log               zerolog.Logger
}

func NewProductService(
	pRepo repository.ProductRepository,
	uow repository.UnitOfWork,
	cRepo repository.ReferenceRepository[model.Category],
	bRepo repository.ReferenceRepository[model.Brand],
	mRepo repository.ReferenceRepository[model.Motorcycle],
	compat repository.CompatibilityRepository,
	events ws.Publisher,
	log zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:       pRepo,
		uow:               uow,
		categoryRepo:      cRepo,
		brandRepo:         bRepo,
		motorcycleRepo:    mRepo,
		compatibilityRepo: compat,
		events:            events,
		log:               log.With().Str("component", "products").Logger(),
	}
}

type referenceCheck struct {
	field  string
	id     uint
	exists func(context.Context, uint) (bool, error)
}

// checkReferences makes sure category, brand and the optional motorcycle exist.
func (s *productService) checkReferences(ctx context.Context, req *ProductRequest) error {
	checks := []referenceCheck{
		{"categoryId", req.CategoryID, s.categoryRepo.Exists},
		{"brandId", req.BrandID, s.brandRepo.Exists},
	}
	if req.MotorcycleID != nil {
		checks = append(checks, referenceCheck{"motorcycleId", *req.MotorcycleID, s.motorcycleRepo.Exists})
	}

	for _, c := range checks {
		ok, err := c.exists(ctx, c.id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %d", ErrInvalidReference, c.field, c.id)
		}
	}
	return nil
}

func (req *ProductRequest) applyTo(p *model.Product) {
	p.CategoryID = req.CategoryID
	p.BrandID = req.BrandID
	p.MotorcycleID = req.MotorcycleID
	p.Size = req.Size
	p.BuyPrice = req.BuyPrice
	p.SellPrice = req.SellPrice
	p.Note = req.Note
	if req.CurrentStock != nil {
		p.CurrentStock = *req.CurrentStock
	}
	p.MinThreshold = req.MinThreshold
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest, actor Actor) (*model.Product, error) {
	// 1. Validate the request body
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Referenced rows must exist
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	product := &model.Product{}
	req.applyTo(product)
	product.StampCreated(actor.Username)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, translate(err, ErrProductNotFound)
	}

	created, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, translate(err, ErrProductNotFound)
	}

	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "product_created",
		Data: map[string]interface{}{
			"id":           created.ID,
			"currentStock": created.CurrentStock,
			"sellPrice":    created.SellPrice,
		},
		Actor:   actor.Username,
		Message: fmt.Sprintf("%s created product #%d", actor.label(), created.ID),
	})
	return created, nil
}

// UpdateProduct is a direct edit under the product's row lock. currentStock
// is only written when present in the request; a changed value bypasses the ledger.
func (s *productService) UpdateProduct(ctx context.Context, id uint, req *ProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	var oldStock, newStock int
	err := s.uow.Execute(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		oldStock = existing.CurrentStock
		req.applyTo(existing)
		existing.StampUpdated(actor.Username)
		newStock = existing.CurrentStock
		return repos.Products().Update(ctx, existing)
	})
	if err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	if oldStock != newStock {
		s.log.Info().Uint("product_id", id).Int("old_stock", oldStock).Int("new_stock", newStock).
			Str("actor", actor.Username).Msg("stock edited directly")
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrProductNotFound)
	}

	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "product_updated",
		Data: map[string]interface{}{
			"id":       updated.ID,
			"oldStock": oldStock,
			"newStock": updated.CurrentStock,
		},
		Actor:   actor.Username,
		Message: fmt.Sprintf("%s updated product #%d", actor.label(), updated.ID),
	})
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint, actor Actor) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return translate(err, ErrProductNotFound)
	}
	s.events.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_deleted",
		Data:    map[string]interface{}{"id": id},
		Actor:   actor.Username,
		Message: fmt.Sprintf("%s deleted product #%d", actor.label(), id),
	})
	return nil
}

func (s *productService) GetAllProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, filter)
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return p, nil
}

func (s *productService) GetLowStock(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, repository.ProductFilter{LowStockOnly: true})
}

func (s *productService) requireProduct(ctx context.Context, id uint) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return translate(err, ErrProductNotFound)
	}
	return nil
}

func (s *productService) requireMotorcycles(ctx context.Context, ids ...uint) error {
	for _, id := range ids {
		ok, err := s.motorcycleRepo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: motorcycleId %d", ErrInvalidReference, id)
		}
	}
	return nil
}

func (s *productService) GetCompatibleMotorcycles(ctx context.Context, productID uint) ([]model.Motorcycle, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.compatibilityRepo.MotorcyclesForProduct(ctx, productID)
}

func (s *productService) SetCompatibleMotorcycles(ctx context.Context, productID uint, motorcycleIDs []uint, actor Actor) ([]model.Motorcycle, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	ids := dedupe(motorcycleIDs)
	if err := s.requireMotorcycles(ctx, ids...); err != nil {
		return nil, err
	}
	if err := s.compatibilityRepo.Replace(ctx, productID, ids, actor.Username); err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return s.compatibilityRepo.MotorcyclesForProduct(ctx, productID)
}

func (s *productService) AddCompatibleMotorcycle(ctx context.Context, productID, motorcycleID uint, actor Actor) error {
	if err := s.requireProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.requireMotorcycles(ctx, motorcycleID); err != nil {
		return err
	}
	return translate(s.compatibilityRepo.Add(ctx, productID, motorcycleID, actor.Username), ErrReferenceNotFound)
}

func (s *productService) RemoveCompatibleMotorcycle(ctx context.Context, productID, motorcycleID uint) error {
	err := s.compatibilityRepo.Remove(ctx, productID, motorcycleID)
	if err != nil {
		return translate(err, ErrReferenceNotFound)
	}
	return nil
}

func (s *productService) GetProductsForMotorcycle(ctx context.Context, motorcycleID uint) ([]model.Product, error) {
	ok, err := s.motorcycleRepo.Exists(ctx, motorcycleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReferenceNotFound
	}
	return s.compatibilityRepo.ProductsForMotorcycle(ctx, motorcycleID)
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
