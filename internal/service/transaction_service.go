package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/ws"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionService interface {
	Create(ctx context.Context, req *CreateTransactionRequest, actor Actor) (*model.Transaction, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	GetAll(ctx context.Context) ([]model.Transaction, error)
	GetByID(ctx context.Context, id uint) (*model.Transaction, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
}

type TransactionItemRequest struct {
	ProductID uint            `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=1000000"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
}

type CreateTransactionRequest struct {
	Type          model.TransactionType    `json:"type" validate:"required,oneof=sale purchase return"`
	PaymentMethod string                   `json:"paymentMethod" validate:"notblank,max=30"`
	CustomerName  *string                  `json:"customerName" validate:"omitempty,max=100"`
	Notes         *string                  `json:"notes"`
	Items         []TransactionItemRequest `json:"items" validate:"dive"`
}

// Total is Σ quantity × price over the items.
func (r *CreateTransactionRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(model.LineSubtotal(item.Quantity, item.Price))
	}
	return total
}

type transactionService struct {
	uow    repository.UnitOfWork
	reader repository.TransactionReader
	events ws.Publisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewTransactionService(uow repository.UnitOfWork, reader repository.TransactionReader, events ws.Publisher, log zerolog.Logger) TransactionService {
	return &transactionService{
		uow:    uow,
		reader: reader,
		events: events,
		log:    log.With().Str("component", "transactions").Logger(),
		now:    time.Now,
	}
}

// stockChange is one product's stock after a committed line, kept for events.
type stockChange struct {
	Product  model.Product
	OldStock int
}

func (s *transactionService) Create(ctx context.Context, req *CreateTransactionRequest, actor Actor) (*model.Transaction, error) {
	// 1. Reject before touching the database
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	header := &model.Transaction{
		Date:          s.now(),
		Type:          req.Type,
		TotalAmount:   req.Total(),
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
	}
	header.StampCreated(actor.Username)

	var changes []stockChange

	// 2. Header, items and stock in one unit of work
	err := s.uow.Execute(ctx, func(repos repository.Repositories) error {
		changes = changes[:0]
		if err := repos.Ledger().Create(ctx, header); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		for i, line := range req.Items {
			// product is locked before its item row exists; a missing id is ErrProductNotFound
			change, err := s.adjust(ctx, repos.Stock(), header.Type, line.ProductID, line.Quantity, false, actor)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			item := &model.TransactionItem{
				TransactionID: header.ID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				Price:         line.Price,
				Subtotal:      model.LineSubtotal(line.Quantity, line.Price),
			}
			if err := repos.Ledger().CreateItem(ctx, item); err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
			changes = append(changes, change)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("type", string(req.Type)).Int("items", len(req.Items)).Msg("create transaction rolled back")
		return nil, fmt.Errorf("%w: %w", ErrTransactionAborted, err)
	}

	s.log.Info().Uint("transaction_id", header.ID).Str("type", string(header.Type)).
		Str("total", header.TotalAmount.String()).Str("actor", actor.Username).Msg("transaction recorded")

	created, err := s.reader.FindByID(ctx, header.ID)
	if err != nil {
		// committed already; fall back to what we wrote
		s.log.Warn().Err(err).Uint("transaction_id", header.ID).Msg("re-read after create failed")
		created = header
	}

	s.publishCreated(created, changes, actor)
	return created, nil
}

func (s *transactionService) Delete(ctx context.Context, id uint, actor Actor) error {
	var removed *model.Transaction

	err := s.uow.Execute(ctx, func(repos repository.Repositories) error {
		tx, err := repos.Ledger().FindWithItems(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("load transaction: %w", err)
		}

		for _, item := range tx.Items {
			if _, err := s.adjust(ctx, repos.Stock(), tx.Type, item.ProductID, item.Quantity, true, actor); err != nil {
				return fmt.Errorf("revert item %d: %w", item.ID, err)
			}
		}

		if err := repos.Ledger().DeleteItems(ctx, tx.ID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := repos.Ledger().Delete(ctx, tx.ID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		removed = tx
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		s.log.Error().Err(err).Uint("transaction_id", id).Msg("delete transaction rolled back")
		return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
	}

	s.log.Info().Uint("transaction_id", id).Str("actor", actor.Username).Msg("transaction deleted")
	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "transaction_deleted",
		Data: map[string]interface{}{
			"id":    removed.ID,
			"type":  removed.Type,
			"items": len(removed.Items),
		},
		Actor:   actor.Username,
		Message: fmt.Sprintf("%s deleted %s transaction #%d", actor.label(), removed.Type, removed.ID),
	})
	return nil
}

// adjust locks the product, applies (or reverts) the stock rule and saves it.
func (s *transactionService) adjust(ctx context.Context, stock repository.StockRepository, typ model.TransactionType, productID uint, qty int, revert bool, actor Actor) (stockChange, error) {
	product, err := stock.FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stockChange{}, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return stockChange{}, fmt.Errorf("load product %d: %w", productID, err)
	}

	old := product.CurrentStock
	var next int
	if revert {
		next = typ.Revert(old, qty)
		if typ.RevertClamps(old, qty) {
			s.log.Warn().Uint("product_id", productID).Int("stock", old).Int("quantity", qty).
				Str("type", string(typ)).Msg("stock reversal clamped at zero")
		}
	} else {
		next = typ.Apply(old, qty)
		if typ.Clamps(old, qty) {
			s.log.Warn().Uint("product_id", productID).Int("stock", old).Int("quantity", qty).
				Str("type", string(typ)).Msg("stock clamped at zero, sale exceeds stock")
		}
	}

	if err := stock.UpdateStock(ctx, productID, next, actor.Username); err != nil {
		return stockChange{}, fmt.Errorf("update stock of product %d: %w", productID, err)
	}
	product.CurrentStock = next
	return stockChange{Product: *product, OldStock: old}, nil
}

func (s *transactionService) publishCreated(tx *model.Transaction, changes []stockChange, actor Actor) {
	lines := make([]map[string]interface{}, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, map[string]interface{}{
			"productId": c.Product.ID,
			"oldStock":  c.OldStock,
			"newStock":  c.Product.CurrentStock,
		})
	}

	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "transaction_created",
		Data: map[string]interface{}{
			"id":          tx.ID,
			"type":        tx.Type,
			"totalAmount": tx.TotalAmount,
			"stock":       lines,
		},
		Actor:   actor.Username,
		Message: fmt.Sprintf("%s recorded a %s of %s", actor.label(), tx.Type, tx.TotalAmount.String()),
	})

	// last write per product wins when a product appears on several lines
	latest := make(map[uint]model.Product)
	var order []uint
	for _, c := range changes {
		if _, seen := latest[c.Product.ID]; !seen {
			order = append(order, c.Product.ID)
		}
		latest[c.Product.ID] = c.Product
	}
	for _, id := range order {
		p := latest[id]
		if !p.IsLowStock() {
			continue
		}
		s.events.Publish(ws.Event{
			Type:   "stock_alert",
			Action: "low_stock",
			Data: map[string]interface{}{
				"productId":    p.ID,
				"currentStock": p.CurrentStock,
				"minThreshold": p.MinThreshold,
			},
			Actor:   actor.Username,
			Message: fmt.Sprintf("product #%d is low on stock (%d left, threshold %d)", p.ID, p.CurrentStock, p.MinThreshold),
		})
	}
}

func (s *transactionService) GetAll(ctx context.Context) ([]model.Transaction, error) {
	return s.reader.FindAll(ctx)
}

func (s *transactionService) GetByID(ctx context.Context, id uint) (*model.Transaction, error) {
	tx, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrTransactionNotFound)
	}
	return tx, nil
}

// GetByDateRange returns transactions dated within [start, end).
func (s *transactionService) GetByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if !end.After(start) {
		return nil, fieldError("endDate", "gtefield")
	}
	return s.reader.FindByDateRange(ctx, start, end)
}
