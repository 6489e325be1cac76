package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/ws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory database behind a unit of work that snapshots on
// entry and restores the snapshot when fn fails.
type memStore struct {
	products map[uint]model.Product
	txs      map[uint]model.Transaction
	items    map[uint]model.TransactionItem
	nextTx   uint
	nextItem uint

	// failItemAt makes the n-th CreateItem call (1-based) fail.
	failItemAt int
	itemCalls  int
	// failStockFor makes UpdateStock fail for this product id.
	failStockFor uint

	commits   int
	rollbacks int
}

func newMemStore(products ...model.Product) *memStore {
	s := &memStore{
		products: map[uint]model.Product{},
		txs:      map[uint]model.Transaction{},
		items:    map[uint]model.TransactionItem{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func product(id uint, stock, threshold int) model.Product {
	p := model.Product{CategoryID: 1, BrandID: 1, CurrentStock: stock, MinThreshold: threshold, SellPrice: decimal.NewFromInt(1000)}
	p.ID = id
	return p
}

func (s *memStore) stock(id uint) int {
	return s.products[id].CurrentStock
}

type snapshot struct {
	products map[uint]model.Product
	txs      map[uint]model.Transaction
	items    map[uint]model.TransactionItem
	nextTx   uint
	nextItem uint
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		products: make(map[uint]model.Product, len(s.products)),
		txs:      make(map[uint]model.Transaction, len(s.txs)),
		items:    make(map[uint]model.TransactionItem, len(s.items)),
		nextTx:   s.nextTx,
		nextItem: s.nextItem,
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.txs {
		snap.txs[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.products, s.txs, s.items = snap.products, snap.txs, snap.items
	s.nextTx, s.nextItem = snap.nextTx, snap.nextItem
}

func (s *memStore) Execute(ctx context.Context, fn func(repos repository.Repositories) error) error {
	snap := s.snapshot()
	if err := fn(memRepos{s}); err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

type memRepos struct{ s *memStore }

func (r memRepos) Stock() repository.StockRepository        { return memStock{r.s} }
func (r memRepos) Products() repository.ProductRepository { return memProducts{memStock{r.s}} }
func (r memRepos) Ledger() repository.LedgerRepository      { return memLedger{r.s} }

type memStock struct{ s *memStore }

func (m memStock) FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m memStock) UpdateStock(ctx context.Context, id uint, newStock int, updatedBy string) error {
	if m.s.failStockFor == id {
		return errInjected
	}
	p, ok := m.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock = newStock
	p.UpdatedBy = updatedBy
	m.s.products[id] = p
	return nil
}

type memLedger struct{ s *memStore }

func (m memLedger) Create(ctx context.Context, tx *model.Transaction) error {
	m.s.nextTx++
	tx.ID = m.s.nextTx
	stored := *tx
	stored.Items = nil
	m.s.txs[tx.ID] = stored
	return nil
}

func (m memLedger) CreateItem(ctx context.Context, item *model.TransactionItem) error {
	m.s.itemCalls++
	if m.s.failItemAt > 0 && m.s.itemCalls == m.s.failItemAt {
		return errInjected
	}
	if _, ok := m.s.products[item.ProductID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	m.s.nextItem++
	item.ID = m.s.nextItem
	m.s.items[item.ID] = *item
	return nil
}

func (m memLedger) FindWithItems(ctx context.Context, id uint) (*model.Transaction, error) {
	return m.s.FindByID(ctx, id)
}

func (m memLedger) DeleteItems(ctx context.Context, transactionID uint) error {
	for id, item := range m.s.items {
		if item.TransactionID == transactionID {
			delete(m.s.items, id)
		}
	}
	return nil
}

func (m memLedger) Delete(ctx context.Context, id uint) error {
	if _, ok := m.s.txs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.txs, id)
	return nil
}

func (s *memStore) withItems(tx model.Transaction) model.Transaction {
	tx.Items = nil
	for _, item := range s.items {
		if item.TransactionID == tx.ID {
			tx.Items = append(tx.Items, item)
		}
	}
	sort.Slice(tx.Items, func(i, j int) bool { return tx.Items[i].ID < tx.Items[j].ID })
	return tx
}

func (s *memStore) FindAll(ctx context.Context) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, s.withItems(tx))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	tx = s.withItems(tx)
	return &tx, nil
}

func (s *memStore) FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	all, _ := s.FindAll(ctx)
	var out []model.Transaction
	for _, tx := range all {
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// recorder collects published events.
type recorder struct {
	events []ws.Event
}

func (r *recorder) Publish(evt ws.Event) {
	r.events = append(r.events, evt)
}

func (r *recorder) actions() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

var (
	_ repository.UnitOfWork        = (*memStore)(nil)
	_ repository.TransactionReader = (*memStore)(nil)
)
