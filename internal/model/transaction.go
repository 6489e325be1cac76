package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale     TransactionType = "sale"
	TxPurchase TransactionType = "purchase"
	TxReturn   TransactionType = "return"
)

// UnmarshalJSON accepts any casing ("Sale", "SALE") and stores the canonical form.
func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = TransactionType(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

func (t TransactionType) Valid() bool {
	switch t {
	case TxSale, TxPurchase, TxReturn:
		return true
	}
	return false
}

type Transaction struct {
	BaseModel
	Date          time.Time         `gorm:"not null;index" json:"date"`
	Type          TransactionType   `gorm:"type:varchar(10);not null;index" json:"type"`
	TotalAmount   decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"totalAmount"` // Σ item subtotals at creation
	PaymentMethod string            `gorm:"type:varchar(30);not null" json:"paymentMethod"`
	CustomerName  *string           `gorm:"type:varchar(100)" json:"customerName,omitempty"`
	Notes         *string           `gorm:"type:text" json:"notes,omitempty"`
	Items         []TransactionItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// TransactionItem is one product line of a transaction.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transactionId"`
	ProductID     uint            `gorm:"not null;index" json:"productId"`
	Product       *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
}

// LineSubtotal is quantity × unit price.
func LineSubtotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
