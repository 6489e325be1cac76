package model

import "github.com/shopspring/decimal"

// Product is a stocked part variant. It has no name of its own; it is
// identified by category, brand, fitment and size label.
type Product struct {
	BaseModel
	CategoryID   uint            `gorm:"not null;index" json:"categoryId"`
	Category     *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	BrandID      uint            `gorm:"not null;index" json:"brandId"`
	Brand        *Brand          `gorm:"constraint:OnDelete:RESTRICT" json:"brand,omitempty"`
	MotorcycleID *uint           `gorm:"index" json:"motorcycleId,omitempty"`
	Motorcycle   *Motorcycle     `gorm:"constraint:OnDelete:SET NULL" json:"motorcycle,omitempty"`
	Size         string          `gorm:"type:varchar(50)" json:"size"`
	BuyPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"buyPrice"`
	SellPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"sellPrice"`
	Note         string          `gorm:"type:text" json:"note"`
	CurrentStock int             `gorm:"not null;default:0" json:"currentStock"`
	MinThreshold int             `gorm:"not null;default:0" json:"minThreshold"`
}

// IsLowStock reports whether stock has reached the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinThreshold
}
