package model

import "time"

// BaseModel handles the numeric ID and standard audit trail
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Operator username that created / last touched the row
	CreatedBy string `gorm:"type:varchar(100)" json:"createdBy"`
	UpdatedBy string `gorm:"type:varchar(100)" json:"updatedBy"`
}

// Auditable is implemented by every model that embeds BaseModel.
type Auditable interface {
	GetID() uint
	SetID(id uint)
	StampCreated(actor string)
	StampUpdated(actor string)
}

func (b *BaseModel) GetID() uint   { return b.ID }
func (b *BaseModel) SetID(id uint) { b.ID = id }

func (b *BaseModel) StampCreated(actor string) {
	b.CreatedBy = actor
	b.UpdatedBy = actor
}

func (b *BaseModel) StampUpdated(actor string) {
	b.UpdatedBy = actor
}
