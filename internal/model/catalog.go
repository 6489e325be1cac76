package model

// Category groups products (oil filters, brake pads, tyres...).
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"notblank,max=100"`
}

type Brand struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"notblank,max=100"`
}

// Motorcycle is a manufacturer/model pair parts can be fitted to.
type Motorcycle struct {
	BaseModel
	Manufacturer string `gorm:"type:varchar(100);not null;uniqueIndex:idx_motorcycle_make_model" json:"manufacturer" validate:"notblank,max=100"`
	Model        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_motorcycle_make_model" json:"model" validate:"notblank,max=100"`
	YearFrom     *int   `json:"yearFrom,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	YearTo       *int   `json:"yearTo,omitempty" validate:"omitempty,gte=1900,lte=2100"`
}

// ProductMotorcycleCompatibility records that a product fits a motorcycle.
type ProductMotorcycleCompatibility struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ProductID    uint        `gorm:"not null;uniqueIndex:idx_product_motorcycle" json:"productId"`
	MotorcycleID uint        `gorm:"not null;uniqueIndex:idx_product_motorcycle;index" json:"motorcycleId"`
	Product      *Product    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Motorcycle   *Motorcycle `gorm:"constraint:OnDelete:CASCADE" json:"motorcycle,omitempty"`
	CreatedBy    string      `gorm:"type:varchar(100)" json:"createdBy"`
}

func (ProductMotorcycleCompatibility) TableName() string {
	return "product_motorcycle_compatibility"
}
