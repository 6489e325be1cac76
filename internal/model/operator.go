package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Operator is the shop account allowed to use the API
type Operator struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	FullName     string     `gorm:"type:varchar(255)" json:"fullName"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // single session enforcement
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// SetPassword hashes and sets the operator's password
func (o *Operator) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	o.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (o *Operator) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(password)) == nil
}

// OperatorResponse is used for API responses (without sensitive data)
type OperatorResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (o *Operator) ToResponse() OperatorResponse {
	return OperatorResponse{
		ID:          o.ID,
		Username:    o.Username,
		FullName:    o.FullName,
		IsActive:    o.IsActive,
		LastLoginAt: o.LastLoginAt,
	}
}
