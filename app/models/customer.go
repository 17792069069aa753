package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Customer is a person renting accounts from the operations team.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Phone     string         `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	Note      string         `gorm:"type:text" json:"note"`
	Emails    []Email        `gorm:"foreignKey:CustomerID" json:"emails,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) Validate() error {
	return validator.New().Struct(c)
}
