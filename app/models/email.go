package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Email is a mailbox address owned by a customer. Shared and business
// rentals place it into a workspace slot; notifications are sent to it.
type Email struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Address    string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"address" validate:"required,email,min=5,max=200"`
	CustomerID uint           `gorm:"not null;index" json:"customer_id"`
	Customer   Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Email) Validate() error {
	return validator.New().Struct(e)
}

// BelongsTo reports whether the email is owned by the given customer.
func (e *Email) BelongsTo(customerID uint) bool {
	return e.CustomerID == customerID
}
