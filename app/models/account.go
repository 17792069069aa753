package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is a digital subscription account the team rents out, e.g. a
// streaming or productivity suite account.
type Account struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Description string         `gorm:"type:text" json:"description"`
	Prices      []AccountPrice `gorm:"foreignKey:AccountID" json:"prices,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
