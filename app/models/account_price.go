package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountPrice couples an Account with a RentalType at a given price and
// rental duration. Rentals always reference one concrete price tier.
type AccountPrice struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AccountID      uint           `gorm:"not null;index" json:"account_id"`
	Account        Account        `gorm:"foreignKey:AccountID" json:"account,omitempty" validate:"-"`
	RentalTypeID   uint           `gorm:"not null;index" json:"rental_type_id"`
	RentalType     RentalType     `gorm:"foreignKey:RentalTypeID" json:"rental_type,omitempty" validate:"-"`
	Price          float64        `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0"`
	DurationMonths int            `gorm:"not null;default:1" json:"duration_months" validate:"gte=1"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
