package models

import (
	"time"

	"gorm.io/gorm"
)

// RentalRenew is one append-only ledger entry recording the terms of a
// rental booking or renewal. The opening entry is written atomically with
// the rental itself, so every rental owns at least one row. Entries are only
// ever removed or restored in lock-step with their parent rental.
type RentalRenew struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	RentalID       uint           `gorm:"not null;index" json:"rental_id"`
	AccountPriceID uint           `gorm:"not null;index" json:"account_price_id"`
	AccountPrice   AccountPrice   `gorm:"foreignKey:AccountPriceID" json:"account_price,omitempty" validate:"-"`
	NewEndDate     time.Time      `gorm:"type:date;not null" json:"new_end_date"`
	LastStartDate  time.Time      `gorm:"type:date;not null" json:"last_start_date"`
	TotalPrice     float64        `gorm:"type:decimal(12,2);default:0" json:"total_price"`
	WarrantyFee    float64        `gorm:"type:decimal(12,2);default:0" json:"warranty_fee"`
	Discount       float64        `gorm:"type:decimal(12,2);default:0" json:"discount"`
	PaymentMethod  string         `gorm:"type:varchar(32)" json:"payment_method"`
	Note           string         `gorm:"type:text" json:"note"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
