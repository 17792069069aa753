package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RentalStatusActive  = "active"
	RentalStatusExpired = "expired"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodBank     = "bank"
	PaymentMethodEWallet  = "e_wallet"
	PaymentMethodDeferred = "deferred"
)

// Rental is a time-bounded lease of one account price tier to one customer.
// WorkspaceEmailID is set exactly when the price's rental type requires a
// workspace slot (shared/business); personal rentals carry none.
type Rental struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UUID             string          `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	CustomerID       uint            `gorm:"not null;index" json:"customer_id"`
	Customer         Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`
	AccountPriceID   uint            `gorm:"not null;index" json:"account_price_id"`
	AccountPrice     AccountPrice    `gorm:"foreignKey:AccountPriceID" json:"account_price,omitempty" validate:"-"`
	EmailID          uint            `gorm:"not null;index" json:"email_id"`
	Email            Email           `gorm:"foreignKey:EmailID" json:"email,omitempty" validate:"-"`
	WorkspaceEmailID *uint           `gorm:"index" json:"workspace_email_id"`
	WorkspaceEmail   *WorkspaceEmail `gorm:"foreignKey:WorkspaceEmailID" json:"workspace_email,omitempty" validate:"-"`
	StartDate        time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time       `gorm:"type:date;not null" json:"end_date"`
	Status           string          `gorm:"type:varchar(32);not null;default:'active';index" json:"status" validate:"oneof=active expired"`
	Note             string          `gorm:"type:text" json:"note"`
	PaymentAmount    float64         `gorm:"type:decimal(12,2);default:0" json:"payment_amount"`
	TotalPrice       float64         `gorm:"type:decimal(12,2);default:0" json:"total_price"`
	WarrantyFee      float64         `gorm:"type:decimal(12,2);default:0" json:"warranty_fee" validate:"gte=0"`
	Discount         float64         `gorm:"type:decimal(12,2);default:0" json:"discount" validate:"gte=0"`
	PaymentMethod    string          `gorm:"type:varchar(32)" json:"payment_method" validate:"omitempty,oneof=cash bank e_wallet deferred"`
	NotifyCount      int             `gorm:"default:0" json:"notify_count"`
	Renews           []RentalRenew   `gorm:"foreignKey:RentalID" json:"renews,omitempty" validate:"-"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (r *Rental) Validate() error {
	return validator.New().Struct(r)
}

// BeforeCreate assigns a reference UUID when none was set.
func (r *Rental) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

// DateOnly truncates a timestamp to its calendar date in local time.
// Expiry math is date-only across the whole system; every day-diff
// computation must go through this helper so the sweep classification and
// the notification formatting never drift apart.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntilEnd returns the signed number of whole days between today and the
// rental's end date. Zero means it expires today, negative means overdue.
func (r *Rental) DaysUntilEnd(today time.Time) int {
	return int(DateOnly(r.EndDate).Sub(DateOnly(today)).Hours() / 24)
}

// IsExpiredAt reports whether the rental's end date lies strictly before the
// given day.
func (r *Rental) IsExpiredAt(today time.Time) bool {
	return r.DaysUntilEnd(today) < 0
}

// IsNearExpiredAt reports whether the rental sits exactly at the configured
// near-expiry threshold and is still active.
func (r *Rental) IsNearExpiredAt(today time.Time, thresholdDays int) bool {
	return r.Status == RentalStatusActive && r.DaysUntilEnd(today) == thresholdDays
}
