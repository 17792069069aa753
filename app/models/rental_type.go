package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RentalTypePersonal = "personal"
	RentalTypeShared   = "shared"
	RentalTypeBusiness = "business"
)

// RentalType classifies how an account is rented out. Personal rentals hand
// the whole account to one customer; shared and business rentals place the
// customer's email into a workspace slot of a common account.
type RentalType struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"type" validate:"required,oneof=personal shared business"`
	Name        string         `gorm:"type:varchar(150)" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// RequiresWorkspace reports whether rentals of this type must be bound to a
// workspace slot.
func (rt *RentalType) RequiresWorkspace() bool {
	return rt.Type != RentalTypePersonal
}
