package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminAccount is the credential set that administrates a shared or business
// account's workspace (the mailbox that owns the seats).
type AdminAccount struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AccountID uint           `gorm:"not null;index" json:"account_id"`
	Account   Account        `gorm:"foreignKey:AccountID" json:"account,omitempty" validate:"-"`
	Email     string         `gorm:"type:varchar(200);not null" json:"email" validate:"required,email"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Workspace is a shared or business account's seat pool. Customer emails are
// bound into it through WorkspaceEmail slots.
type Workspace struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(200)" json:"name"`
	Type           string         `gorm:"type:varchar(50);not null;index" json:"type" validate:"required,oneof=shared business"`
	MaxSlots       int            `gorm:"default:0" json:"max_slots"`
	AdminAccountID uint           `gorm:"not null;index" json:"admin_account_id"`
	AdminAccount   AdminAccount   `gorm:"foreignKey:AdminAccountID" json:"admin_account,omitempty" validate:"-"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// MatchesRentalType reports whether the workspace can host rentals of the
// given rental type. A business rental needs a business workspace, a shared
// rental a shared one.
func (w *Workspace) MatchesRentalType(rentalType string) bool {
	return w.Type == rentalType
}
