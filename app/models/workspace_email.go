package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// WorkspaceEmail binds one customer email into one workspace slot. The pair
// (workspace_id, email_id) is unique among live rows only: DeletedAt is a
// zero-when-live timestamp closing the unique index, so soft-removed slots
// never block re-binding the same pair while two live rows for it remain
// impossible even under concurrent allocation.
// Status mirrors the owning rental's status for display.
type WorkspaceEmail struct {
	ID          uint                  `gorm:"primaryKey" json:"id"`
	WorkspaceID uint                  `gorm:"not null;uniqueIndex:ux_workspace_emails_pair,priority:1" json:"workspace_id"`
	Workspace   Workspace             `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty" validate:"-"`
	EmailID     uint                  `gorm:"not null;uniqueIndex:ux_workspace_emails_pair,priority:2" json:"email_id"`
	Email       Email                 `gorm:"foreignKey:EmailID" json:"email,omitempty" validate:"-"`
	Status      string                `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	CreatedAt   time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   soft_delete.DeletedAt `gorm:"softDelete:milli;uniqueIndex:ux_workspace_emails_pair,priority:3" json:"-"`
}
