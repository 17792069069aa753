package repository

import (
	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// workspaceEmailRepository implements the WorkspaceEmailRepository interface.
type workspaceEmailRepository struct {
	db *gorm.DB
}

// NewWorkspaceEmailRepository creates a new workspace email repository instance
func NewWorkspaceEmailRepository(db *gorm.DB) WorkspaceEmailRepository {
	return &workspaceEmailRepository{db: db}
}

// CreateAndGetID allocates a slot for the pair. The existence check catches
// the common case; the unique index on (workspace_id, email_id) catches the
// concurrent one, surfacing gorm.ErrDuplicatedKey.
func (r *workspaceEmailRepository) CreateAndGetID(workspaceID, emailID uint) (uint, error) {
	exists, err := r.ExistsByPair(workspaceID, emailID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, gorm.ErrDuplicatedKey
	}

	row := models.WorkspaceEmail{
		WorkspaceID: workspaceID,
		EmailID:     emailID,
		Status:      models.RentalStatusActive,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *workspaceEmailRepository) GetByID(id uint) (*models.WorkspaceEmail, error) {
	var row models.WorkspaceEmail
	err := r.db.First(&row, id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *workspaceEmailRepository) ExistsByPair(workspaceID, emailID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceEmail{}).
		Where("workspace_id = ? AND email_id = ?", workspaceID, emailID).
		Count(&count).Error
	return count > 0, err
}

// Release frees the slot permanently so the pair can be re-bound.
func (r *workspaceEmailRepository) Release(id uint) error {
	return r.db.Unscoped().Delete(&models.WorkspaceEmail{}, id).Error
}

// Remove soft-deletes the slot, keeping it restorable alongside its rental.
func (r *workspaceEmailRepository) Remove(id uint) error {
	return r.db.Delete(&models.WorkspaceEmail{}, id).Error
}

// Restore clears the soft-delete mark on the slot. Fails with a duplicate
// key error when the pair has been re-bound to a live slot in the meantime.
func (r *workspaceEmailRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.WorkspaceEmail{}).
		Where("id = ?", id).
		Update("deleted_at", 0).Error
}

func (r *workspaceEmailRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.WorkspaceEmail{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SaveAll persists a batch of mutated slots.
func (r *workspaceEmailRepository) SaveAll(rows []*models.WorkspaceEmail) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Save(rows).Error
}
