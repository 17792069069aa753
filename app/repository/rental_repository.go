package repository

import (
	"fmt"

	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rentalRepository implements the RentalRepository interface
type rentalRepository struct {
	db *gorm.DB
}

// NewRentalRepository creates a new rental repository instance
func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(rental *models.Rental) error {
	return r.db.Create(rental).Error
}

func (r *rentalRepository) GetByID(id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// GetByIDWithRelations loads the rental with everything the update and
// notification paths need.
func (r *rentalRepository) GetByIDWithRelations(id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.
		Preload("Customer").
		Preload("Email").
		Preload("AccountPrice").
		Preload("AccountPrice.Account").
		Preload("AccountPrice.RentalType").
		Preload("WorkspaceEmail").
		Preload("WorkspaceEmail.Workspace").
		Preload("WorkspaceEmail.Workspace.AdminAccount").
		First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// GetByIDIncludingDeleted also finds soft-deleted rentals, for the restore
// and hard-remove workflows.
func (r *rentalRepository) GetByIDIncludingDeleted(id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.Unscoped().First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// Update persists the rental's own columns; preloaded relations are not
// written back.
func (r *rentalRepository) Update(rental *models.Rental) error {
	return r.db.Omit(clause.Associations).Save(rental).Error
}

// SaveAll persists a batch of mutated rentals.
func (r *rentalRepository) SaveAll(rows []*models.Rental) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Save(rows).Error
}

// List returns a page of rentals plus the total count, optionally filtered
// by status and by a customer-name or email-address search fragment.
func (r *rentalRepository) List(offset, limit int, status string, search string) ([]models.Rental, int64, error) {
	query := r.db.Model(&models.Rental{}).
		Joins("JOIN customers ON customers.id = rentals.customer_id").
		Joins("JOIN emails ON emails.id = rentals.email_id")

	if status != "" {
		query = query.Where("rentals.status = ?", status)
	}
	if search != "" {
		pattern := fmt.Sprintf("%%%s%%", search)
		query = query.Where("customers.name LIKE ? OR emails.address LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rentals []models.Rental
	err := query.
		Preload("Customer").
		Preload("Email").
		Preload("AccountPrice").
		Preload("AccountPrice.Account").
		Offset(offset).Limit(limit).
		Order("rentals.created_at DESC").
		Find(&rentals).Error
	return rentals, total, err
}

// PageActive fetches one page of active rentals with the relations the
// expiration sweep classifies and notifies on.
func (r *rentalRepository) PageActive(offset, limit int) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.
		Where("status = ?", models.RentalStatusActive).
		Preload("Customer").
		Preload("Email").
		Preload("AccountPrice").
		Preload("AccountPrice.Account").
		Preload("WorkspaceEmail").
		Preload("WorkspaceEmail.Workspace").
		Preload("WorkspaceEmail.Workspace.AdminAccount").
		Order("id").
		Offset(offset).Limit(limit).
		Find(&rentals).Error
	return rentals, err
}

// PageByEmailAddress fetches one page of rentals bound to the given email
// regardless of status, for diagnostic sweeps.
func (r *rentalRepository) PageByEmailAddress(address string, offset, limit int) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.
		Joins("JOIN emails ON emails.id = rentals.email_id").
		Where("emails.address = ?", address).
		Preload("Customer").
		Preload("Email").
		Preload("AccountPrice").
		Preload("AccountPrice.Account").
		Preload("WorkspaceEmail").
		Preload("WorkspaceEmail.Workspace").
		Preload("WorkspaceEmail.Workspace.AdminAccount").
		Order("rentals.id").
		Offset(offset).Limit(limit).
		Find(&rentals).Error
	return rentals, err
}

// Remove soft-deletes the rental.
func (r *rentalRepository) Remove(id uint) error {
	return r.db.Delete(&models.Rental{}, id).Error
}

// HardRemove deletes the rental row permanently.
func (r *rentalRepository) HardRemove(id uint) error {
	return r.db.Unscoped().Delete(&models.Rental{}, id).Error
}

// Restore clears the soft-delete mark.
func (r *rentalRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Rental{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}
