package repository

import (
	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
)

// rentalRenewRepository implements the RentalRenewRepository interface
type rentalRenewRepository struct {
	db *gorm.DB
}

// NewRentalRenewRepository creates a new rental renew repository instance
func NewRentalRenewRepository(db *gorm.DB) RentalRenewRepository {
	return &rentalRenewRepository{db: db}
}

func (r *rentalRenewRepository) Create(renew *models.RentalRenew) error {
	return r.db.Create(renew).Error
}

func (r *rentalRenewRepository) ListByRentalID(rentalID uint) ([]models.RentalRenew, error) {
	var renews []models.RentalRenew
	err := r.db.Where("rental_id = ?", rentalID).Order("created_at").Find(&renews).Error
	return renews, err
}

func (r *rentalRenewRepository) CountByRentalID(rentalID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.RentalRenew{}).Where("rental_id = ?", rentalID).Count(&count).Error
	return count, err
}

// SoftRemoveByRentalID soft-deletes all ledger rows of a rental, keeping
// them restorable with the parent.
func (r *rentalRenewRepository) SoftRemoveByRentalID(rentalID uint) error {
	return r.db.Where("rental_id = ?", rentalID).Delete(&models.RentalRenew{}).Error
}

// HardRemoveByRentalID deletes all ledger rows of a rental permanently.
func (r *rentalRenewRepository) HardRemoveByRentalID(rentalID uint) error {
	return r.db.Unscoped().Where("rental_id = ?", rentalID).Delete(&models.RentalRenew{}).Error
}

// RestoreByRentalID clears soft-delete marks on all ledger rows of a rental.
func (r *rentalRenewRepository) RestoreByRentalID(rentalID uint) error {
	return r.db.Unscoped().Model(&models.RentalRenew{}).
		Where("rental_id = ?", rentalID).
		Update("deleted_at", nil).Error
}
