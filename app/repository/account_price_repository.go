package repository

import (
	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
)

// accountPriceRepository implements the AccountPriceRepository interface
type accountPriceRepository struct {
	db *gorm.DB
}

// NewAccountPriceRepository creates a new account price repository instance
func NewAccountPriceRepository(db *gorm.DB) AccountPriceRepository {
	return &accountPriceRepository{db: db}
}

func (r *accountPriceRepository) Create(price *models.AccountPrice) error {
	return r.db.Create(price).Error
}

func (r *accountPriceRepository) GetByID(id uint) (*models.AccountPrice, error) {
	var price models.AccountPrice
	err := r.db.First(&price, id).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// GetByIDWithRentalType loads the price tier with its rental type and
// account, which the creation workflow branches on.
func (r *accountPriceRepository) GetByIDWithRentalType(id uint) (*models.AccountPrice, error) {
	var price models.AccountPrice
	err := r.db.Preload("RentalType").Preload("Account").First(&price, id).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *accountPriceRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.AccountPrice{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
