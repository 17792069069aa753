package repository

import (
	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
)

// emailRepository implements the EmailRepository interface
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new email repository instance
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

func (r *emailRepository) Create(email *models.Email) error {
	return r.db.Create(email).Error
}

func (r *emailRepository) GetByID(id uint) (*models.Email, error) {
	var email models.Email
	err := r.db.First(&email, id).Error
	if err != nil {
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) GetByAddress(address string) (*models.Email, error) {
	var email models.Email
	err := r.db.Where("address = ?", address).First(&email).Error
	if err != nil {
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Email{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *emailRepository) ListByCustomerID(customerID uint) ([]models.Email, error) {
	var emails []models.Email
	err := r.db.Where("customer_id = ?", customerID).Find(&emails).Error
	return emails, err
}
