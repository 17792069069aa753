package repository

import (
	"fmt"

	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *customerRepository) List(offset, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

// Search matches customers by name or phone fragment.
func (r *customerRepository) Search(query string) ([]models.Customer, error) {
	var customers []models.Customer
	pattern := fmt.Sprintf("%%%s%%", query)
	err := r.db.Where("name LIKE ? OR phone LIKE ?", pattern, pattern).
		Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}
