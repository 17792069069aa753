package repository

import (
	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
)

// UserRepository defines user lookups for authentication and admin tooling.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
}

// CustomerRepository defines customer lookups consumed by the rental engine.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	Exists(id uint) (bool, error)
	List(offset, limit int) ([]models.Customer, error)
	Search(query string) ([]models.Customer, error)
	Update(customer *models.Customer) error
	Delete(id uint) error
}

// EmailRepository defines email lookups consumed by the rental engine.
type EmailRepository interface {
	Create(email *models.Email) error
	GetByID(id uint) (*models.Email, error)
	GetByAddress(address string) (*models.Email, error)
	Exists(id uint) (bool, error)
	ListByCustomerID(customerID uint) ([]models.Email, error)
}

// AccountPriceRepository resolves price tiers with their rental type.
type AccountPriceRepository interface {
	Create(price *models.AccountPrice) error
	GetByID(id uint) (*models.AccountPrice, error)
	GetByIDWithRentalType(id uint) (*models.AccountPrice, error)
	Exists(id uint) (bool, error)
}

// WorkspaceRepository resolves workspaces with their admin account.
type WorkspaceRepository interface {
	Create(workspace *models.Workspace) error
	GetByID(id uint) (*models.Workspace, error)
	GetByIDWithAdminAccount(id uint) (*models.Workspace, error)
	Exists(id uint) (bool, error)
}

// WorkspaceEmailRepository is the workspace-email slot allocator. The pair
// (workspace_id, email_id) is unique among live rows; CreateAndGetID checks
// first and relies on the unique index as the concurrent-race backstop.
type WorkspaceEmailRepository interface {
	CreateAndGetID(workspaceID, emailID uint) (uint, error)
	GetByID(id uint) (*models.WorkspaceEmail, error)
	ExistsByPair(workspaceID, emailID uint) (bool, error)
	Release(id uint) error
	Remove(id uint) error
	Restore(id uint) error
	UpdateStatus(id uint, status string) error
	SaveAll(rows []*models.WorkspaceEmail) error
}

// RentalRepository persists rentals and serves the sweep's page queries.
type RentalRepository interface {
	Create(rental *models.Rental) error
	GetByID(id uint) (*models.Rental, error)
	GetByIDWithRelations(id uint) (*models.Rental, error)
	GetByIDIncludingDeleted(id uint) (*models.Rental, error)
	Update(rental *models.Rental) error
	SaveAll(rows []*models.Rental) error
	List(offset, limit int, status string, search string) ([]models.Rental, int64, error)
	PageActive(offset, limit int) ([]models.Rental, error)
	PageByEmailAddress(address string, offset, limit int) ([]models.Rental, error)
	Remove(id uint) error
	HardRemove(id uint) error
	Restore(id uint) error
}

// RentalRenewRepository is the append-only renewal ledger.
type RentalRenewRepository interface {
	Create(renew *models.RentalRenew) error
	ListByRentalID(rentalID uint) ([]models.RentalRenew, error)
	CountByRentalID(rentalID uint) (int64, error)
	SoftRemoveByRentalID(rentalID uint) error
	HardRemoveByRentalID(rentalID uint) error
	RestoreByRentalID(rentalID uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	Customer       CustomerRepository
	Email          EmailRepository
	AccountPrice   AccountPriceRepository
	Workspace      WorkspaceRepository
	WorkspaceEmail WorkspaceEmailRepository
	Rental         RentalRepository
	RentalRenew    RentalRenewRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Customer:       NewCustomerRepository(db),
		Email:          NewEmailRepository(db),
		AccountPrice:   NewAccountPriceRepository(db),
		Workspace:      NewWorkspaceRepository(db),
		WorkspaceEmail: NewWorkspaceEmailRepository(db),
		Rental:         NewRentalRepository(db),
		RentalRenew:    NewRentalRenewRepository(db),
	}
}
